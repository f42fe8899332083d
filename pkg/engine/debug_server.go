package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"runtime"
	"strconv"
	"sync"
	"time"
)

// stateTimeout bounds how long /state waits for the UI goroutine.
const stateTimeout = 2 * time.Second

// StateFunc reports the state served at /state. It runs on the UI
// goroutine.
type StateFunc func() any

// RuntimeSample captures a snapshot of runtime memory/GC stats.
type RuntimeSample struct {
	Timestamp    int64  `json:"ts"`
	HeapAlloc    uint64 `json:"heapAlloc"`
	HeapInuse    uint64 `json:"heapInuse"`
	HeapSys      uint64 `json:"heapSys"`
	NumGC        uint32 `json:"numGC"`
	PauseTotalNs uint64 `json:"pauseTotalNs"`
	Goroutines   int    `json:"goroutines"`
}

// DebugServer serves loop diagnostics over HTTP:
//
//	/health   liveness
//	/frames   recent frame samples (?limit=N, ?min_ms=F)
//	/runtime  memory and GC stats
//	/state    the value returned by the StateFunc
type DebugServer struct {
	loop  *Loop
	state StateFunc

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// NewDebugServer creates a debug server for loop. state may be nil.
func NewDebugServer(loop *Loop, state StateFunc) *DebugServer {
	return &DebugServer{loop: loop, state: state}
}

// Handler returns the server's request multiplexer.
func (s *DebugServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/frames", s.handleFrames)
	mux.HandleFunc("/runtime", s.handleRuntime)
	mux.HandleFunc("/state", s.handleState)
	return mux
}

// Start listens on addr and serves in the background. It returns the bound
// address, which is useful with port 0. Starting a running server returns
// its current address.
func (s *DebugServer) Start(addr string) (net.Addr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return s.listener.Addr(), nil
	}

	// Bind first to fail fast on port conflicts.
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("debug server listen: %w", err)
	}
	server := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	s.server = server
	s.listener = listener

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.mu.Lock()
			s.server = nil
			s.listener = nil
			s.mu.Unlock()
		}
	}()
	return listener.Addr(), nil
}

// Shutdown gracefully stops the server. It is a no-op when not running.
func (s *DebugServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	server := s.server
	s.server = nil
	s.listener = nil
	s.mu.Unlock()

	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

func (s *DebugServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *DebugServer) handleFrames(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	trace := s.loop.FrameTrace()
	if trace == nil {
		http.Error(w, "frame tracing disabled", http.StatusServiceUnavailable)
		return
	}
	resp := trace.Snapshot()
	applyFrameFilters(r, &resp)
	writeJSON(w, resp)
}

func (s *DebugServer) handleRuntime(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	writeJSON(w, RuntimeSample{
		Timestamp:    time.Now().UnixMilli(),
		HeapAlloc:    stats.HeapAlloc,
		HeapInuse:    stats.HeapInuse,
		HeapSys:      stats.HeapSys,
		NumGC:        stats.NumGC,
		PauseTotalNs: stats.PauseTotalNs,
		Goroutines:   runtime.NumGoroutine(),
	})
}

// handleState reads state on the UI goroutine, so the loop must be running.
func (s *DebugServer) handleState(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	if s.state == nil {
		http.Error(w, "no state", http.StatusServiceUnavailable)
		return
	}
	result := make(chan any, 1)
	s.loop.Dispatch(func() { result <- s.state() })

	timer := time.NewTimer(stateTimeout)
	defer timer.Stop()
	select {
	case v := <-result:
		writeJSON(w, v)
	case <-timer.C:
		http.Error(w, "ui goroutine did not respond", http.StatusServiceUnavailable)
	case <-r.Context().Done():
	}
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	// Encode to a buffer first so errors still produce a status.
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		http.Error(w, fmt.Sprintf("json encode error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func applyFrameFilters(r *http.Request, resp *FrameTimeline) {
	limit := 0
	if value := r.URL.Query().Get("limit"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	if v := parseFloatQuery(r, "min_ms"); v > 0 {
		filtered := make([]FrameSample, 0, len(resp.Samples))
		for _, sample := range resp.Samples {
			if sample.FrameMs >= v {
				filtered = append(filtered, sample)
			}
		}
		resp.Samples = filtered
	}

	if limit > 0 && len(resp.Samples) > limit {
		resp.Samples = resp.Samples[len(resp.Samples)-limit:]
	}
}

func parseFloatQuery(r *http.Request, key string) float64 {
	value := r.URL.Query().Get(key)
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return parsed
}
