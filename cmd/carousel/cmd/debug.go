package cmd

import (
	"context"
	"time"

	"github.com/go-drift/carousel/pkg/carousel"
	"github.com/go-drift/carousel/pkg/engine"
)

// debugState is the /state payload.
type debugState struct {
	Items   int             `json:"items"`
	State   carousel.State  `json:"state"`
	Visible debugBuffer     `json:"visible"`
	Pending debugBuffer     `json:"pending"`
	Config  carousel.Config `json:"config"`
}

type debugBuffer struct {
	Index   int     `json:"index"`
	Loaded  bool    `json:"loaded"`
	X       float64 `json:"x"`
	Alpha   float64 `json:"alpha"`
	Visible bool    `json:"visible"`
}

func newDebugBuffer(b carousel.Buffer) debugBuffer {
	return debugBuffer{Index: b.Index, Loaded: b.Image != nil, X: b.X, Alpha: b.Alpha, Visible: b.Visible}
}

// carouselState returns a StateFunc reporting the carousel current returns.
func carouselState(current func() *carousel.Carousel) engine.StateFunc {
	return func() any {
		c := current()
		if c == nil {
			return nil
		}
		return debugState{
			Items:   c.Len(),
			State:   c.Snapshot(),
			Visible: newDebugBuffer(c.Visible()),
			Pending: newDebugBuffer(c.Pending()),
			Config:  c.Config(),
		}
	}
}

// startDebug enables frame tracing and serves diagnostics on addr. The
// returned function stops the server. An empty addr does nothing.
func startDebug(addr string, loop *engine.Loop, state engine.StateFunc) (func(), error) {
	if addr == "" {
		return func() {}, nil
	}
	loop.SetFrameTrace(engine.NewFrameTraceBuffer(0, 0))
	srv := engine.NewDebugServer(loop, state)
	bound, err := srv.Start(addr)
	if err != nil {
		return nil, err
	}
	logger.Info("debug server listening", "addr", bound.String())
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}, nil
}
