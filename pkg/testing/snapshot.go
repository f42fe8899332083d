package testing

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"

	"github.com/google/go-cmp/cmp"
)

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the carousel state and everything its collaborators
// were last told.
type Snapshot struct {
	State     StateSnapshot     `json:"state"`
	Content   [3]float64        `json:"content"`
	Buffers   []BufferSnapshot  `json:"buffers"`
	Indicator IndicatorSnapshot `json:"indicator"`
}

// StateSnapshot is the serialized state machine.
type StateSnapshot struct {
	Current     int    `json:"current"`
	Next        int    `json:"next"`
	Direction   string `json:"direction"`
	Phase       string `json:"phase"`
	Autoplaying bool   `json:"autoplaying"`
}

// BufferSnapshot is a serialized display buffer. Images are reduced to
// their frame count.
type BufferSnapshot struct {
	ID      int     `json:"id"`
	Index   int     `json:"index"`
	Frames  int     `json:"frames"`
	X       float64 `json:"x"`
	Alpha   float64 `json:"alpha"`
	Visible bool    `json:"visible"`
}

// IndicatorSnapshot is the serialized page indicator.
type IndicatorSnapshot struct {
	Pages   int        `json:"pages"`
	Current int        `json:"current"`
	Hidden  bool       `json:"hidden"`
	Frame   [4]float64 `json:"frame"`
}

// CaptureSnapshot captures the mounted carousel.
func (h *Harness) CaptureSnapshot() *Snapshot {
	snap := &Snapshot{}
	if h.Carousel != nil {
		s := h.Carousel.Snapshot()
		snap.State = StateSnapshot{
			Current:     s.CurrentIndex,
			Next:        s.NextIndex,
			Direction:   s.Direction.String(),
			Phase:       s.Phase.String(),
			Autoplaying: s.Autoplaying,
		}
	}

	w, ht := h.Viewport.ContentSize()
	snap.Content = [3]float64{round2(w), round2(ht), round2(h.Viewport.ContentOffset())}
	for id := 0; id < 2; id++ {
		b := h.Viewport.Buffer(id)
		frames := 0
		if b.Image != nil {
			frames = len(b.Image.Frames)
		}
		snap.Buffers = append(snap.Buffers, BufferSnapshot{
			ID:      id,
			Index:   b.Index,
			Frames:  frames,
			X:       round2(b.X),
			Alpha:   round2(b.Alpha),
			Visible: b.Visible,
		})
	}

	f := h.Indicator.Frame()
	snap.Indicator = IndicatorSnapshot{
		Pages:   h.Indicator.Pages(),
		Current: h.Indicator.Current(),
		Hidden:  h.Indicator.Hidden(),
		Frame:   [4]float64{round2(f.X), round2(f.Y), round2(f.Width), round2(f.Height)},
	}
	return snap
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When
// CAROUSEL_UPDATE_SNAPSHOTS=1 is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv("CAROUSEL_UPDATE_SNAPSHOTS") == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: CAROUSEL_UPDATE_SNAPSHOTS=1 go test -run %s", path, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s (-want +got):\n%s\n\nTo update: CAROUSEL_UPDATE_SNAPSHOTS=1 go test -run %s", path, diff, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a diff from other to this snapshot, or the empty string if
// they are equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	return cmp.Diff(other, s)
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
