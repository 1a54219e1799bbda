package stream

import (
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Kind names one detector's output stream.
type Kind string

const (
	KindCrowd    Kind = "crowd"
	KindWeapon   Kind = "weapon"
	KindViolence Kind = "violence"
)

const (
	boundary     = "frame"
	feedInterval = 30 * time.Millisecond
)

type slot struct {
	mu   sync.Mutex
	data []byte
	seq  uint64
}

// Multiplexer holds the latest annotated JPEG per detector type and serves
// each as an independent multipart/x-mixed-replace feed. Publishing follows
// the same overwrite policy as the frame buffer: only the newest frame is
// kept, viewers never apply backpressure to detectors.
type Multiplexer struct {
	slots map[Kind]*slot
}

// NewMultiplexer creates a multiplexer with one empty slot per detector type.
func NewMultiplexer() *Multiplexer {
	return &Multiplexer{
		slots: map[Kind]*slot{
			KindCrowd:    {},
			KindWeapon:   {},
			KindViolence: {},
		},
	}
}

// Publish replaces the latest frame for the given detector type. Unknown
// kinds are ignored.
func (m *Multiplexer) Publish(kind Kind, jpeg []byte) {
	s, ok := m.slots[kind]
	if !ok {
		return
	}
	s.mu.Lock()
	s.data = jpeg
	s.seq++
	s.mu.Unlock()
}

// Latest returns the most recently published frame for the given type and
// ok=false while nothing has been published yet.
func (m *Multiplexer) Latest(kind Kind) ([]byte, bool) {
	s, ok := m.slots[kind]
	if !ok {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data, s.seq > 0
}

// Serve streams the latest frame for kind to the client as an infinite
// multipart sequence. Before the first frame is published the stream stalls
// rather than terminating. Each viewer runs its own cursor; viewers never
// affect each other or the publisher. The loop exits when the client goes
// away.
func (m *Multiplexer) Serve(w http.ResponseWriter, r *http.Request, kind Kind) {
	if _, ok := m.slots[kind]; !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+boundary)
	w.Header().Set("Cache-Control", "no-cache")

	flusher, canFlush := w.(http.Flusher)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(feedInterval):
		}

		frame, ok := m.Latest(kind)
		if !ok {
			continue
		}

		if _, err := fmt.Fprintf(w, "--%s\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", boundary, len(frame)); err != nil {
			return
		}
		if _, err := w.Write(frame); err != nil {
			return
		}
		if _, err := fmt.Fprint(w, "\r\n"); err != nil {
			return
		}
		if canFlush {
			flusher.Flush()
		}
	}
}
