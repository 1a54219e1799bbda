package capture

import (
	"sync"
	"time"
)

// Frame is a single captured camera frame, already JPEG-encoded. Frames are
// immutable once published; Seq increases with every publish so consumers
// can tell a fresh frame from one they have already processed.
type Frame struct {
	Data      []byte
	Seq       uint64
	Timestamp time.Time
}

// FrameBuffer is a single-slot, overwrite-on-write holder of the most recent
// frame. The producer never blocks on slow consumers; a slow consumer simply
// re-reads the same frame or skips intermediate ones.
type FrameBuffer struct {
	mu    sync.Mutex
	frame Frame
	seq   uint64
	set   bool
}

// NewFrameBuffer returns an empty buffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

// Publish replaces the held frame, discarding the previous one. The frame's
// sequence number is assigned here.
func (b *FrameBuffer) Publish(data []byte, at time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	b.frame = Frame{Data: data, Seq: b.seq, Timestamp: at}
	b.set = true
}

// Read returns the current frame, or ok=false if nothing has been published
// yet. The returned Frame must not be mutated by the caller.
func (b *FrameBuffer) Read() (Frame, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frame, b.set
}
