package capture

import (
	"bytes"
	"sync"
	"testing"
	"time"
)

func TestFrameBuffer_EmptyRead(t *testing.T) {
	buf := NewFrameBuffer()

	if _, ok := buf.Read(); ok {
		t.Error("expected empty buffer before first publish")
	}
}

func TestFrameBuffer_ReadReturnsLastPublished(t *testing.T) {
	buf := NewFrameBuffer()
	now := time.Now()

	buf.Publish([]byte("frame-1"), now)

	frame, ok := buf.Read()
	if !ok {
		t.Fatal("expected frame after publish")
	}
	if !bytes.Equal(frame.Data, []byte("frame-1")) {
		t.Errorf("expected frame-1, got %s", frame.Data)
	}
	if frame.Seq != 1 {
		t.Errorf("expected seq 1, got %d", frame.Seq)
	}
}

func TestFrameBuffer_OverwriteDiscardsPrevious(t *testing.T) {
	buf := NewFrameBuffer()
	now := time.Now()

	buf.Publish([]byte("old"), now)
	buf.Publish([]byte("new"), now.Add(time.Millisecond))

	frame, _ := buf.Read()
	if !bytes.Equal(frame.Data, []byte("new")) {
		t.Errorf("expected latest frame, got %s", frame.Data)
	}
	if frame.Seq != 2 {
		t.Errorf("expected seq 2, got %d", frame.Seq)
	}

	// Repeated reads see the same frame, never an older one.
	again, _ := buf.Read()
	if again.Seq != frame.Seq {
		t.Errorf("expected stable seq %d, got %d", frame.Seq, again.Seq)
	}
}

func TestFrameBuffer_ConcurrentAccess(t *testing.T) {
	buf := NewFrameBuffer()
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			buf.Publish([]byte{byte(i)}, time.Now())
		}
	}()

	var lastSeq uint64
	for i := 0; i < 1000; i++ {
		frame, ok := buf.Read()
		if !ok {
			continue
		}
		if frame.Seq < lastSeq {
			t.Fatalf("sequence went backwards: %d after %d", frame.Seq, lastSeq)
		}
		lastSeq = frame.Seq
	}
	wg.Wait()
}
