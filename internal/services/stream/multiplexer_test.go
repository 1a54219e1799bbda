package stream

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func serveFor(t *testing.T, m *Multiplexer, kind Kind, d time.Duration) *httptest.ResponseRecorder {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()

	req := httptest.NewRequest("GET", "/"+string(kind)+"_feed", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		m.Serve(rec, req, kind)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(d + time.Second):
		t.Error("Serve did not return after context cancellation")
	}
	return rec
}

func TestMultiplexer_StallsUntilFirstPublish(t *testing.T) {
	m := NewMultiplexer()

	rec := serveFor(t, m, KindCrowd, 150*time.Millisecond)

	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "multipart/x-mixed-replace") {
		t.Errorf("unexpected content type %q", got)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected no parts before first publish, got %d bytes", rec.Body.Len())
	}
}

func TestMultiplexer_EmitsLatestFrame(t *testing.T) {
	m := NewMultiplexer()
	m.Publish(KindWeapon, []byte("jpeg-old"))
	m.Publish(KindWeapon, []byte("jpeg-new"))

	rec := serveFor(t, m, KindWeapon, 100*time.Millisecond)

	body := rec.Body.Bytes()
	if !bytes.Contains(body, []byte("jpeg-new")) {
		t.Error("expected latest frame in stream")
	}
	if bytes.Contains(body, []byte("jpeg-old")) {
		t.Error("overwritten frame must not appear in stream")
	}
	if !bytes.Contains(body, []byte("--frame\r\nContent-Type: image/jpeg\r\n")) {
		t.Error("expected multipart frame headers")
	}
}

func TestMultiplexer_SlotsAreIndependent(t *testing.T) {
	m := NewMultiplexer()
	m.Publish(KindCrowd, []byte("crowd-frame"))

	if _, ok := m.Latest(KindViolence); ok {
		t.Error("publishing one kind must not fill another")
	}

	frame, ok := m.Latest(KindCrowd)
	if !ok || !bytes.Equal(frame, []byte("crowd-frame")) {
		t.Errorf("expected crowd-frame, got %q (ok=%v)", frame, ok)
	}
}

func TestMultiplexer_ConcurrentViewers(t *testing.T) {
	m := NewMultiplexer()
	m.Publish(KindViolence, []byte("shared"))

	recs := make(chan *httptest.ResponseRecorder, 2)
	for i := 0; i < 2; i++ {
		go func() {
			recs <- serveFor(t, m, KindViolence, 100*time.Millisecond)
		}()
	}

	for i := 0; i < 2; i++ {
		rec := <-recs
		if !bytes.Contains(rec.Body.Bytes(), []byte("shared")) {
			t.Error("each viewer should receive the published frame")
		}
	}
}

func TestMultiplexer_UnknownKind(t *testing.T) {
	m := NewMultiplexer()

	req := httptest.NewRequest("GET", "/bogus_feed", nil)
	rec := httptest.NewRecorder()
	m.Serve(rec, req, Kind("bogus"))

	if rec.Code != 404 {
		t.Errorf("expected 404 for unknown kind, got %d", rec.Code)
	}
}
