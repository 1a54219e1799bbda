package detect

import (
	"errors"
	"testing"
	"time"

	"visionserver/internal/models"
	"visionserver/internal/services/capture"
)

type fakeCounter struct {
	counts []int
	calls  int
	err    error
}

func (f *fakeCounter) Count(frameJPEG []byte) (models.CrowdResult, []byte, error) {
	if f.err != nil {
		return models.CrowdResult{}, nil, f.err
	}
	count := f.counts[f.calls%len(f.counts)]
	f.calls++
	return models.CrowdResult{PeopleCount: count}, []byte("annotated"), nil
}

func testFrame(seq uint64) capture.Frame {
	return capture.Frame{Data: []byte("jpeg"), Seq: seq, Timestamp: time.Now()}
}

func TestCrowd_InitialDisplay(t *testing.T) {
	crowd := NewCrowd(&fakeCounter{counts: []int{1}}, 35, 30, "Camera 1")

	if got := crowd.Display(); got != CalculatingStatus {
		t.Errorf("expected %q before first cycle, got %q", CalculatingStatus, got)
	}
}

func TestCrowd_DisplayShowsHistoryRange(t *testing.T) {
	// Counts [10,20,40,5], threshold 35: the 40 is alert-worthy, and after
	// the non-alert-worthy 5 the display is the full history range.
	counter := &fakeCounter{counts: []int{10, 20, 40, 5}}
	crowd := NewCrowd(counter, 35, 30, "Camera 1")

	var events []*models.AlertEvent
	for i := 0; i < 4; i++ {
		_, event, err := crowd.Analyze(testFrame(uint64(i + 1)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		events = append(events, event)
	}

	if events[0] != nil || events[1] != nil || events[3] != nil {
		t.Error("only the third cycle should be alert-worthy")
	}
	if events[2] == nil {
		t.Fatal("expected an alert event for count 40")
	}
	if events[2].PeopleCount != 40 {
		t.Errorf("expected people count 40, got %d", events[2].PeopleCount)
	}
	if events[2].Info != "ALERT: Too many people! (40)" {
		t.Errorf("unexpected alert info %q", events[2].Info)
	}

	if got := crowd.Display(); got != "5-40" {
		t.Errorf("expected display 5-40, got %q", got)
	}
}

func TestCrowd_AlertDisplayDuringAlertWorthyCycle(t *testing.T) {
	counter := &fakeCounter{counts: []int{50}}
	crowd := NewCrowd(counter, 35, 30, "Camera 1")

	if _, _, err := crowd.Analyze(testFrame(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := crowd.Display(); got != "ALERT: Too many people! (50)" {
		t.Errorf("unexpected display %q", got)
	}
}

func TestCrowd_HistoryIsBounded(t *testing.T) {
	counter := &fakeCounter{counts: []int{1}}
	crowd := NewCrowd(counter, 35, 30, "Camera 1")

	for i := 0; i < 31; i++ {
		if _, _, err := crowd.Analyze(testFrame(uint64(i + 1))); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := crowd.HistoryLen(); got != 30 {
		t.Errorf("expected history capped at 30, got %d", got)
	}
}

func TestCrowd_OldestEvictedFirst(t *testing.T) {
	// 31 distinct counts: after overflow the first count (100) must be gone
	// from the range, the 31st (130) present.
	counts := make([]int, 31)
	for i := range counts {
		counts[i] = 100 + i
	}
	counter := &fakeCounter{counts: counts}
	crowd := NewCrowd(counter, 500, 30, "Camera 1")

	for i := 0; i < 31; i++ {
		if _, _, err := crowd.Analyze(testFrame(uint64(i + 1))); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := crowd.Display(); got != "101-130" {
		t.Errorf("expected range 101-130 after eviction, got %q", got)
	}
}

func TestCrowd_InferenceErrorPropagates(t *testing.T) {
	counter := &fakeCounter{err: errors.New("model crashed")}
	crowd := NewCrowd(counter, 35, 30, "Camera 1")

	if _, _, err := crowd.Analyze(testFrame(1)); err == nil {
		t.Error("expected error from failed inference")
	}
	if got := crowd.Display(); got != CalculatingStatus {
		t.Errorf("failed cycle must not change the display, got %q", got)
	}
}
