package detect

import (
	"bytes"
	"math"
	"testing"

	"visionserver/internal/models"
)

type fakeClassifier struct {
	probability float64
	calls       int
}

func (f *fakeClassifier) Classify(frameJPEG []byte) (models.ViolenceResult, []byte, error) {
	f.calls++
	return models.ViolenceResult{Probability: f.probability}, []byte("annotated"), nil
}

func TestViolence_SamplesEveryNthCycle(t *testing.T) {
	classifier := &fakeClassifier{probability: 0.1}
	violence := NewViolence(classifier, 15, "Camera 1")

	for i := 0; i < 45; i++ {
		if _, _, err := violence.Analyze(testFrame(uint64(i + 1))); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if classifier.calls != 3 {
		t.Errorf("expected 3 classification passes over 45 cycles, got %d", classifier.calls)
	}
}

func TestViolence_SkippedCyclesRepublishPlainFrame(t *testing.T) {
	classifier := &fakeClassifier{probability: 0.9}
	violence := NewViolence(classifier, 15, "Camera 1")

	annotated, event, err := violence.Analyze(testFrame(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event != nil {
		t.Error("skipped cycle must not raise alerts")
	}
	if !bytes.Equal(annotated, []byte("jpeg")) {
		t.Errorf("skipped cycle should republish the original frame, got %q", annotated)
	}
}

func TestViolence_FightRaisesAlert(t *testing.T) {
	classifier := &fakeClassifier{probability: 0.87}
	violence := NewViolence(classifier, 1, "Camera 1")

	_, event, err := violence.Analyze(testFrame(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event == nil {
		t.Fatal("expected alert for probability 0.87")
	}
	if event.Type != models.AlertFight {
		t.Errorf("expected type %s, got %s", models.AlertFight, event.Type)
	}
	if math.Abs(event.Confidence-0.87) > 1e-9 {
		t.Errorf("expected confidence 0.87, got %v", event.Confidence)
	}
	if event.Info != "ALERT: FIGHT (0.87)" {
		t.Errorf("unexpected info %q", event.Info)
	}
}

func TestViolence_NoFightNoAlert(t *testing.T) {
	classifier := &fakeClassifier{probability: 0.3}
	violence := NewViolence(classifier, 1, "Camera 1")

	_, event, err := violence.Analyze(testFrame(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event != nil {
		t.Errorf("probability 0.3 must not alert, got %+v", event)
	}
}

func TestViolenceResult_Confidence(t *testing.T) {
	tests := []struct {
		probability float64
		isFight     bool
		confidence  float64
	}{
		{0.9, true, 0.9},
		{0.51, true, 0.51},
		{0.5, false, 0.5},
		{0.3, false, 0.7},
		{0.0, false, 1.0},
	}

	for _, tt := range tests {
		r := models.ViolenceResult{Probability: tt.probability}
		if r.IsFight() != tt.isFight {
			t.Errorf("p=%v: expected isFight=%v", tt.probability, tt.isFight)
		}
		if math.Abs(r.Confidence()-tt.confidence) > 1e-9 {
			t.Errorf("p=%v: expected confidence %v, got %v", tt.probability, tt.confidence, r.Confidence())
		}
	}
}
