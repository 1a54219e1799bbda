package detect

import (
	"fmt"
	"time"

	"visionserver/internal/models"
	"visionserver/internal/services/capture"
)

// FightClassifier is the opaque violence-inference capability. It is
// heavier than the detection models, which is why the policy only samples a
// subset of cycles.
type FightClassifier interface {
	Classify(frameJPEG []byte) (models.ViolenceResult, []byte, error)
}

// Violence is the violent-behavior policy. Only every Nth cycle is
// classified; the remaining cycles republish the plain frame so the live
// feed keeps moving.
type Violence struct {
	classifier FightClassifier
	interval   int
	location   string
	cycles     int
}

// NewViolence creates the violence policy.
func NewViolence(classifier FightClassifier, interval int, location string) *Violence {
	if interval < 1 {
		interval = 1
	}
	return &Violence{
		classifier: classifier,
		interval:   interval,
		location:   location,
	}
}

// Analyze implements Analyzer. The cycle counter is only touched by the
// owning detector goroutine.
func (v *Violence) Analyze(frame capture.Frame) ([]byte, *models.AlertEvent, error) {
	v.cycles++
	if v.cycles%v.interval != 0 {
		return frame.Data, nil, nil
	}

	result, annotated, err := v.classifier.Classify(frame.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("violence inference: %w", err)
	}

	if !result.IsFight() {
		return annotated, nil, nil
	}

	confidence := result.Confidence()
	event := &models.AlertEvent{
		Type:       models.AlertFight,
		Info:       fmt.Sprintf("ALERT: FIGHT (%.2f)", confidence),
		Confidence: confidence,
		Location:   v.location,
		Timestamp:  time.Now(),
	}
	return annotated, event, nil
}
