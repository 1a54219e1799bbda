package ai

import (
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"visionserver/internal/models"
)

const (
	violenceInputWidth  = 150
	violenceInputHeight = 150
)

// FightClassifier classifies whole frames as fight / not fight with a
// binary classification net. Heavier than the detection models, so the
// caller samples only a subset of cycles.
type FightClassifier struct {
	mu      sync.Mutex
	net     gocv.Net
	quality int
}

// NewFightClassifier loads the violence model.
func NewFightClassifier(modelPath string, quality int) (*FightClassifier, error) {
	net, err := loadNet(modelPath, "")
	if err != nil {
		return nil, fmt.Errorf("violence model: %w", err)
	}
	return &FightClassifier{net: net, quality: quality}, nil
}

// Classify implements detect.FightClassifier.
func (c *FightClassifier) Classify(frameJPEG []byte) (models.ViolenceResult, []byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	mat, err := decodeFrame(frameJPEG)
	if err != nil {
		return models.ViolenceResult{}, nil, err
	}
	defer mat.Close()

	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(violenceInputWidth, violenceInputHeight), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	c.net.SetInput(blob, "")
	output := c.net.Forward("")
	defer output.Close()

	probability := float64(output.GetFloatAt(0, 0))
	result := models.ViolenceResult{Probability: probability}

	verdict := "not_fight"
	if result.IsFight() {
		verdict = "fight"
	}
	gocv.PutText(&mat, fmt.Sprintf("Prediction: %s (%.2f)", verdict, result.Confidence()),
		image.Pt(10, 30), gocv.FontHersheySimplex, 1, textColor, 2)
	if result.IsFight() {
		gocv.PutText(&mat, "ALERT: FIGHT DETECTED", image.Pt(10, 60), gocv.FontHersheySimplex, 1, alertRed, 2)
	}

	annotated, err := encodeFrame(mat, c.quality)
	if err != nil {
		return models.ViolenceResult{}, nil, err
	}

	return result, annotated, nil
}

// Close releases the model.
func (c *FightClassifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.net.Close()
}
