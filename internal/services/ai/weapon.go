package ai

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"

	"visionserver/internal/models"
)

// weaponClassLabels maps the weapon model's class ids to labels.
var weaponClassLabels = map[int]string{
	1: "gun",
	2: "knife",
	3: "handgun",
}

// WeaponScanner detects weapons in a frame. The model-side confidence filter
// is intentionally stricter than the alert gate applied downstream.
type WeaponScanner struct {
	mu        sync.Mutex
	net       gocv.Net
	modelConf float64
	quality   int
}

// NewWeaponScanner loads the weapon model.
func NewWeaponScanner(modelPath, configPath string, modelConf float64, quality int) (*WeaponScanner, error) {
	net, err := loadNet(modelPath, configPath)
	if err != nil {
		return nil, fmt.Errorf("weapon model: %w", err)
	}
	return &WeaponScanner{net: net, modelConf: modelConf, quality: quality}, nil
}

// Scan implements detect.WeaponScanner.
func (s *WeaponScanner) Scan(frameJPEG []byte) (models.WeaponResult, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mat, err := decodeFrame(frameJPEG)
	if err != nil {
		return models.WeaponResult{}, nil, err
	}
	defer mat.Close()

	detections := runDetectionNet(&s.net, mat, s.modelConf)

	var objects []models.WeaponObject
	for _, det := range detections {
		label := weaponClassLabels[det.classID]
		if label == "" {
			label = fmt.Sprintf("class_%d", det.classID)
		}
		drawDetection(&mat, det, label)
		objects = append(objects, models.WeaponObject{
			Label:      label,
			Confidence: det.confidence,
			X:          det.rect.Min.X,
			Y:          det.rect.Min.Y,
			Width:      det.rect.Dx(),
			Height:     det.rect.Dy(),
		})
	}

	annotated, err := encodeFrame(mat, s.quality)
	if err != nil {
		return models.WeaponResult{}, nil, err
	}

	return models.WeaponResult{Objects: objects}, annotated, nil
}

// Close releases the model.
func (s *WeaponScanner) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.net.Close()
}
