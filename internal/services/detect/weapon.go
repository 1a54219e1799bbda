package detect

import (
	"fmt"
	"strings"
	"time"

	"visionserver/internal/models"
	"visionserver/internal/services/capture"
)

// WeaponScanner is the opaque weapon-inference capability. The model applies
// its own, stricter confidence filter before returning objects.
type WeaponScanner interface {
	Scan(frameJPEG []byte) (models.WeaponResult, []byte, error)
}

// weaponLabels are the object classes that count as a weapon.
var weaponLabels = map[string]bool{
	"gun":     true,
	"knife":   true,
	"handgun": true,
}

// Weapon is the weapon-presence policy: a cycle is alert-worthy when any
// detected object carries a weapon label with confidence at or above the
// gate threshold. This is the second stage of the two-stage thresholding;
// the scanner already filtered at the model confidence.
type Weapon struct {
	scanner   WeaponScanner
	threshold float64
	location  string
}

// NewWeapon creates the weapon policy.
func NewWeapon(scanner WeaponScanner, threshold float64, location string) *Weapon {
	return &Weapon{
		scanner:   scanner,
		threshold: threshold,
		location:  location,
	}
}

// Analyze implements Analyzer.
func (w *Weapon) Analyze(frame capture.Frame) ([]byte, *models.AlertEvent, error) {
	result, annotated, err := w.scanner.Scan(frame.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("weapon inference: %w", err)
	}

	for _, obj := range result.Objects {
		if !weaponLabels[strings.ToLower(obj.Label)] || obj.Confidence < w.threshold {
			continue
		}
		info := fmt.Sprintf("UNSAFE: %s (%.2f)", obj.Label, obj.Confidence)
		event := &models.AlertEvent{
			Type:       models.AlertWeapon,
			Info:       info,
			Confidence: obj.Confidence,
			Location:   w.location,
			Timestamp:  time.Now(),
		}
		return annotated, event, nil
	}

	return annotated, nil, nil
}
