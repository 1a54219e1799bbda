package detect

import (
	"testing"

	"visionserver/internal/models"
)

type fakeScanner struct {
	objects []models.WeaponObject
}

func (f *fakeScanner) Scan(frameJPEG []byte) (models.WeaponResult, []byte, error) {
	return models.WeaponResult{Objects: f.objects}, []byte("annotated"), nil
}

func TestWeapon_AlertPolicy(t *testing.T) {
	tests := []struct {
		name      string
		objects   []models.WeaponObject
		wantAlert bool
		wantInfo  string
	}{
		{
			name:      "gun above threshold",
			objects:   []models.WeaponObject{{Label: "gun", Confidence: 0.30}},
			wantAlert: true,
			wantInfo:  "UNSAFE: gun (0.30)",
		},
		{
			name:      "gun below threshold",
			objects:   []models.WeaponObject{{Label: "gun", Confidence: 0.15}},
			wantAlert: false,
		},
		{
			name:      "label matching is case-insensitive",
			objects:   []models.WeaponObject{{Label: "Knife", Confidence: 0.90}},
			wantAlert: true,
			wantInfo:  "UNSAFE: Knife (0.90)",
		},
		{
			name:      "non-weapon label ignored",
			objects:   []models.WeaponObject{{Label: "person", Confidence: 0.99}},
			wantAlert: false,
		},
		{
			name: "first matching object wins",
			objects: []models.WeaponObject{
				{Label: "person", Confidence: 0.95},
				{Label: "handgun", Confidence: 0.40},
				{Label: "knife", Confidence: 0.80},
			},
			wantAlert: true,
			wantInfo:  "UNSAFE: handgun (0.40)",
		},
		{
			name:      "no objects",
			objects:   nil,
			wantAlert: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			weapon := NewWeapon(&fakeScanner{objects: tt.objects}, 0.20, "Camera 1")

			annotated, event, err := weapon.Analyze(testFrame(1))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(annotated) == 0 {
				t.Error("annotated frame should always be produced")
			}

			if tt.wantAlert && event == nil {
				t.Fatal("expected an alert event")
			}
			if !tt.wantAlert && event != nil {
				t.Fatalf("unexpected alert event %+v", event)
			}
			if tt.wantAlert && event.Info != tt.wantInfo {
				t.Errorf("expected info %q, got %q", tt.wantInfo, event.Info)
			}
		})
	}
}

func TestWeapon_EventFields(t *testing.T) {
	scanner := &fakeScanner{objects: []models.WeaponObject{{Label: "gun", Confidence: 0.30}}}
	weapon := NewWeapon(scanner, 0.20, "Warehouse")

	_, event, err := weapon.Analyze(testFrame(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Type != models.AlertWeapon {
		t.Errorf("expected type %s, got %s", models.AlertWeapon, event.Type)
	}
	if event.Confidence != 0.30 {
		t.Errorf("expected confidence 0.30, got %v", event.Confidence)
	}
	if event.Location != "Warehouse" {
		t.Errorf("expected location Warehouse, got %s", event.Location)
	}
	if event.Timestamp.IsZero() {
		t.Error("timestamp should be set")
	}
}
