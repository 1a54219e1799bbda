package status

import "testing"

type fixedDisplay string

func (d fixedDisplay) Display() string { return string(d) }

type fixedStatus string

func (s fixedStatus) Status() string { return string(s) }

func TestAggregator_Snapshot(t *testing.T) {
	agg := NewAggregator(fixedDisplay("5-40"), fixedStatus("UNSAFE: gun (0.30)"), fixedStatus("Safe"))

	snap := agg.Snapshot()

	if snap.CrowdCount != "5-40" {
		t.Errorf("expected crowd count 5-40, got %q", snap.CrowdCount)
	}
	if snap.WeaponStatus != "UNSAFE: gun (0.30)" {
		t.Errorf("unexpected weapon status %q", snap.WeaponStatus)
	}
	if snap.ViolenceStatus != "Safe" {
		t.Errorf("unexpected violence status %q", snap.ViolenceStatus)
	}
}
