package status

// CrowdDisplay exposes the crowd detector's current count string.
type CrowdDisplay interface {
	Display() string
}

// GateStatus exposes a cooldown gate's current status string.
type GateStatus interface {
	Status() string
}

// Snapshot is the read-only state served to the dashboard.
type Snapshot struct {
	CrowdCount     string `json:"crowd_count"`
	WeaponStatus   string `json:"weapon_status"`
	ViolenceStatus string `json:"violence_status"`
}

// Aggregator assembles per-detector state on demand. It has no state of its
// own and is safe for high-frequency polling.
type Aggregator struct {
	crowd    CrowdDisplay
	weapon   GateStatus
	violence GateStatus
}

// NewAggregator wires the aggregator to its sources.
func NewAggregator(crowd CrowdDisplay, weapon, violence GateStatus) *Aggregator {
	return &Aggregator{
		crowd:    crowd,
		weapon:   weapon,
		violence: violence,
	}
}

// Snapshot queries every source once and returns a consistent view.
func (a *Aggregator) Snapshot() Snapshot {
	return Snapshot{
		CrowdCount:     a.crowd.Display(),
		WeaponStatus:   a.weapon.Status(),
		ViolenceStatus: a.violence.Status(),
	}
}
