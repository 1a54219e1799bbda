package alerting

import (
	"sync"
	"time"
)

// SafeStatus is reported while a gate has no alert inside its cooldown window.
const SafeStatus = "Safe"

// Gate rate-limits a noisy stream of raw detections into at most one alert
// per cooldown window. The state is purely time-driven: the gate is cooling
// iff the last approved alert is younger than the window.
type Gate struct {
	mu       sync.Mutex
	cooldown time.Duration
	lastFire time.Time
	lastInfo string
	fired    bool

	now func() time.Time
}

// NewGate creates a gate with the given cooldown window.
func NewGate(cooldown time.Duration) *Gate {
	return &Gate{
		cooldown: cooldown,
		now:      time.Now,
	}
}

// Submit offers an alert-worthy detection to the gate. It returns true and
// records the fire time when the gate is idle; while cooling the event is
// suppressed and the state is untouched.
func (g *Gate) Submit(info string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if g.fired && now.Sub(g.lastFire) < g.cooldown {
		return false
	}
	g.fired = true
	g.lastFire = now
	g.lastInfo = info
	return true
}

// Status returns the info recorded at the last approval while the gate is
// cooling, and SafeStatus otherwise. Safe for concurrent high-frequency
// polling.
func (g *Gate) Status() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.fired && g.now().Sub(g.lastFire) <= g.cooldown {
		return g.lastInfo
	}
	return SafeStatus
}
