package detect

import (
	"fmt"
	"sync"
	"time"

	"visionserver/internal/models"
	"visionserver/internal/services/capture"
)

// PersonCounter is the opaque crowd-inference capability: count people in a
// frame and return the annotated image.
type PersonCounter interface {
	Count(frameJPEG []byte) (models.CrowdResult, []byte, error)
}

// CalculatingStatus is shown until the first counting pass completes.
const CalculatingStatus = "Calculating..."

// Crowd is the crowd-density policy. It keeps a bounded FIFO history of
// recent people counts; while no cycle is alert-worthy the display shows the
// min-max range of the history, otherwise the alert text.
type Crowd struct {
	counter     PersonCounter
	threshold   int
	historySize int
	location    string

	mu      sync.Mutex
	history []int
	display string
}

// NewCrowd creates the crowd policy.
func NewCrowd(counter PersonCounter, threshold, historySize int, location string) *Crowd {
	return &Crowd{
		counter:     counter,
		threshold:   threshold,
		historySize: historySize,
		location:    location,
		display:     CalculatingStatus,
	}
}

// Analyze implements Analyzer.
func (c *Crowd) Analyze(frame capture.Frame) ([]byte, *models.AlertEvent, error) {
	result, annotated, err := c.counter.Count(frame.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("crowd inference: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.history = append(c.history, result.PeopleCount)
	if len(c.history) > c.historySize {
		c.history = c.history[1:]
	}

	if result.PeopleCount > c.threshold {
		c.display = fmt.Sprintf("ALERT: Too many people! (%d)", result.PeopleCount)
		event := &models.AlertEvent{
			Type:        models.AlertCrowd,
			Info:        c.display,
			PeopleCount: result.PeopleCount,
			Location:    c.location,
			Timestamp:   time.Now(),
		}
		return annotated, event, nil
	}

	lo, hi := c.history[0], c.history[0]
	for _, n := range c.history[1:] {
		if n < lo {
			lo = n
		}
		if n > hi {
			hi = n
		}
	}
	c.display = fmt.Sprintf("%d-%d", lo, hi)
	return annotated, nil, nil
}

// Display returns the current crowd-count status string. Safe for
// concurrent polling by the status aggregator.
func (c *Crowd) Display() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.display
}

// HistoryLen reports the current history length.
func (c *Crowd) HistoryLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.history)
}
