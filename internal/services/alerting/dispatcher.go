package alerting

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sync"

	"visionserver/internal/logger"
	"visionserver/internal/models"
)

// AlertStore is the persistence capability consumed by the dispatcher.
type AlertStore interface {
	Insert(record *models.AlertRecord) (int64, error)
}

// Notifier is the outbound notification capability.
type Notifier interface {
	Send(message string, imageJPEG []byte) error
}

// Broadcaster pushes alert events to connected dashboard viewers.
type Broadcaster interface {
	Broadcast(message []byte)
}

type dispatchTask struct {
	event models.AlertEvent
	frame []byte
}

// Dispatcher fans approved alerts out to the store and the notifier without
// blocking the detection cycle that raised them. Delivery is best-effort:
// failures are logged and never reach back into the cycle.
type Dispatcher struct {
	store       AlertStore
	notifier    Notifier
	broadcaster Broadcaster
	logger      *logger.Logger

	queue chan dispatchTask
	wg    sync.WaitGroup

	mu      sync.RWMutex
	stopped bool
}

// NewDispatcher starts the given number of dispatch workers over a bounded
// queue.
func NewDispatcher(store AlertStore, notifier Notifier, broadcaster Broadcaster, workers, queueSize int, logger *logger.Logger) *Dispatcher {
	d := &Dispatcher{
		store:       store,
		notifier:    notifier,
		broadcaster: broadcaster,
		logger:      logger,
		queue:       make(chan dispatchTask, queueSize),
	}

	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}

	return d
}

// Dispatch enqueues an alert for delivery. It never blocks: when the queue
// is full the alert is dropped with a warning (the gate already considers
// it fired, so dedup is unaffected). Safe to call concurrently with Stop;
// alerts raised after Stop are dropped.
func (d *Dispatcher) Dispatch(event models.AlertEvent, annotatedJPEG []byte) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		d.logger.Warning("Dispatcher stopped - dropping %s alert", event.Type)
		return
	}

	select {
	case d.queue <- dispatchTask{event: event, frame: annotatedJPEG}:
	default:
		d.logger.Warning("Dispatch queue full - dropping %s alert", event.Type)
	}
}

// Stop drains the queue and waits for the workers to finish. Idempotent.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	for task := range d.queue {
		d.deliver(task)
	}
	d.logger.Info("Dispatch worker %d stopped", id)
}

// deliver persists and notifies independently; a failure in one never
// affects the other.
func (d *Dispatcher) deliver(task dispatchTask) {
	record := task.event.Record()
	if _, err := d.store.Insert(&record); err != nil {
		d.logger.Error("Failed to store %s alert: %v", task.event.Type, err)
	}

	if err := d.notifier.Send(formatMessage(task.event), task.frame); err != nil {
		d.logger.Error("Failed to notify %s alert: %v", task.event.Type, err)
	}

	if d.broadcaster != nil {
		d.broadcaster.Broadcast(viewerMessage(task.event, task.frame))
	}
}

// formatMessage builds the human-readable notification text.
func formatMessage(event models.AlertEvent) string {
	timestamp := event.Timestamp.Format("2006-01-02 15:04:05")
	switch event.Type {
	case models.AlertCrowd:
		return fmt.Sprintf("CROWD ALERT at %s\nPeople Count: %d", timestamp, event.PeopleCount)
	case models.AlertWeapon:
		return fmt.Sprintf("WEAPON DETECTED at %s\n%s", timestamp, event.Info)
	case models.AlertFight:
		return fmt.Sprintf("FIGHT DETECTED at %s\nConfidence: %.2f", timestamp, event.Confidence)
	}
	return fmt.Sprintf("ALERT at %s\n%s", timestamp, event.Info)
}

// viewerMessage is the JSON payload pushed to websocket viewers.
func viewerMessage(event models.AlertEvent, frame []byte) []byte {
	payload := map[string]interface{}{
		"type":      event.Type,
		"info":      event.Info,
		"location":  event.Location,
		"timestamp": event.Timestamp.Format("2006-01-02 15:04:05"),
	}
	if event.Confidence > 0 {
		payload["confidence"] = event.Confidence
	}
	if event.PeopleCount > 0 {
		payload["people_count"] = event.PeopleCount
	}
	if len(frame) > 0 {
		payload["image"] = base64.StdEncoding.EncodeToString(frame)
	}
	msg, _ := json.Marshal(payload)
	return msg
}
