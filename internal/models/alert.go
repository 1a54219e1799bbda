package models

import "time"

// AlertType identifies which detection pipeline raised an alert.
type AlertType string

const (
	AlertCrowd  AlertType = "Crowd"
	AlertWeapon AlertType = "Weapon"
	AlertFight  AlertType = "Fight"
)

// AlertEvent is an approved, immutable alert produced by a detection cycle.
// Confidence and PeopleCount are optional depending on the alert type.
type AlertEvent struct {
	Type        AlertType
	Info        string
	Confidence  float64
	PeopleCount int
	Location    string
	Timestamp   time.Time
}

// AlertRecord is the persisted form of an AlertEvent. Date and Time are
// stored as separate columns so the alert log can be filtered by either.
type AlertRecord struct {
	ID          int64     `json:"id"`
	Type        AlertType `json:"type"`
	Confidence  float64   `json:"confidence,omitempty"`
	PeopleCount int       `json:"people_count,omitempty"`
	Location    string    `json:"location"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	CreatedAt   time.Time `json:"created_at"`
}

// Record converts an event into its persisted form.
func (e AlertEvent) Record() AlertRecord {
	return AlertRecord{
		Type:        e.Type,
		Confidence:  e.Confidence,
		PeopleCount: e.PeopleCount,
		Location:    e.Location,
		Date:        e.Timestamp.Format("2006-01-02"),
		Time:        e.Timestamp.Format("15:04:05"),
	}
}
