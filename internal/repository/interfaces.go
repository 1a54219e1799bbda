package repository

import "visionserver/internal/models"

// AlertFilter narrows alert-log queries. Zero values mean "no filter".
type AlertFilter struct {
	Date string // YYYY-MM-DD
	Time string // HH:MM:SS
}

// TypeCounts holds per-alert-type totals for analytics.
type TypeCounts map[models.AlertType]int

// DailyCount is the number of alerts of one type on one date.
type DailyCount struct {
	Date  string           `json:"date"`
	Type  models.AlertType `json:"type"`
	Count int              `json:"count"`
}

// AlertRepository defines the persistence operations for alert records.
type AlertRepository interface {
	Insert(record *models.AlertRecord) (int64, error)

	GetRecent(limit int) ([]models.AlertRecord, error)
	GetFiltered(filter AlertFilter) ([]models.AlertRecord, error)
	CountByType() (TypeCounts, error)
	DailyCounts() ([]DailyCount, error)
}
