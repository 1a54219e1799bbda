package sqlite

import (
	"database/sql"
	"fmt"

	"visionserver/internal/models"
	"visionserver/internal/repository"
)

// AlertRepository implements repository.AlertRepository for SQLite.
type AlertRepository struct {
	db *DB
}

// NewAlertRepository creates a new SQLite alert repository.
func NewAlertRepository(db *DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// Insert adds a new alert record to the database.
func (r *AlertRepository) Insert(record *models.AlertRecord) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec(`
		INSERT INTO alerts (type, confidence, people_count, location, date, time)
		VALUES (?, ?, ?, ?, ?, ?)
	`, record.Type, record.Confidence, record.PeopleCount, record.Location, record.Date, record.Time)
	if err != nil {
		return 0, fmt.Errorf("failed to insert alert: %w", err)
	}

	return result.LastInsertId()
}

// GetRecent returns the newest alerts first, up to limit.
func (r *AlertRepository) GetRecent(limit int) ([]models.AlertRecord, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT id, type, confidence, people_count, location, date, time, created_at
		FROM alerts ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	return scanAlerts(rows)
}

// GetFiltered returns alerts matching the filter, newest first.
func (r *AlertRepository) GetFiltered(filter repository.AlertFilter) ([]models.AlertRecord, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	query := `
		SELECT id, type, confidence, people_count, location, date, time, created_at
		FROM alerts WHERE 1=1`
	args := []interface{}{}

	if filter.Date != "" {
		query += " AND date = ?"
		args = append(args, filter.Date)
	}
	if filter.Time != "" {
		query += " AND time = ?"
		args = append(args, filter.Time)
	}
	query += " ORDER BY id DESC"

	rows, err := r.db.Conn().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	return scanAlerts(rows)
}

// CountByType returns the total number of alerts per type.
func (r *AlertRepository) CountByType() (repository.TypeCounts, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`SELECT type, COUNT(*) FROM alerts GROUP BY type`)
	if err != nil {
		return nil, fmt.Errorf("failed to count alerts: %w", err)
	}
	defer rows.Close()

	counts := repository.TypeCounts{}
	for rows.Next() {
		var alertType models.AlertType
		var count int
		if err := rows.Scan(&alertType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[alertType] = count
	}
	return counts, rows.Err()
}

// DailyCounts returns per-day, per-type alert totals ordered by date.
func (r *AlertRepository) DailyCounts() ([]repository.DailyCount, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT date, type, COUNT(*) FROM alerts GROUP BY date, type ORDER BY date
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily counts: %w", err)
	}
	defer rows.Close()

	var counts []repository.DailyCount
	for rows.Next() {
		var dc repository.DailyCount
		if err := rows.Scan(&dc.Date, &dc.Type, &dc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan daily count: %w", err)
		}
		counts = append(counts, dc)
	}
	return counts, rows.Err()
}

func scanAlerts(rows *sql.Rows) ([]models.AlertRecord, error) {
	var alerts []models.AlertRecord
	for rows.Next() {
		var record models.AlertRecord
		if err := rows.Scan(&record.ID, &record.Type, &record.Confidence, &record.PeopleCount,
			&record.Location, &record.Date, &record.Time, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, record)
	}
	return alerts, rows.Err()
}
