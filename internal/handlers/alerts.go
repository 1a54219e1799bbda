package handlers

import (
	"encoding/json"
	"net/http"

	"visionserver/internal/logger"
	"visionserver/internal/models"
	"visionserver/internal/repository"
)

const recentAlertLimit = 50

// GetAlertsHandler serves the newest alerts from the store, most recent
// first.
func GetAlertsHandler(repo repository.AlertRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		alerts, err := repo.GetRecent(recentAlertLimit)
		if err != nil {
			logger.Error("Failed to fetch alerts: %v", err)
			http.Error(w, "Failed to fetch alerts", http.StatusInternalServerError)
			return
		}
		writeAlerts(w, alerts)
	}
}

// GetAlertsFilteredHandler serves alerts matching the optional date and time
// query parameters.
func GetAlertsFilteredHandler(repo repository.AlertRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := repository.AlertFilter{
			Date: r.URL.Query().Get("date"),
			Time: r.URL.Query().Get("time"),
		}

		alerts, err := repo.GetFiltered(filter)
		if err != nil {
			logger.Error("Failed to fetch filtered alerts: %v", err)
			http.Error(w, "Failed to fetch alerts", http.StatusInternalServerError)
			return
		}
		writeAlerts(w, alerts)
	}
}

func writeAlerts(w http.ResponseWriter, alerts []models.AlertRecord) {
	if alerts == nil {
		alerts = []models.AlertRecord{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(alerts)
}
