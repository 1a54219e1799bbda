package handlers

import (
	"encoding/json"
	"net/http"

	"visionserver/internal/services/status"
)

// GetStatusHandler serves the latest per-detector state as JSON. Safe for
// high-frequency dashboard polling.
func GetStatusHandler(aggregator *status.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(aggregator.Snapshot())
	}
}
