package handlers

import (
	"net/http"
	"os"

	"visionserver/internal/logger"
)

// ShowLogsHandler serves the raw contents of one log level's file.
func ShowLogsHandler(logger *logger.Logger, level string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := os.ReadFile(logger.LogFile(level))
		if err != nil {
			http.Error(w, "Failed to read log file", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write(data)
	}
}

// ClearLogsHandler truncates one log level's file.
func ClearLogsHandler(logger *logger.Logger, level string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.CleanLogs(level + ".log")
		w.Write([]byte("OK"))
	}
}
