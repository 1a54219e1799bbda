package routes

import (
	"net/http"
	"os"
	"path/filepath"

	"visionserver/internal/handlers"
	"visionserver/internal/logger"
	"visionserver/internal/repository"
	"visionserver/internal/services/status"
	"visionserver/internal/services/stream"
	"visionserver/internal/services/websocket"
)

// dynamicHTMLHandler serves /path as /static/path.html if the file exists; otherwise 404.
func dynamicHTMLHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	if path == "/" {
		path = "/dashboard"
	}

	filePath := filepath.Join("static", path+".html")

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, filePath)
}

// Setup registers the stream feeds, status and alert APIs, log endpoints,
// and static page serving.
func Setup(mux *stream.Multiplexer, aggregator *status.Aggregator, repo repository.AlertRepository, hub *websocket.HubService, logger *logger.Logger) http.Handler {
	router := http.NewServeMux()

	// Static files
	router.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	// Live detector feeds
	router.HandleFunc("/crowd_feed", handlers.FeedHandler(mux, stream.KindCrowd))
	router.HandleFunc("/weapon_feed", handlers.FeedHandler(mux, stream.KindWeapon))
	router.HandleFunc("/violence_feed", handlers.FeedHandler(mux, stream.KindViolence))

	// Status and alert APIs
	router.HandleFunc("/get_status", handlers.GetStatusHandler(aggregator))
	router.HandleFunc("/api/alerts", handlers.GetAlertsHandler(repo, logger))
	router.HandleFunc("/api/alerts/filtered", handlers.GetAlertsFilteredHandler(repo, logger))
	router.HandleFunc("/api/analytics", handlers.GetAnalyticsHandler(repo, logger))
	router.HandleFunc("/api/analytics/plot", handlers.GetAnalyticsPlotHandler(repo, logger))
	router.HandleFunc("/api/view", handlers.ViewWebsocketHandler(hub, logger))

	// Log endpoints
	router.HandleFunc("/logs/info", handlers.ShowLogsHandler(logger, "info"))
	router.HandleFunc("/logs/warning", handlers.ShowLogsHandler(logger, "warning"))
	router.HandleFunc("/logs/error", handlers.ShowLogsHandler(logger, "error"))

	router.HandleFunc("/logs/info/clear", handlers.ClearLogsHandler(logger, "info"))
	router.HandleFunc("/logs/warning/clear", handlers.ClearLogsHandler(logger, "warning"))
	router.HandleFunc("/logs/error/clear", handlers.ClearLogsHandler(logger, "error"))

	// Automatic HTML handler mapping, for example: /analytics -> /static/analytics.html
	router.HandleFunc("/", dynamicHTMLHandler)

	return router
}
