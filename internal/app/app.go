package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"visionserver/internal/config"
	"visionserver/internal/logger"
	"visionserver/internal/repository/sqlite"
	"visionserver/internal/routes"
	"visionserver/internal/services/ai"
	"visionserver/internal/services/alerting"
	"visionserver/internal/services/capture"
	"visionserver/internal/services/detect"
	"visionserver/internal/services/notify"
	"visionserver/internal/services/status"
	"visionserver/internal/services/stream"
	"visionserver/internal/services/websocket"
)

// App owns the whole pipeline: capture, the three detector cycles, alert
// dispatch, the stream multiplexer and the HTTP surface.
type App struct {
	config     *config.Config
	logger     *logger.Logger
	db         *sqlite.DB
	buffer     *capture.FrameBuffer
	source     *capture.Source
	mux        *stream.Multiplexer
	hub        *websocket.HubService
	dispatcher *alerting.Dispatcher
	detectors  []*detect.Detector
	aggregator *status.Aggregator
	server     *http.Server
}

// New wires the pipeline together. Any collaborator that cannot be reached
// at boot (database, notification channel, models) fails construction; the
// pipeline does not start degraded.
func New() (*App, error) {
	cfg := config.Load()
	log := logger.New(cfg.LogDirectory)

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	repo := sqlite.NewAlertRepository(db)

	var notifier alerting.Notifier
	if cfg.TelegramToken != "" {
		notifier, err = notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			return nil, fmt.Errorf("telegram: %w", err)
		}
	} else {
		log.Warning("TELEGRAM_BOT_TOKEN not set - alerts will only be logged")
		notifier = notify.NewLog(log)
	}

	counter, err := ai.NewPersonCounter(cfg.CrowdModelPath, cfg.CrowdConfigPath, cfg.StreamQuality)
	if err != nil {
		return nil, err
	}
	scanner, err := ai.NewWeaponScanner(cfg.WeaponModelPath, cfg.WeaponConfigPath, cfg.WeaponModelConfidence, cfg.StreamQuality)
	if err != nil {
		return nil, err
	}
	classifier, err := ai.NewFightClassifier(cfg.ViolenceModelPath, cfg.StreamQuality)
	if err != nil {
		return nil, err
	}

	buffer := capture.NewFrameBuffer()
	mux := stream.NewMultiplexer()
	hub := websocket.NewHubService(log)
	dispatcher := alerting.NewDispatcher(repo, notifier, hub, cfg.DispatchWorkers, cfg.DispatchQueueSize, log)

	crowdGate := alerting.NewGate(time.Duration(cfg.CrowdCooldownSeconds) * time.Second)
	weaponGate := alerting.NewGate(time.Duration(cfg.WeaponCooldownSeconds) * time.Second)
	violenceGate := alerting.NewGate(time.Duration(cfg.ViolenceCooldownSeconds) * time.Second)

	crowd := detect.NewCrowd(counter, cfg.CrowdAlertThreshold, cfg.CrowdHistorySize, cfg.LocationLabel)
	weapon := detect.NewWeapon(scanner, cfg.WeaponConfidence, cfg.LocationLabel)
	violence := detect.NewViolence(classifier, cfg.ViolenceSampleInterval, cfg.LocationLabel)

	detectors := []*detect.Detector{
		detect.NewDetector(stream.KindCrowd, buffer, mux, crowdGate, dispatcher, crowd, log),
		detect.NewDetector(stream.KindWeapon, buffer, mux, weaponGate, dispatcher, weapon, log),
		detect.NewDetector(stream.KindViolence, buffer, mux, violenceGate, dispatcher, violence, log),
	}

	aggregator := status.NewAggregator(crowd, weaponGate, violenceGate)
	source := capture.NewSource(cfg.CameraSource, cfg.StreamQuality, buffer, log)

	router := routes.Setup(mux, aggregator, repo, hub, log)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	return &App{
		config:     cfg,
		logger:     log,
		db:         db,
		buffer:     buffer,
		source:     source,
		mux:        mux,
		hub:        hub,
		dispatcher: dispatcher,
		detectors:  detectors,
		aggregator: aggregator,
		server:     server,
	}, nil
}

// Run starts every worker and serves HTTP until ctx is cancelled, then
// shuts everything down in order. The detector cycles must be fully stopped
// before the dispatcher: a detector mid-analysis may still raise an alert
// after cancellation.
func (a *App) Run(ctx context.Context) error {
	var workers sync.WaitGroup

	workers.Add(1)
	go func() {
		defer workers.Done()
		a.source.Run(ctx)
	}()

	for _, detector := range a.detectors {
		detector := detector
		workers.Add(1)
		go func() {
			defer workers.Done()
			detector.Run(ctx)
		}()
	}

	workers.Add(1)
	go func() {
		defer workers.Done()
		a.hub.Run(ctx)
	}()

	a.logger.Info("Surveillance server listening on :%d (camera %s)", a.config.Port, a.config.CameraSource)

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP shutdown: %v", err)
	}

	workers.Wait()
	a.dispatcher.Stop()
	if err := a.db.Close(); err != nil {
		a.logger.Error("Database close: %v", err)
	}

	a.logger.Info("Surveillance server stopped")
	return nil
}
