package detect

import (
	"context"
	"time"

	"visionserver/internal/logger"
	"visionserver/internal/models"
	"visionserver/internal/services/capture"
	"visionserver/internal/services/stream"
)

const pollInterval = 10 * time.Millisecond

// Analyzer is one detector's per-frame policy: produce an annotated frame
// and, when the cycle is alert-worthy, an alert event.
type Analyzer interface {
	Analyze(frame capture.Frame) (annotated []byte, event *models.AlertEvent, err error)
}

// Gate approves or suppresses alert-worthy events (cooldown dedup).
type Gate interface {
	Submit(info string) bool
}

// AlertSink receives approved alerts for asynchronous delivery.
type AlertSink interface {
	Dispatch(event models.AlertEvent, annotatedJPEG []byte)
}

// Detector runs one independent detection cycle: poll the shared frame
// buffer, analyze the latest frame, publish the annotated result to the
// stream slot, and push approved alerts to the sink. Inference failures and
// empty frames never stop the cycle; the next frame supersedes the failed
// one.
type Detector struct {
	kind     stream.Kind
	buffer   *capture.FrameBuffer
	mux      *stream.Multiplexer
	gate     Gate
	sink     AlertSink
	analyzer Analyzer
	logger   *logger.Logger
}

// NewDetector wires a detection cycle together.
func NewDetector(kind stream.Kind, buffer *capture.FrameBuffer, mux *stream.Multiplexer, gate Gate, sink AlertSink, analyzer Analyzer, logger *logger.Logger) *Detector {
	return &Detector{
		kind:     kind,
		buffer:   buffer,
		mux:      mux,
		gate:     gate,
		sink:     sink,
		analyzer: analyzer,
		logger:   logger,
	}
}

// Run cycles until ctx is cancelled.
func (d *Detector) Run(ctx context.Context) {
	d.logger.Info("Detector %s started", d.kind)

	var lastSeq uint64
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Detector %s stopped", d.kind)
			return
		case <-time.After(pollInterval):
		}

		frame, ok := d.buffer.Read()
		if !ok || frame.Seq == lastSeq {
			continue
		}
		lastSeq = frame.Seq

		annotated, event, err := d.analyzer.Analyze(frame)
		if err != nil {
			d.logger.Error("Detector %s: %v", d.kind, err)
			continue
		}

		if len(annotated) > 0 {
			d.mux.Publish(d.kind, annotated)
		}

		if event == nil {
			continue
		}
		if d.gate.Submit(event.Info) {
			d.sink.Dispatch(*event, annotated)
		}
	}
}
