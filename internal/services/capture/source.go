package capture

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"gocv.io/x/gocv"

	"visionserver/internal/logger"
)

const (
	captureInterval   = 10 * time.Millisecond
	reconnectInterval = 3 * time.Second
	maxEmptyReads     = 10
)

// Source continuously reads frames from a capture device and publishes the
// latest one to a FrameBuffer. Frames are JPEG-encoded on capture so every
// downstream consumer works on immutable byte slices.
type Source struct {
	device  string
	quality int
	buffer  *FrameBuffer
	logger  *logger.Logger
}

// NewSource creates a Source for a device index ("0") or a stream URL.
func NewSource(device string, quality int, buffer *FrameBuffer, logger *logger.Logger) *Source {
	return &Source{
		device:  device,
		quality: quality,
		buffer:  buffer,
		logger:  logger,
	}
}

// Run captures frames until ctx is cancelled. Capture failures are logged
// and followed by a reconnect attempt; the pipeline keeps serving the last
// published frame in the meantime.
func (s *Source) Run(ctx context.Context) {
	for ctx.Err() == nil {
		if err := s.capture(ctx); err != nil {
			s.logger.Error("Capture failed: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectInterval):
		}
	}
}

// capture opens the device and publishes frames until the stream ends or
// ctx is cancelled.
func (s *Source) capture(ctx context.Context) error {
	cap, err := s.open()
	if err != nil {
		return err
	}
	defer cap.Close()

	s.logger.Info("Camera opened: %s", s.device)

	img := gocv.NewMat()
	defer img.Close()

	emptyReads := 0
	for ctx.Err() == nil {
		if ok := cap.Read(&img); !ok || img.Empty() {
			emptyReads++
			if emptyReads >= maxEmptyReads {
				return fmt.Errorf("stream ended after %d empty reads", emptyReads)
			}
			time.Sleep(captureInterval)
			continue
		}
		emptyReads = 0

		buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, img, []int{gocv.IMWriteJpegQuality, s.quality})
		if err != nil {
			s.logger.Error("Failed to encode frame: %v", err)
			continue
		}
		data := make([]byte, len(buf.GetBytes()))
		copy(data, buf.GetBytes())
		buf.Close()

		s.buffer.Publish(data, time.Now())

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(captureInterval):
		}
	}
	return nil
}

// open handles the webcam-index versus stream-URL split.
func (s *Source) open() (*gocv.VideoCapture, error) {
	if idx, err := strconv.Atoi(s.device); err == nil {
		cap, err := gocv.OpenVideoCapture(idx)
		if err != nil {
			return nil, fmt.Errorf("failed to open camera %d: %w", idx, err)
		}
		return cap, nil
	}
	cap, err := gocv.OpenVideoCapture(s.device)
	if err != nil {
		return nil, fmt.Errorf("failed to open stream %s: %w", s.device, err)
	}
	return cap, nil
}
