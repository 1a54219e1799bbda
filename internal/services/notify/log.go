package notify

import "visionserver/internal/logger"

// Log is the notifier used when no Telegram token is configured: alerts are
// only written to the warning log.
type Log struct {
	logger *logger.Logger
}

// NewLog creates the logging notifier.
func NewLog(logger *logger.Logger) *Log {
	return &Log{logger: logger}
}

// Send writes the alert text to the warning log and drops the image.
func (l *Log) Send(message string, imageJPEG []byte) error {
	l.logger.Warning("Alert (notifications disabled): %s", message)
	return nil
}
