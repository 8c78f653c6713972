package notify

import (
	"context"

	"go.uber.org/zap"
)

// Sender dispatches an outbound alert. Implementations are fire-and-forget
// from the engine's perspective; a failed send never fails ticket creation.
type Sender interface {
	Send(ctx context.Context, subject, body, recipient string) error
}

// LogSender writes alerts to the log instead of dispatching them. Used when
// no mail provider is configured and in tests.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender constructs a log-only sender.
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send implements Sender.
func (s *LogSender) Send(_ context.Context, subject, body, recipient string) error {
	s.logger.Info("alert (log only)",
		zap.String("recipient", recipient),
		zap.String("subject", subject),
		zap.String("body", body))
	return nil
}
