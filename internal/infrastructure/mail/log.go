package mail

import (
	"context"

	"dog-grooming-booking/internal/logger"

	"go.uber.org/zap"
)

// LogMailer writes emails to the log instead of sending them. Used in development.
type LogMailer struct{}

func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (l *LogMailer) Send(ctx context.Context, msg *Message) error {
	logger.Info("[DEV MAIL] "+msg.Subject,
		zap.String("to", msg.ToEmail),
		zap.String("name", msg.ToName),
		zap.String("body", msg.Text),
	)
	return nil
}
