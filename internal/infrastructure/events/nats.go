package events

import (
	"context"
	"encoding/json"
	"fmt"

	"dog-grooming-booking/internal/domain/booking"
	"dog-grooming-booking/internal/logger"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// NATSPublisher sends events on subjects <prefix>.<event type>.
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
}

func NewNATSPublisher(url, prefix string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("dog-grooming-booking"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSPublisher{conn: conn, prefix: prefix}, nil
}

func (n *NATSPublisher) Publish(ctx context.Context, event *booking.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	subject := Subject(n.prefix, event.Type)
	logger.Debug("Publishing booking event", zap.String("subject", subject), zap.String("booking_id", event.BookingID))

	return n.conn.Publish(subject, payload)
}

func (n *NATSPublisher) Close() error {
	if err := n.conn.Drain(); err != nil {
		n.conn.Close()
		return err
	}
	return nil
}

// Subject maps booking.created to <prefix>.booking.created.
func Subject(prefix string, eventType booking.EventType) string {
	if prefix == "" {
		return string(eventType)
	}
	return prefix + "." + string(eventType)
}
