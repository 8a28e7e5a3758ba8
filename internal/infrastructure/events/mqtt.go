package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"dog-grooming-booking/internal/domain/booking"
	"dog-grooming-booking/internal/logger"

	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// mqttClient is the part of pkg/mqtt.Client the publisher needs.
type mqttClient interface {
	Publish(ctx context.Context, topic string, qos byte, retained bool, payload []byte) error
	Disconnect()
}

// MQTTPublisher sends events to <prefix>/bookings/<event suffix> with QoS 1.
type MQTTPublisher struct {
	client mqttClient
	prefix string
}

func NewMQTTPublisher(client mqttClient, prefix string) *MQTTPublisher {
	return &MQTTPublisher{client: client, prefix: strings.Trim(prefix, "/")}
}

func (p *MQTTPublisher) Publish(ctx context.Context, event *booking.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	topic := p.Topic(event.Type)
	logger.Debug("Publishing booking event", zap.String("topic", topic), zap.String("booking_id", event.BookingID))

	return p.client.Publish(ctx, topic, 1, false, payload)
}

// Topic maps booking.status_changed to <prefix>/bookings/status_changed.
func (p *MQTTPublisher) Topic(eventType booking.EventType) string {
	suffix := strings.TrimPrefix(string(eventType), "booking.")
	if p.prefix == "" {
		return "bookings/" + suffix
	}
	return p.prefix + "/bookings/" + suffix
}

func (p *MQTTPublisher) Close() error {
	p.client.Disconnect()
	return nil
}
