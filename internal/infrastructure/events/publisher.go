package events

import (
	"context"
	"fmt"
	"time"

	"dog-grooming-booking/internal/config"
	"dog-grooming-booking/internal/domain/booking"
	"dog-grooming-booking/pkg/mqtt"
)

// New builds the publisher selected by EVENTS_PROVIDER.
func New(cfg *config.EventsConfig) (booking.EventPublisher, error) {
	switch cfg.Provider {
	case "mqtt":
		client := mqtt.NewClient(&mqtt.Config{
			Broker:               cfg.MQTTBroker,
			ClientID:             cfg.MQTTClient,
			Username:             cfg.MQTTUser,
			Password:             cfg.MQTTPass,
			CleanSession:         true,
			KeepAlive:            30,
			ConnectTimeout:       10,
			AutoReconnect:        true,
			MaxReconnectInterval: time.Minute,
		})
		if err := client.Connect(); err != nil {
			return nil, err
		}
		return NewMQTTPublisher(client, cfg.TopicPrefix), nil
	case "nats":
		return NewNATSPublisher(cfg.NATSURL, cfg.TopicPrefix)
	case "none", "":
		return NoopPublisher{}, nil
	default:
		return nil, fmt.Errorf("unsupported events provider %q", cfg.Provider)
	}
}

// NoopPublisher discards events
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event *booking.Event) error { return nil }

func (NoopPublisher) Close() error { return nil }
