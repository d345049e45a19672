// Package kafka mirrors storefront notifications and tracking updates onto
// Kafka topics so downstream consumers (email, analytics) can follow them.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/storefront/backend/internal/domain/notification"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/realtime"
	"go.uber.org/zap"
)

// Envelope is the JSON value of every mirrored message
type Envelope struct {
	Event      string    `json:"event"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

// MessageWriter is the subset of *kafka.Writer the publisher needs
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkaGo.Message) error
	Close() error
}

// Publisher writes notification and tracking events to their topics, keyed
// by customer email so one customer's events stay ordered on a partition.
type Publisher struct {
	notifications MessageWriter
	tracking      MessageWriter
	logger        *zap.Logger
	now           func() time.Time
}

// NewPublisher builds a publisher with one long-lived writer per topic
func NewPublisher(cfg config.KafkaConfig, logger *zap.Logger) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka: at least one broker is required")
	}
	if cfg.NotificationTopic == "" || cfg.TrackingTopic == "" {
		return nil, errors.New("kafka: notification and tracking topics are required")
	}

	newWriter := func(topic string) *kafkaGo.Writer {
		return &kafkaGo.Writer{
			Addr:                   kafkaGo.TCP(cfg.Brokers...),
			Topic:                  topic,
			Balancer:               &kafkaGo.LeastBytes{},
			WriteTimeout:           cfg.WriteTimeout,
			AllowAutoTopicCreation: true,
		}
	}

	logger.Info("Kafka publisher configured",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("notification_topic", cfg.NotificationTopic),
		zap.String("tracking_topic", cfg.TrackingTopic))

	return NewPublisherWithWriters(newWriter(cfg.NotificationTopic), newWriter(cfg.TrackingTopic), logger), nil
}

// NewPublisherWithWriters builds a publisher over existing writers
func NewPublisherWithWriters(notifications, tracking MessageWriter, logger *zap.Logger) *Publisher {
	return &Publisher{
		notifications: notifications,
		tracking:      tracking,
		logger:        logger.Named("kafka_publisher"),
		now:           time.Now,
	}
}

// PublishNotification mirrors a persisted notification. Broadcasts use an
// empty key.
func (p *Publisher) PublishNotification(ctx context.Context, n *notification.Notification) error {
	return p.write(ctx, p.notifications, n.Target(), realtime.EventNotificationNew, realtime.NewNotificationPayload(n))
}

// PublishTracking mirrors a tracking step for the customer
func (p *Publisher) PublishTracking(ctx context.Context, email string, update notification.TrackingUpdate) error {
	return p.write(ctx, p.tracking, email, realtime.EventOrderTracking, update)
}

func (p *Publisher) write(ctx context.Context, w MessageWriter, key, event string, data any) error {
	value, err := json.Marshal(Envelope{Event: event, OccurredAt: p.now(), Data: data})
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event, err)
	}

	if err := w.WriteMessages(ctx, kafkaGo.Message{Key: []byte(key), Value: value}); err != nil {
		return fmt.Errorf("failed to write %s event: %w", event, err)
	}
	return nil
}

// Close flushes and closes both writers
func (p *Publisher) Close() error {
	return errors.Join(p.notifications.Close(), p.tracking.Close())
}
