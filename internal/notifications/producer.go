package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"cinetix/internal/holds"
	"cinetix/internal/shared/config"
	"cinetix/pkg/logger"
)

// Producer publishes booking and hold lifecycle events to Kafka. It
// satisfies both the hold manager's and the booking service's
// publisher interfaces.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

func NewProducer(cfg config.KafkaConfig) (*Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Timeout = 10 * time.Second
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &Producer{
		producer: producer,
		topic:    cfg.Topic,
		log:      logger.GetDefault(),
	}, nil
}

// PublishBookingEvent implements the booking service's publisher.
func (p *Producer) PublishBookingEvent(ctx context.Context, kind, bookingID, userID string) {
	p.send(NewBookingNotification(EventKind(kind), bookingID, userID, ""))
}

// PublishHoldEvent implements the hold manager's publisher.
func (p *Producer) PublishHoldEvent(ctx context.Context, kind string, hold holds.BookingHold, message string) {
	p.send(NewBookingNotification(EventKind(kind), hold.BookingID, hold.UserID, message))
}

// send is fire-and-forget from the caller's point of view; a broker
// outage must never fail a booking operation.
func (p *Producer) send(notification *BookingNotification) {
	messageBytes, err := notification.ToJSON()
	if err != nil {
		p.log.Error("Failed to marshal notification", "kind", notification.Kind, "error", err)
		return
	}

	message := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(notification.PartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Timestamp: notification.CreatedAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		p.log.Error("Failed to publish notification",
			"kind", notification.Kind,
			"booking_id", notification.BookingID,
			"error", err)
		return
	}

	p.log.Debug("Published notification",
		"kind", notification.Kind,
		"booking_id", notification.BookingID,
		"partition", partition,
		"offset", offset)
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
