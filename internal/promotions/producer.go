package promotions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// UsageEvent is published when a promo is redeemed against a booking.
// Consumers (analytics, fraud checks) are downstream of this topic.
type UsageEvent struct {
	ID             string    `json:"id"`
	PromotionID    string    `json:"promotion_id"`
	Code           string    `json:"code"`
	BookingRef     string    `json:"booking_ref"`
	DiscountAmount float64   `json:"discount_amount"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// UsageProducer publishes promo-usage events. Publishing is fire-and-forget
// from the booking flow's perspective: a failed publish never rolls back an
// already-applied discount.
type UsageProducer interface {
	PublishUsage(ctx context.Context, event *UsageEvent) error
	Close() error
}

// KafkaProducerConfig contains configuration for the Kafka usage producer
type KafkaProducerConfig struct {
	Brokers         []string
	UsageTopic      string
	RetryMax        int
	TimeoutMs       int
	RequiredAcks    sarama.RequiredAcks
	CompressionType sarama.CompressionCodec
}

// DefaultKafkaProducerConfig returns a default producer configuration
func DefaultKafkaProducerConfig(brokers []string, topic string) *KafkaProducerConfig {
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}
	if topic == "" {
		topic = "promo-usage"
	}
	return &KafkaProducerConfig{
		Brokers:         brokers,
		UsageTopic:      topic,
		RetryMax:        3,
		TimeoutMs:       10000,
		RequiredAcks:    sarama.WaitForAll,
		CompressionType: sarama.CompressionSnappy,
	}
}

// kafkaUsageProducer publishes usage events to Kafka
type kafkaUsageProducer struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
}

// NewKafkaUsageProducer creates a new Kafka usage producer
func NewKafkaUsageProducer(config *KafkaProducerConfig) (UsageProducer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1

	// Hash partitioner keeps events for one promotion on one partition
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &kafkaUsageProducer{
		producer: producer,
		config:   config,
	}, nil
}

func (p *kafkaUsageProducer) PublishUsage(ctx context.Context, event *UsageEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal usage event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.config.UsageTopic,
		Key:   sarama.StringEncoder(event.PromotionID),
		Value: sarama.ByteEncoder(payload),
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("failed to publish usage event: %w", err)
	}

	return nil
}

func (p *kafkaUsageProducer) Close() error {
	return p.producer.Close()
}
