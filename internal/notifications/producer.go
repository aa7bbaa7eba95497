package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"
)

// KafkaProducerConfig contains configuration for the Kafka event producer
type KafkaProducerConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	TimeoutMs        int
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
}

// DefaultKafkaProducerConfig returns a default producer configuration
func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:          []string{"localhost:9092"},
		Topic:            "reservation-events",
		RetryMax:         3,
		TimeoutMs:        10000,             // 10 seconds
		RequiredAcks:     sarama.WaitForAll, // Wait for all in-sync replicas
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
	}
}

// Producer publishes reservation lifecycle events to Kafka.
type Producer struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
}

// NewProducer creates a new Kafka event producer
func NewProducer(config *KafkaProducerConfig) (*Producer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites

	// Enable idempotent producer
	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Hash partitioner keeps one reservation's events on one partition
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Printf("📤 Kafka event producer created successfully")
	return &Producer{
		producer: producer,
		config:   config,
	}, nil
}

// Publish wraps the payload in an envelope and sends it. Callers treat
// this as fire-and-forget; the request never fails on a publish error.
func (p *Producer) Publish(ctx context.Context, eventType string, payload interface{}) error {
	envelope := Envelope{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}

	messageBytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.config.Topic,
		Key:   sarama.StringEncoder(partitionKey(eventType, payload)),
		Value: sarama.ByteEncoder(messageBytes),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(eventType)},
			{Key: []byte("producer"), Value: []byte("cinetix")},
		},
		Timestamp: envelope.OccurredAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send event to Kafka: %w", err)
	}

	log.Printf("📤 Event published - Topic: %s, Partition: %d, Offset: %d, Type: %s",
		p.config.Topic, partition, offset, eventType)
	return nil
}

// partitionKey routes events about the same reservation to the same
// partition so consumers see them in order. A sale completed from a
// hold keys on the reservation so it lands behind that hold's lifecycle
// events; walk-up sales have no reservation and key on the sale itself.
func partitionKey(eventType string, payload interface{}) string {
	switch event := payload.(type) {
	case ReservationEvent:
		return event.ReservationID
	case SaleEvent:
		if event.ReservationID != "" {
			return event.ReservationID
		}
		return event.SaleID
	default:
		return eventType
	}
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	if p.producer != nil {
		if err := p.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
		log.Printf("📤 Kafka event producer closed")
	}
	return nil
}
