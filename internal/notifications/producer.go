package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"nexusems/internal/shared/config"
	"nexusems/pkg/logger"
)

// Producer publishes notification messages onto the bus
type Producer interface {
	Publish(ctx context.Context, msg *Message) error
	Close() error
}

// KafkaProducer publishes notification messages to the configured topic
type KafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// NewKafkaProducer creates a synchronous, idempotent Kafka producer
func NewKafkaProducer(cfg config.KafkaConfig) (*KafkaProducer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Timeout = 10 * time.Second
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1
	// Hash partitioning keeps each recipient's messages ordered.
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &KafkaProducer{
		producer: producer,
		topic:    cfg.NotificationTopic,
		log:      logger.GetDefault(),
	}, nil
}

func (p *KafkaProducer) Publish(ctx context.Context, msg *Message) error {
	payload, err := msg.ToJSON()
	if err != nil {
		return err
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(msg.PartitionKey()),
		Value:     sarama.ByteEncoder(payload),
		Timestamp: msg.CreatedAt,
		Headers: []sarama.RecordHeader{
			{Key: []byte("kind"), Value: []byte(msg.Kind)},
			{Key: []byte("message_id"), Value: []byte(msg.ID)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	p.log.Debug("notification published",
		"topic", p.topic, "partition", partition, "offset", offset,
		"kind", string(msg.Kind), "to", msg.RecipientEmail)
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.producer.Close()
}
