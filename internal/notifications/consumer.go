package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/IBM/sarama"

	"nexusems/internal/shared/config"
	"nexusems/pkg/logger"
	"nexusems/pkg/metrics"
)

const sendRetries = 3

// KafkaConsumer drains the notification topic and hands each message to the
// mailer, with a small worker pool per process.
type KafkaConsumer struct {
	group   sarama.ConsumerGroup
	topics  []string
	workers int
	mailer  Mailer
	log     *logger.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewKafkaConsumer creates a consumer group for the notification topic
func NewKafkaConsumer(cfg config.KafkaConfig, mailer Mailer) (*KafkaConsumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = 30 * time.Second
	saramaConfig.Consumer.Group.Heartbeat.Interval = 3 * time.Second
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second
	saramaConfig.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.ConsumerGroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	workers := cfg.ConsumerWorkers
	if workers <= 0 {
		workers = 1
	}

	return &KafkaConsumer{
		group:   group,
		topics:  []string{cfg.NotificationTopic},
		workers: workers,
		mailer:  mailer,
		log:     logger.GetDefault(),
	}, nil
}

// Start launches the consumer workers. It returns immediately; workers run
// until Stop is called.
func (c *KafkaConsumer) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)

	go func() {
		for err := range c.group.Errors() {
			c.log.WithError(err).Error("notification consumer group error")
		}
	}()

	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go func(workerID int) {
			defer c.wg.Done()
			handler := &consumerHandler{mailer: c.mailer, log: c.log, workerID: workerID}
			for {
				if ctx.Err() != nil {
					return
				}
				if err := c.group.Consume(ctx, c.topics, handler); err != nil {
					c.log.WithError(err).Error("notification consume failed", "worker", workerID)
					select {
					case <-time.After(time.Second):
					case <-ctx.Done():
						return
					}
				}
			}
		}(i)
	}

	c.log.Info("notification consumers started", "workers", c.workers, "topics", c.topics)
}

// Stop shuts the workers down and closes the group
func (c *KafkaConsumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	if err := c.group.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	return nil
}

type consumerHandler struct {
	mailer   Mailer
	log      *logger.Logger
	workerID int
}

func (h *consumerHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *consumerHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *consumerHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := h.process(session.Context(), message); err != nil {
				h.log.WithError(err).Error("failed to process notification",
					"worker", h.workerID, "topic", message.Topic, "offset", message.Offset)
			}
			// Mark either way: a poison message must not wedge the partition.
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *consumerHandler) process(ctx context.Context, message *sarama.ConsumerMessage) error {
	var msg Message
	if err := json.Unmarshal(message.Value, &msg); err != nil {
		return fmt.Errorf("failed to unmarshal notification message: %w", err)
	}

	if msg.IsExpired() {
		h.log.Info("dropping expired notification", "id", msg.ID, "kind", string(msg.Kind))
		return nil
	}

	if err := h.sendWithRetry(ctx, &msg); err != nil {
		metrics.EmailsFailed.WithLabelValues(string(msg.Kind)).Inc()
		return err
	}
	metrics.EmailsSent.WithLabelValues(string(msg.Kind)).Inc()
	return nil
}

func (h *consumerHandler) sendWithRetry(ctx context.Context, msg *Message) error {
	var err error
	for attempt := 0; attempt < sendRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff between attempts.
			select {
			case <-time.After(time.Second << (attempt - 1)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		err = h.mailer.Send(ctx, msg.RecipientEmail, msg.Subject, msg.HTMLBody, msg.TextBody)
		if err == nil {
			return nil
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", sendRetries, err)
}
