package consumers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/collections-workflow/internal/config"
	"github.com/segmentio/kafka-go"
)

// MessageHandler processes one message. Returning an error retries the same message.
type MessageHandler func(ctx context.Context, key []byte, value []byte) error

// Consumer defines the message queue consumer interface
type Consumer interface {
	Subscribe(ctx context.Context, handler MessageHandler) error
	Close() error
}

// MessageReader wraps kafka.Reader methods for testing
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConsumer implements Consumer for one topic and consumer group
type KafkaConsumer struct {
	reader     MessageReader
	logger     *slog.Logger
	topic      string
	groupID    string
	retryDelay time.Duration
	done       chan struct{}
}

// NewKafkaConsumer creates a group reader for the borrower import topic
func NewKafkaConsumer(_ context.Context, logger *slog.Logger, cfg *config.KafkaConfig) *KafkaConsumer {
	startOffset := kafka.FirstOffset
	if cfg.StartOffset != 0 {
		startOffset = cfg.StartOffset
	}
	return &KafkaConsumer{
		logger:     logger,
		topic:      cfg.BorrowerImportTopic,
		groupID:    cfg.ConsumerGroup,
		retryDelay: time.Second,
		done:       make(chan struct{}),
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     []string{cfg.Brokers},
			Topic:       cfg.BorrowerImportTopic,
			GroupID:     cfg.ConsumerGroup,
			MinBytes:    cfg.MinBytes,
			MaxBytes:    cfg.MaxBytes,
			MaxWait:     cfg.MaxWait,
			StartOffset: startOffset,
		}),
	}
}

// Subscribe starts consuming in the background until ctx is canceled
func (c *KafkaConsumer) Subscribe(ctx context.Context, handler MessageHandler) error {
	if c.reader == nil {
		return errors.New("kafka reader is not initialized")
	}
	c.logger.Info("Subscribed to Kafka topic", "topic", c.topic, "group_id", c.groupID)

	go func() {
		defer close(c.done)
		for {
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					c.logger.Info("Context canceled, stopping consumer", "topic", c.topic, "group_id", c.groupID)
					return
				}
				c.logger.Error("Failed to fetch message from Kafka", "topic", c.topic, "error", err)
				select {
				case <-ctx.Done():
					return
				case <-time.After(c.retryDelay):
				}
				continue
			}

			logger := c.logger.With(
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"key", string(msg.Key),
			)
			logger.Debug("Received message from Kafka")

			if !c.handleWithRetry(ctx, logger, msg, handler) {
				return
			}

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				logger.Error("Failed to commit message after successful processing", "error", err)
			}
		}
	}()

	return nil
}

// handleWithRetry runs handler on msg until it succeeds. Committing a later
// offset would also commit msg, so the loop never moves past a failed message.
// It reports false when ctx ends first.
func (c *KafkaConsumer) handleWithRetry(ctx context.Context, logger *slog.Logger, msg kafka.Message, handler MessageHandler) bool {
	for attempt := 1; ; attempt++ {
		err := handler(ctx, msg.Key, msg.Value)
		if err == nil {
			return true
		}
		logger.Error("Failed to process message, retrying", "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			logger.Info("Context canceled, leaving message uncommitted")
			return false
		case <-time.After(c.retryDelay):
		}
	}
}

// Done is closed once the consume loop has exited
func (c *KafkaConsumer) Done() <-chan struct{} {
	return c.done
}

func (c *KafkaConsumer) Close() error {
	if c.reader != nil {
		return c.reader.Close()
	}
	return nil
}
