package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/collections-workflow/internal/config"
	"github.com/collections-workflow/internal/domain/actionlog"
	"github.com/segmentio/kafka-go"
)

// ActionLogEvent is the wire format of one action log entry on the events topic
type ActionLogEvent struct {
	EventType string          `json:"event_type"`
	Entry     actionlog.Entry `json:"entry"`
}

const actionLogEventType = "collections.action_logged"

// ActionLogProducer publishes committed action log entries, keyed by borrower id
// so that every borrower's history stays ordered within one partition
type ActionLogProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// NewActionLogProducer dials the broker, ensures the topic exists and creates the writer
func NewActionLogProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*ActionLogProducer, error) {
	if cfg.ActionLogTopic == "" {
		return nil, fmt.Errorf("kafka action log topic is not configured")
	}

	conn, err := kafka.DialContext(ctx, "tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for action log producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.ActionLogTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure action log topic %s exists: %w", cfg.ActionLogTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.ActionLogTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: cfg.MaxWait,
	}

	return &ActionLogProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.ActionLogTopic,
	}, nil
}

// Name identifies the producer as an audit sink
func (p *ActionLogProducer) Name() string {
	return "kafka:" + p.topic
}

// Deliver publishes entry as an ActionLogEvent
func (p *ActionLogProducer) Deliver(ctx context.Context, entry actionlog.Entry) error {
	return p.Publish(ctx, entry.BorrowerID, ActionLogEvent{EventType: actionLogEventType, Entry: entry})
}

// Publish marshals value to JSON and writes it under key
func (p *ActionLogProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal action log event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish action log event",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish action log event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published action log event", "topic", p.topic, "key", key)
	return nil
}

func (p *ActionLogProducer) Close() error {
	p.logger.Info("Closing action log producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close action log writer for topic %s: %w", p.topic, err)
	}
	return nil
}
