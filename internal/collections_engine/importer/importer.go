// Package importer loads borrowers into the record store from an external
// source, either in one pass at startup or message by message from Kafka.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/collections-workflow/internal/domain/borrower"
	"github.com/collections-workflow/internal/platform/messaging/producers"
)

// Target is the record store operation an import feeds
type Target interface {
	Import(ctx context.Context, b borrower.Borrower, note string) error
}

// Failure records one borrower that could not be imported
type Failure struct {
	BorrowerID string `json:"borrower_id"`
	Reason     string `json:"reason"`
}

// Summary reports the outcome of a bulk import
type Summary struct {
	Source   string    `json:"source"`
	Imported int       `json:"imported"`
	Failed   []Failure `json:"failed,omitempty"`
}

// Importer validates external borrower records and appends them to the store
type Importer struct {
	target Target
	dlq    producers.DeadLetterPublisher
	note   string
	logger *slog.Logger
}

// NewImporter creates an importer. dlq may be nil, in which case messages that
// can never be imported are logged and dropped.
func NewImporter(logger *slog.Logger, target Target, dlq producers.DeadLetterPublisher, note string) *Importer {
	return &Importer{
		target: target,
		dlq:    dlq,
		note:   note,
		logger: logger,
	}
}

// ImportFrom loads every borrower from src. A bad record is reported in the
// summary and does not stop the rest; only a failure to read src is returned.
func (i *Importer) ImportFrom(ctx context.Context, name string, src borrower.Source) (Summary, error) {
	summary := Summary{Source: name}

	list, err := src.LoadAll(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to load borrowers from %s: %w", name, err)
	}

	for _, b := range list {
		if err := i.target.Import(ctx, b, i.note); err != nil {
			i.logger.Warn("Skipping borrower that failed to import",
				"source", name,
				"borrower_id", b.ID,
				"error", err,
			)
			summary.Failed = append(summary.Failed, Failure{BorrowerID: b.ID, Reason: err.Error()})
			continue
		}
		summary.Imported++
	}

	i.logger.Info("Borrower import finished",
		"source", name,
		"imported", summary.Imported,
		"failed", len(summary.Failed),
	)
	return summary, nil
}

// HandleMessage imports one JSON encoded borrower from the import topic.
// A redelivered borrower is acknowledged without change. Messages that can
// never be imported go to the DLQ; an error is returned only when the DLQ
// publish itself fails, and the consumer then retries the same message.
func (i *Importer) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var b borrower.Borrower
	if err := json.Unmarshal(value, &b); err != nil {
		return i.reject(ctx, key, value, "Failed to unmarshal borrower import message", err)
	}

	logger := i.logger.With("borrower_id", b.ID, "message_key", string(key))

	err := i.target.Import(ctx, b, i.note)
	switch {
	case err == nil:
		logger.Info("Imported borrower from message", "status", b.Status)
		return nil
	case errors.Is(err, borrower.ErrDuplicateBorrower{}):
		logger.Info("Borrower already imported, acknowledging redelivery")
		return nil
	default:
		return i.reject(ctx, key, value, "Borrower import message rejected", err)
	}
}

func (i *Importer) reject(ctx context.Context, key, value []byte, msg string, cause error) error {
	i.logger.Error(msg, "error", cause, "message_key", string(key))

	if i.dlq == nil {
		i.logger.Warn("No DLQ configured, dropping message", "message_key", string(key))
		return nil
	}

	reason := fmt.Sprintf("%s: %s", msg, cause.Error())
	if err := i.dlq.PublishToDLQ(ctx, string(key), value, reason); err != nil {
		if errors.Is(err, producers.ErrDLQDisabled) {
			i.logger.Warn("DLQ disabled, dropping message", "message_key", string(key))
			return nil
		}
		i.logger.Error("Failed to publish message to DLQ",
			"dlq_error", err,
			"original_error", cause,
			"message_key", string(key),
		)
		return fmt.Errorf("failed to dead-letter message: %w", err)
	}

	i.logger.Info("Published unprocessable message to DLQ", "message_key", string(key), "reason", reason)
	return nil
}
