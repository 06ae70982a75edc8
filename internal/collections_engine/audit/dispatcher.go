// Package audit exports committed action log entries to external sinks on a
// bounded worker pool.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/collections-workflow/internal/domain/actionlog"
	"github.com/collections-workflow/internal/platform/messaging/producers"
)

// Config sizes the dispatcher
type Config struct {
	PoolSize        int
	DeliveryTimeout time.Duration
}

// Stats is a point-in-time view of dispatcher activity
type Stats struct {
	Sinks        []string `json:"sinks"`
	Delivered    int64    `json:"delivered"`
	Failed       int64    `json:"failed"`
	DeadLettered int64    `json:"dead_lettered"`
	Running      int      `json:"running"`
	Capacity     int      `json:"capacity"`
}

// Dispatcher implements store.Observer. Every committed entry is delivered to
// every sink in its own pool task; a failed delivery is parked on the DLQ.
type Dispatcher struct {
	pool    *ants.Pool
	sinks   []actionlog.Sink
	dlq     producers.DeadLetterPublisher
	timeout time.Duration
	logger  *slog.Logger

	wg           sync.WaitGroup
	delivered    atomic.Int64
	failed       atomic.Int64
	deadLettered atomic.Int64
}

// NewDispatcher creates the worker pool. dlq may be nil.
func NewDispatcher(
	logger *slog.Logger,
	cfg Config,
	dlq producers.DeadLetterPublisher,
	sinks ...actionlog.Sink,
) (*Dispatcher, error) {
	pool, err := ants.NewPool(cfg.PoolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create audit worker pool: %w", err)
	}

	return &Dispatcher{
		pool:    pool,
		sinks:   sinks,
		dlq:     dlq,
		timeout: cfg.DeliveryTimeout,
		logger:  logger,
	}, nil
}

// OnCommit schedules delivery of entries. It blocks only while the pool is saturated.
func (d *Dispatcher) OnCommit(entries []actionlog.Entry) {
	for _, entry := range entries {
		for _, sink := range d.sinks {
			d.submit(sink, entry)
		}
	}
}

func (d *Dispatcher) submit(sink actionlog.Sink, entry actionlog.Entry) {
	d.wg.Add(1)
	err := d.pool.Submit(func() {
		defer d.wg.Done()
		d.deliver(sink, entry)
	})
	if err != nil {
		d.wg.Done()
		d.failed.Add(1)
		d.logger.Error("Failed to submit audit delivery to worker pool",
			"sink", sink.Name(),
			"entry_id", entry.ID,
			"error", err,
		)
	}
}

func (d *Dispatcher) deliver(sink actionlog.Sink, entry actionlog.Entry) {
	ctx := context.Background()
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	err := sink.Deliver(ctx, entry)
	if err == nil {
		d.delivered.Add(1)
		return
	}

	d.failed.Add(1)
	d.logger.Error("Audit delivery failed",
		"sink", sink.Name(),
		"entry_id", entry.ID,
		"borrower_id", entry.BorrowerID,
		"error", err,
	)
	d.deadLetter(sink, entry, err)
}

// deadLetter publishes under its own deadline; the delivery context may already be expired
func (d *Dispatcher) deadLetter(sink actionlog.Sink, entry actionlog.Entry, cause error) {
	if d.dlq == nil {
		return
	}

	ctx := context.Background()
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		d.logger.Error("Failed to marshal action log entry for DLQ", "entry_id", entry.ID, "error", err)
		return
	}

	reason := fmt.Sprintf("delivery to %s failed: %s", sink.Name(), cause.Error())
	if err := d.dlq.PublishToDLQ(ctx, entry.ID, payload, reason); err != nil {
		if !errors.Is(err, producers.ErrDLQDisabled) {
			d.logger.Error("Failed to dead-letter action log entry",
				"entry_id", entry.ID,
				"dlq_error", err,
			)
		}
		return
	}
	d.deadLettered.Add(1)
}

// Stats returns delivery counters and pool occupancy
func (d *Dispatcher) Stats() Stats {
	names := make([]string, 0, len(d.sinks))
	for _, s := range d.sinks {
		names = append(names, s.Name())
	}
	return Stats{
		Sinks:        names,
		Delivered:    d.delivered.Load(),
		Failed:       d.failed.Load(),
		DeadLettered: d.deadLettered.Load(),
		Running:      d.pool.Running(),
		Capacity:     d.pool.Cap(),
	}
}

// Shutdown waits for in-flight deliveries, or until ctx is done, then releases the pool
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.logger.Info("Shutting down audit dispatcher", "running_workers", d.pool.Running())

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = fmt.Errorf("audit dispatcher shutdown: %w", ctx.Err())
	}
	d.pool.Release()
	return err
}
