package store

import (
	"context"
	"log/slog"
	"time"
)

// Advancer is the store operation the ticker drives
type Advancer interface {
	AdvanceDays(n int)
}

// DaysTicker ages every borrower by one day per interval
type DaysTicker struct {
	target   Advancer
	interval time.Duration
	logger   *slog.Logger
}

func NewDaysTicker(logger *slog.Logger, target Advancer, interval time.Duration) *DaysTicker {
	return &DaysTicker{
		target:   target,
		interval: interval,
		logger:   logger,
	}
}

// Start blocks until ctx is canceled. A non-positive interval disables the ticker.
func (t *DaysTicker) Start(ctx context.Context) {
	if t.interval <= 0 {
		t.logger.Info("Days-in-status ticker disabled")
		return
	}

	t.logger.Info("Starting days-in-status ticker", "interval", t.interval.String())
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("Days-in-status ticker stopping due to context cancellation.")
			return
		case <-ticker.C:
			t.target.AdvanceDays(1)
			t.logger.Debug("Advanced days in status")
		}
	}
}
