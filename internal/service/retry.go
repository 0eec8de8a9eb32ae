package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jjenkins/programselect/internal/tabular"
	"go.uber.org/zap"
)

const (
	defaultReadAttempts = 3
	defaultBackoff      = 500 * time.Millisecond
)

// reader reads ranges with exponential backoff. Only reads go through it;
// appends are never retried because a retry could duplicate a ledger row
type reader struct {
	store    tabular.Store
	attempts int
	backoff  time.Duration
	logger   *zap.Logger
}

func newReader(store tabular.Store, attempts int, backoff time.Duration, logger *zap.Logger) *reader {
	if attempts < 1 {
		attempts = defaultReadAttempts
	}
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	return &reader{store: store, attempts: attempts, backoff: backoff, logger: logger}
}

// read retries only ErrUpstreamUnavailable; a missing range will not appear
// by waiting
func (r *reader) read(ctx context.Context, rangeSpec string) ([][]string, error) {
	var lastErr error
	backoff := r.backoff

	for attempt := 0; attempt < r.attempts; attempt++ {
		if attempt > 0 {
			r.logger.Warn("retrying range read",
				zap.String("range", rangeSpec),
				zap.Int("attempt", attempt+1),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %w", tabular.ErrUpstreamUnavailable, ctx.Err())
			case <-time.After(backoff):
				backoff *= 2
			}
		}

		rows, err := r.store.ReadRange(ctx, rangeSpec)
		if err == nil {
			return rows, nil
		}
		if !errors.Is(err, tabular.ErrUpstreamUnavailable) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", r.attempts, lastErr)
}
