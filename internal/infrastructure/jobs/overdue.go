package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const defaultSweepInterval = time.Hour

// OverdueMarker is the repository operation the sweeper needs.
type OverdueMarker interface {
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}

// OverdueSweeper periodically flips pending bills past their due date to
// overdue, so list views and exports show the right status without waiting
// for someone to open the bill.
type OverdueSweeper struct {
	bills    OverdueMarker
	interval time.Duration
	log      zerolog.Logger
}

// NewOverdueSweeper creates a sweeper. If interval <= 0, a default of one
// hour is used.
func NewOverdueSweeper(bills OverdueMarker, interval time.Duration, log zerolog.Logger) *OverdueSweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &OverdueSweeper{bills: bills, interval: interval, log: log}
}

// Start launches the sweep loop. It stops when ctx is cancelled. One sweep
// runs immediately on start so a restarted service catches up.
func (s *OverdueSweeper) Start(ctx context.Context) {
	go func() {
		s.sweep(ctx)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()
}

func (s *OverdueSweeper) sweep(ctx context.Context) {
	n, err := s.bills.MarkOverdue(ctx, time.Now().UTC())
	if err != nil {
		s.log.Error().Err(err).Msg("overdue sweep failed")
		return
	}
	if n > 0 {
		s.log.Info().Int64("bills", n).Msg("bills marked overdue")
	}
}
