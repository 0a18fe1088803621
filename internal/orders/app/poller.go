package app

import (
	"context"
	"log/slog"
	"time"
)

// DefaultRefreshInterval is how often the board re-reads the backend.
const DefaultRefreshInterval = 10 * time.Second

type Refresher interface {
	Refresh(ctx context.Context) (int, error)
}

// Poller refreshes the snapshot immediately and then on every tick.
type Poller struct {
	refresher Refresher
	interval  time.Duration
	logger    *slog.Logger
}

func NewPoller(refresher Refresher, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Poller{refresher: refresher, interval: interval, logger: logger}
}

// Run blocks until ctx is cancelled. Refresh failures are logged and the
// previous snapshot keeps being served.
func (p *Poller) Run(ctx context.Context) {
	p.logger.InfoContext(ctx, "order poller started", "interval", p.interval.String())
	defer p.logger.InfoContext(ctx, "order poller stopped")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if _, err := p.refresher.Refresh(ctx); err != nil && ctx.Err() == nil {
			p.logger.WarnContext(ctx, "keeping previous order snapshot", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Start runs the poller in its own goroutine. The returned stop cancels it
// and blocks until an in-flight refresh has returned, so callers can release
// the stores the refresh writes to.
func (p *Poller) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(ctx)
	}()

	return func() {
		cancel()
		<-done
	}
}
