package product

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"shopcart-api/internal/domain"
)

// Poller emits catalog snapshots on an interval. It stands in for a change
// notification subscription on the products collection: consumers receive a
// fresh snapshot whenever one is available and stop receiving when the
// context is cancelled.
type Poller struct {
	repo     Repository
	interval time.Duration
	logger   *logrus.Logger
}

func NewPoller(repo Repository, interval time.Duration, logger *logrus.Logger) *Poller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Poller{repo: repo, interval: interval, logger: logger}
}

// Watch returns a channel of full catalog snapshots. The channel is closed
// when ctx is cancelled. Fetch errors are logged and skipped; the next tick
// retries.
func (p *Poller) Watch(ctx context.Context) <-chan []domain.Product {
	ch := make(chan []domain.Product, 1)
	go func() {
		defer close(ch)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			products, err := p.repo.ListAll(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				p.logger.WithError(err).Warn("catalog poll failed")
				continue
			}
			select {
			case ch <- products:
			case <-ctx.Done():
				return
			default:
				// Consumer still busy with the previous snapshot; drop this one.
			}
		}
	}()
	return ch
}
