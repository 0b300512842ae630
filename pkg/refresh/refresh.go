// Package refresh re-fetches a URL on a fixed interval and hands each body
// to a sink, the way a page fragment is periodically reloaded.
package refresh

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Getter fetches a URL as text. *integrations.Client satisfies it.
type Getter interface {
	GetText(ctx context.Context, url string) (string, error)
}

// Sink receives each successfully fetched body.
type Sink func(body string)

// Poller fetches URL every Interval. The first fetch happens one Interval
// after Run starts unless Immediate is set.
type Poller struct {
	URL       string
	Interval  time.Duration
	Sink      Sink
	Client    Getter
	Immediate bool
	Logger    *log.Logger
}

// Run polls until ctx is done and then returns ctx.Err(). A failed fetch is
// logged and the next tick tries again.
func (p *Poller) Run(ctx context.Context) error {
	if p.Interval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %v", p.Interval)
	}
	if p.Client == nil || p.Sink == nil {
		return fmt.Errorf("poller needs a client and a sink")
	}
	logger := p.Logger
	if logger == nil {
		logger = log.Default()
	}

	if p.Immediate {
		p.tick(ctx, logger)
	}

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.tick(ctx, logger)
		}
	}
}

func (p *Poller) tick(ctx context.Context, logger *log.Logger) {
	body, err := p.Client.GetText(ctx, p.URL)
	if err != nil {
		if ctx.Err() == nil {
			logger.Warn("refresh failed", "url", p.URL, "err", err)
		}
		return
	}
	logger.Debug("refreshed", "url", p.URL, "bytes", len(body))
	p.Sink(body)
}
