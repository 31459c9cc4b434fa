package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/pmsignal/watchbot/internal/domain"
	"go.uber.org/zap"
)

// TradeNotifier delivers one trade notification to a chat.
type TradeNotifier interface {
	NotifyTrade(chatID int64, address string, trade domain.Trade) error
}

// Poller runs the watch polling loop. Cycles are strictly sequential and
// each cycle walks the watch list one row at a time: fetch, classify,
// deliver, advance the watermark. A rate-limited fetch suspends the whole
// cycle for the requested backoff before the next row is tried.
type Poller struct {
	watches    domain.WatchRepository
	source     domain.ActivitySource
	notifier   TradeNotifier
	logger     *zap.Logger
	interval   time.Duration
	fetchLimit int

	sleep func(ctx context.Context, d time.Duration)
}

func NewPoller(watches domain.WatchRepository, source domain.ActivitySource, notifier TradeNotifier, logger *zap.Logger, interval time.Duration, fetchLimit int) *Poller {
	return &Poller{
		watches:    watches,
		source:     source,
		notifier:   notifier,
		logger:     logger,
		interval:   interval,
		fetchLimit: fetchLimit,
		sleep:      sleepContext,
	}
}

// Run blocks until ctx is cancelled. A new cycle starts only after the
// previous one has fully completed.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("poller started", zap.Duration("interval", p.interval))
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("poller stopped")
			return nil
		case <-ticker.C:
			p.runCycle(ctx)
		}
	}
}

func (p *Poller) runCycle(ctx context.Context) {
	watches, err := p.watches.ListActive(ctx)
	if err != nil {
		p.logger.Warn("failed to list watches", zap.Error(err))
		return
	}

	for _, watch := range watches {
		if ctx.Err() != nil {
			return
		}
		if watch.Paused {
			continue
		}
		p.pollWatch(ctx, watch)
	}
}

func (p *Poller) pollWatch(ctx context.Context, watch domain.Watch) {
	trades, err := p.source.FetchLatestTrades(ctx, watch.Address, p.fetchLimit)
	if err != nil {
		var rateLimited *domain.RateLimitedError
		if errors.As(err, &rateLimited) {
			p.logger.Warn(
				"rate limited, backing off",
				zap.String("address", watch.Address),
				zap.Duration("retry_after", rateLimited.RetryAfter),
			)
			p.sleep(ctx, rateLimited.RetryAfter)
			return
		}
		p.logger.Warn("fetch failed", zap.String("address", watch.Address), zap.Error(err))
		return
	}

	newWatermark, alertable := Classify(trades, watch.LastSeenTS, watch.Threshold)
	if newWatermark <= watch.LastSeenTS {
		return
	}

	for _, trade := range alertable {
		if err := p.notifier.NotifyTrade(watch.ChatID, watch.Address, trade); err != nil {
			p.logger.Warn(
				"delivery failed",
				zap.Int64("chat_id", watch.ChatID),
				zap.String("address", watch.Address),
				zap.Int64("trade_ts", trade.Timestamp),
				zap.Error(err),
			)
		}
	}

	// The watermark advances over all new trades, delivered or not:
	// sub-threshold trades must not be re-scanned next cycle, and a failed
	// delivery is not retried.
	if err := p.watches.AdvanceWatermark(ctx, watch.ChatID, watch.Address, newWatermark); err != nil {
		p.logger.Warn(
			"failed to advance watermark",
			zap.Int64("chat_id", watch.ChatID),
			zap.String("address", watch.Address),
			zap.Error(err),
		)
	}
}

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
