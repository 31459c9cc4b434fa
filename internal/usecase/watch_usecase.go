package usecase

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/pmsignal/watchbot/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrInvalidAddress = errors.New("invalid address")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrWatchNotFound  = errors.New("watch not found")
)

var addressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// NormalizeAddress lowercases and validates a wallet address.
func NormalizeAddress(input string) (string, error) {
	address := strings.ToLower(strings.TrimSpace(input))
	if !addressPattern.MatchString(address) {
		return "", ErrInvalidAddress
	}
	return address, nil
}

// ParseAmount reads a non-negative threshold. Underscores and commas are
// accepted as digit separators: 10_000, 10,000 and 10000 are the same value.
func ParseAmount(input string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("_", "", ",", "").Replace(strings.TrimSpace(input))
	value, err := decimal.NewFromString(cleaned)
	if err != nil || value.IsNegative() {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	return value, nil
}

type WatchUsecase struct {
	watches domain.WatchRepository
	source  domain.ActivitySource
	logger  *zap.Logger
}

func NewWatchUsecase(watches domain.WatchRepository, source domain.ActivitySource, logger *zap.Logger) *WatchUsecase {
	return &WatchUsecase{watches: watches, source: source, logger: logger}
}

// Watch subscribes a chat to an address. The watermark is seeded from the
// newest trade already on record so the existing backlog is never alerted;
// a failed seed fetch falls back to zero. Re-watching an existing pair
// leaves its threshold, paused flag and watermark alone.
func (u *WatchUsecase) Watch(ctx context.Context, chatID int64, address string) (*domain.Watch, error) {
	normalized, err := NormalizeAddress(address)
	if err != nil {
		return nil, err
	}

	var seedTS int64
	trades, err := u.source.FetchLatestTrades(ctx, normalized, 1)
	if err != nil {
		u.logger.Debug("watermark seed fetch failed", zap.String("address", normalized), zap.Error(err))
	} else if len(trades) > 0 {
		seedTS = trades[0].Timestamp
	}

	return u.watches.Upsert(ctx, chatID, normalized, seedTS)
}

func (u *WatchUsecase) Unwatch(ctx context.Context, chatID int64, address string) error {
	normalized, err := NormalizeAddress(address)
	if err != nil {
		return err
	}
	if err := u.watches.Remove(ctx, chatID, normalized); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrWatchNotFound
		}
		return err
	}
	return nil
}

func (u *WatchUsecase) List(ctx context.Context, chatID int64) ([]domain.Watch, error) {
	return u.watches.ListByChat(ctx, chatID)
}

// Get returns one watch of this chat, or ErrWatchNotFound.
func (u *WatchUsecase) Get(ctx context.Context, chatID int64, address string) (*domain.Watch, error) {
	normalized, err := NormalizeAddress(address)
	if err != nil {
		return nil, err
	}
	watches, err := u.watches.ListByChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	for _, watch := range watches {
		if watch.Address == normalized {
			found := watch
			return &found, nil
		}
	}
	return nil, ErrWatchNotFound
}

// SetThreshold updates the alert threshold for one watch. Already-seen
// trades are never re-evaluated; the new value applies from the next poll
// cycle on.
func (u *WatchUsecase) SetThreshold(ctx context.Context, chatID int64, address, amount string) (decimal.Decimal, error) {
	normalized, err := NormalizeAddress(address)
	if err != nil {
		return decimal.Decimal{}, err
	}
	value, err := ParseAmount(amount)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if err := u.watches.SetThreshold(ctx, chatID, normalized, value); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return decimal.Decimal{}, ErrWatchNotFound
		}
		return decimal.Decimal{}, err
	}
	return value, nil
}

// SetPaused toggles polling for one watch. Pausing keeps the watermark, so
// resuming picks up everything since the last advancement.
func (u *WatchUsecase) SetPaused(ctx context.Context, chatID int64, address string, paused bool) error {
	normalized, err := NormalizeAddress(address)
	if err != nil {
		return err
	}
	if err := u.watches.SetPaused(ctx, chatID, normalized, paused); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrWatchNotFound
		}
		return err
	}
	return nil
}

func (u *WatchUsecase) ClearAll(ctx context.Context, chatID int64) (int64, error) {
	return u.watches.ClearAll(ctx, chatID)
}
