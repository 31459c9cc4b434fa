package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

type WatchRepository interface {
	// ListActive returns every watch row, paused ones included. The poll
	// loop decides what to skip.
	ListActive(ctx context.Context) ([]Watch, error)
	// Upsert creates the watch if absent, seeding the watermark with
	// seedTS. An existing row is returned untouched: threshold, paused
	// state and watermark all survive a re-watch.
	Upsert(ctx context.Context, chatID int64, address string, seedTS int64) (*Watch, error)
	Remove(ctx context.Context, chatID int64, address string) error
	ListByChat(ctx context.Context, chatID int64) ([]Watch, error)
	SetThreshold(ctx context.Context, chatID int64, address string, threshold decimal.Decimal) error
	SetPaused(ctx context.Context, chatID int64, address string, paused bool) error
	// AdvanceWatermark sets last_seen_ts to max(current, newTS); a stale
	// caller can never move it backwards.
	AdvanceWatermark(ctx context.Context, chatID int64, address string, newTS int64) error
	ClearAll(ctx context.Context, chatID int64) (int64, error)
}
