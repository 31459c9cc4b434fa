package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Watch is one (chat, address) subscription. LastSeenTS is the trade
// timestamp watermark: trades at or below it have already been evaluated.
type Watch struct {
	ChatID     int64
	Address    string
	LastSeenTS int64
	Threshold  decimal.Decimal
	Paused     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
