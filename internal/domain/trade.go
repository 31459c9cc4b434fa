package domain

import "github.com/shopspring/decimal"

// Trade is one activity record from the upstream data API. Timestamp is the
// sole ordering and dedup key; UsdcSize is the value compared against a
// watch's threshold. The remaining fields are display-only.
type Trade struct {
	Timestamp       int64
	UsdcSize        decimal.Decimal
	Title           string
	Side            string
	Outcome         string
	Price           decimal.Decimal
	PriceValid      bool
	Size            decimal.Decimal
	SizeValid       bool
	TransactionHash string
}
