package usecase

import (
	"sort"

	"github.com/pmsignal/watchbot/internal/domain"
	"github.com/shopspring/decimal"
)

// Classify splits a newest-first trade fetch into the new watermark and the
// trades worth alerting on. The watermark covers every trade newer than
// lastSeenTS, sub-threshold ones included, so a small trade is evaluated
// exactly once. Alertable trades come back oldest first; timestamp ties keep
// their encounter order.
func Classify(trades []domain.Trade, lastSeenTS int64, threshold decimal.Decimal) (int64, []domain.Trade) {
	var fresh []domain.Trade
	for _, trade := range trades {
		if trade.Timestamp > lastSeenTS {
			fresh = append(fresh, trade)
		}
	}
	if len(fresh) == 0 {
		return lastSeenTS, nil
	}

	newWatermark := lastSeenTS
	for _, trade := range fresh {
		if trade.Timestamp > newWatermark {
			newWatermark = trade.Timestamp
		}
	}

	var alertable []domain.Trade
	for _, trade := range fresh {
		if trade.UsdcSize.Cmp(threshold) >= 0 {
			alertable = append(alertable, trade)
		}
	}
	sort.SliceStable(alertable, func(i, j int) bool {
		return alertable[i].Timestamp < alertable[j].Timestamp
	})

	return newWatermark, alertable
}
