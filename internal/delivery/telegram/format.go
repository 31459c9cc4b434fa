package telegram

import (
	"fmt"
	"strings"

	"github.com/pmsignal/watchbot/internal/domain"
)

// FormatTrade renders one trade as a Markdown notification.
func FormatTrade(address string, trade domain.Trade) string {
	title := strings.TrimSpace(trade.Title)
	if title == "" {
		title = "(untitled)"
	}
	side := strings.TrimSpace(trade.Side)
	if side == "" {
		side = "TRADE"
	}
	outcome := strings.TrimSpace(trade.Outcome)
	if outcome == "" {
		outcome = "(unspecified)"
	}

	lines := []string{
		fmt.Sprintf("👤 `%s`", address),
		"🧾 *New trade*",
		fmt.Sprintf("📌 *Market:* %s", title),
		fmt.Sprintf("🎯 *Outcome:* %s", outcome),
		fmt.Sprintf("🧭 *Side:* %s", side),
		fmt.Sprintf("💵 *Amount:* %s USDC", trade.UsdcSize.Round(2).String()),
	}

	if trade.PriceValid {
		lines = append(lines, fmt.Sprintf("🏷 *Price:* %s", trade.Price.String()))
	}
	if trade.SizeValid {
		lines = append(lines, fmt.Sprintf("📦 *Size:* %s", trade.Size.String()))
	}
	if trade.TransactionHash != "" {
		lines = append(lines, fmt.Sprintf("🔗 *Tx:* `%s`", trade.TransactionHash))
	}

	return strings.Join(lines, "\n")
}
