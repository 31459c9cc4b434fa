package polymarket

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type activityTrade struct {
	Timestamp       FlexInt64       `json:"timestamp"`
	UsdcSize        NullableDecimal `json:"usdcSize"`
	Title           string          `json:"title"`
	Side            string          `json:"side"`
	Outcome         string          `json:"outcome"`
	Price           NullableDecimal `json:"price"`
	Size            NullableDecimal `json:"size"`
	TransactionHash string          `json:"transactionHash"`
}

// FlexInt64 accepts an integer, a float, or a numeric string. Anything else
// decodes to zero.
type FlexInt64 int64

func (f *FlexInt64) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*f = 0
		return nil
	}
	trimmed = strings.Trim(trimmed, "\"")
	if value, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		*f = FlexInt64(value)
		return nil
	}
	if value, err := strconv.ParseFloat(trimmed, 64); err == nil {
		*f = FlexInt64(int64(value))
		return nil
	}
	*f = 0
	return nil
}

// NullableDecimal accepts a number, a quoted number, or null. An invalid
// value decodes as absent rather than failing the whole record.
type NullableDecimal struct {
	Decimal decimal.Decimal
	Valid   bool
}

func (n *NullableDecimal) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		n.Valid = false
		return nil
	}
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		n.Valid = false
		return nil
	}
	if trimmed[0] == '"' && trimmed[len(trimmed)-1] == '"' {
		trimmed = strings.Trim(trimmed, "\"")
	}
	dec, err := decimal.NewFromString(trimmed)
	if err != nil {
		n.Valid = false
		return nil
	}
	n.Decimal = dec
	n.Valid = true
	return nil
}

func (n NullableDecimal) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Decimal.String())
}
