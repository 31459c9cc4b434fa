package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pmsignal/watchbot/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultRetryAfter = 2 * time.Second

// ActivityClient reads recent trade activity for a wallet address from the
// Polymarket data API.
type ActivityClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewActivityClient(baseURL string, timeout time.Duration, logger *zap.Logger) *ActivityClient {
	return &ActivityClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *ActivityClient) FetchLatestTrades(ctx context.Context, address string, limit int) ([]domain.Trade, error) {
	query := url.Values{}
	query.Set("user", address)
	query.Set("type", "TRADE")
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", "0")
	query.Set("sortBy", "TIMESTAMP")
	query.Set("sortDirection", "DESC")
	endpoint := fmt.Sprintf("%s/activity?%s", c.baseURL, query.Encode())

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	response, err := c.client.Do(request)
	if err != nil {
		c.logger.Warn("activity request failed", zap.String("address", address), zap.Error(err))
		return nil, err
	}
	defer response.Body.Close()

	c.logger.Debug(
		"activity request complete",
		zap.String("address", address),
		zap.Int("status", response.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if response.StatusCode == http.StatusTooManyRequests {
		return nil, &domain.RateLimitedError{RetryAfter: parseRetryAfter(response.Header.Get("Retry-After"))}
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, fmt.Errorf("activity error: status %d", response.StatusCode)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	var payload []activityTrade
	if err := json.Unmarshal(body, &payload); err != nil {
		// A non-list body is an upstream glitch, not a reason to fail
		// the caller's whole cycle.
		c.logger.Warn("activity response not a list", zap.String("address", address), zap.Error(err))
		return nil, nil
	}

	trades := make([]domain.Trade, 0, len(payload))
	for _, record := range payload {
		trades = append(trades, mapTradeToDomain(record))
	}
	return trades, nil
}

func mapTradeToDomain(record activityTrade) domain.Trade {
	usdc := decimal.Zero
	if record.UsdcSize.Valid {
		usdc = record.UsdcSize.Decimal
	}
	return domain.Trade{
		Timestamp:       int64(record.Timestamp),
		UsdcSize:        usdc,
		Title:           record.Title,
		Side:            record.Side,
		Outcome:         record.Outcome,
		Price:           record.Price.Decimal,
		PriceValid:      record.Price.Valid,
		Size:            record.Size.Decimal,
		SizeValid:       record.Size.Valid,
		TransactionHash: record.TransactionHash,
	}
}

func parseRetryAfter(header string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || seconds <= 0 {
		return defaultRetryAfter
	}
	return time.Duration(seconds) * time.Second
}
