package usecase

import (
	"context"
	"sort"
	"sync"

	"github.com/pmsignal/watchbot/internal/domain"
	"github.com/shopspring/decimal"
)

type watchKey struct {
	chatID  int64
	address string
}

// fakeWatchRepo is an in-memory WatchRepository with the same contract as
// the postgres one, including defensive watermark monotonicity.
type fakeWatchRepo struct {
	mu           sync.Mutex
	rows         map[watchKey]domain.Watch
	advanceCalls int
}

func newFakeWatchRepo() *fakeWatchRepo {
	return &fakeWatchRepo{rows: make(map[watchKey]domain.Watch)}
}

func (r *fakeWatchRepo) put(watch domain.Watch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[watchKey{watch.ChatID, watch.Address}] = watch
}

func (r *fakeWatchRepo) get(chatID int64, address string) (domain.Watch, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	watch, ok := r.rows[watchKey{chatID, address}]
	return watch, ok
}

func (r *fakeWatchRepo) ListActive(ctx context.Context) ([]domain.Watch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	watches := make([]domain.Watch, 0, len(r.rows))
	for _, watch := range r.rows {
		watches = append(watches, watch)
	}
	sort.Slice(watches, func(i, j int) bool {
		if watches[i].ChatID != watches[j].ChatID {
			return watches[i].ChatID < watches[j].ChatID
		}
		return watches[i].Address < watches[j].Address
	})
	return watches, nil
}

func (r *fakeWatchRepo) Upsert(ctx context.Context, chatID int64, address string, seedTS int64) (*domain.Watch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := watchKey{chatID, address}
	if existing, ok := r.rows[key]; ok {
		found := existing
		return &found, nil
	}
	watch := domain.Watch{ChatID: chatID, Address: address, LastSeenTS: seedTS, Threshold: decimal.Zero}
	r.rows[key] = watch
	return &watch, nil
}

func (r *fakeWatchRepo) Remove(ctx context.Context, chatID int64, address string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := watchKey{chatID, address}
	if _, ok := r.rows[key]; !ok {
		return domain.ErrNotFound
	}
	delete(r.rows, key)
	return nil
}

func (r *fakeWatchRepo) ListByChat(ctx context.Context, chatID int64) ([]domain.Watch, error) {
	all, _ := r.ListActive(ctx)
	var watches []domain.Watch
	for _, watch := range all {
		if watch.ChatID == chatID {
			watches = append(watches, watch)
		}
	}
	return watches, nil
}

func (r *fakeWatchRepo) SetThreshold(ctx context.Context, chatID int64, address string, threshold decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := watchKey{chatID, address}
	watch, ok := r.rows[key]
	if !ok {
		return domain.ErrNotFound
	}
	watch.Threshold = threshold
	r.rows[key] = watch
	return nil
}

func (r *fakeWatchRepo) SetPaused(ctx context.Context, chatID int64, address string, paused bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := watchKey{chatID, address}
	watch, ok := r.rows[key]
	if !ok {
		return domain.ErrNotFound
	}
	watch.Paused = paused
	r.rows[key] = watch
	return nil
}

func (r *fakeWatchRepo) AdvanceWatermark(ctx context.Context, chatID int64, address string, newTS int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.advanceCalls++
	key := watchKey{chatID, address}
	watch, ok := r.rows[key]
	if !ok {
		return nil
	}
	if newTS > watch.LastSeenTS {
		watch.LastSeenTS = newTS
		r.rows[key] = watch
	}
	return nil
}

func (r *fakeWatchRepo) ClearAll(ctx context.Context, chatID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for key := range r.rows {
		if key.chatID == chatID {
			delete(r.rows, key)
			count++
		}
	}
	return count, nil
}

type fetchCall struct {
	address string
	limit   int
}

type fetchResult struct {
	trades []domain.Trade
	err    error
}

// fakeSource serves queued responses per address; an exhausted queue yields
// an empty fetch.
type fakeSource struct {
	mu        sync.Mutex
	responses map[string][]fetchResult
	calls     []fetchCall
}

func newFakeSource() *fakeSource {
	return &fakeSource{responses: make(map[string][]fetchResult)}
}

func (s *fakeSource) queue(address string, trades []domain.Trade, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[address] = append(s.responses[address], fetchResult{trades: trades, err: err})
}

func (s *fakeSource) FetchLatestTrades(ctx context.Context, address string, limit int) ([]domain.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, fetchCall{address: address, limit: limit})
	pending := s.responses[address]
	if len(pending) == 0 {
		return nil, nil
	}
	next := pending[0]
	s.responses[address] = pending[1:]
	return next.trades, next.err
}

func (s *fakeSource) callCount(address string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, call := range s.calls {
		if call.address == address {
			count++
		}
	}
	return count
}

type delivery struct {
	chatID  int64
	address string
	tradeTS int64
}

type fakeNotifier struct {
	mu     sync.Mutex
	sent   []delivery
	failTS map[int64]error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{failTS: make(map[int64]error)}
}

func (n *fakeNotifier) NotifyTrade(chatID int64, address string, trade domain.Trade) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, delivery{chatID: chatID, address: address, tradeTS: trade.Timestamp})
	return n.failTS[trade.Timestamp]
}

func (n *fakeNotifier) deliveries() []delivery {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]delivery, len(n.sent))
	copy(out, n.sent)
	return out
}

func usdc(value int64) decimal.Decimal {
	return decimal.NewFromInt(value)
}

func trade(ts int64, value int64) domain.Trade {
	return domain.Trade{Timestamp: ts, UsdcSize: usdc(value)}
}
