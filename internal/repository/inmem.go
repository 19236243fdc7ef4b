package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"tradebot-backend/internal/domain"
)

// InMemoryTradeJournal keeps trade records in memory. Used in tests and when
// no DATABASE_URL is configured.
type InMemoryTradeJournal struct {
	mu      sync.RWMutex
	nextRef int64
	records map[int64]*domain.TradeRecord
}

func NewInMemoryTradeJournal() *InMemoryTradeJournal {
	return &InMemoryTradeJournal{
		nextRef: 1,
		records: make(map[int64]*domain.TradeRecord),
	}
}

func (j *InMemoryTradeJournal) InsertOpenTrade(_ context.Context, rec *domain.TradeRecord) (int64, error) {
	if rec == nil {
		return 0, fmt.Errorf("nil record")
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	stored := *rec
	stored.Ref = j.nextRef
	stored.SellDate = nil
	stored.SellPrice = 0
	stored.NetPnl = 0
	stored.NetRoi = 0
	j.records[stored.Ref] = &stored
	j.nextRef++

	rec.Ref = stored.Ref
	return stored.Ref, nil
}

func (j *InMemoryTradeJournal) ListOpenTrades(_ context.Context) ([]*domain.TradeRecord, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	open := make([]*domain.TradeRecord, 0)
	for _, rec := range j.records {
		if rec.IsOpen() {
			cp := *rec
			open = append(open, &cp)
		}
	}
	sort.Slice(open, func(i, k int) bool { return open[i].Ref < open[k].Ref })
	return open, nil
}

func (j *InMemoryTradeJournal) UpdateClosedTrade(_ context.Context, upd domain.ClosedUpdate) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	rec, exists := j.records[upd.Ref]
	if !exists || !rec.IsOpen() {
		return fmt.Errorf("no open trade with ref %d", upd.Ref)
	}

	sellDate := upd.SellDate
	rec.SellDate = &sellDate
	rec.SellPrice = upd.SellPrice
	rec.NetPnl = upd.NetPnl
	rec.NetRoi = upd.NetRoi
	return nil
}

func (j *InMemoryTradeJournal) ListRecentTrades(_ context.Context, limit int) ([]*domain.TradeRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	all := make([]*domain.TradeRecord, 0, len(j.records))
	for _, rec := range j.records {
		cp := *rec
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, k int) bool { return all[i].Ref > all[k].Ref })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// compile-time check
var _ domain.TradeJournal = (*InMemoryTradeJournal)(nil)
