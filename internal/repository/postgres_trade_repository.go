package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"tradebot-backend/internal/domain"
)

// PostgresTradeJournal stores trade records in Postgres. Open trades are the
// rows with sell_date null and sell_price 0; rows are never deleted.
type PostgresTradeJournal struct {
	pool *pgxpool.Pool
}

func NewPostgresTradeJournal(pool *pgxpool.Pool) *PostgresTradeJournal {
	return &PostgresTradeJournal{pool: pool}
}

const tradeColumns = `ref, date, symbol, num_shares, buy_price, position_size,
	sell_date, sell_price, net_pnl, net_roi, notes,
	risk_amount, r_multiple, setup_tag, confidence_score`

func (j *PostgresTradeJournal) InsertOpenTrade(ctx context.Context, rec *domain.TradeRecord) (int64, error) {
	if rec == nil {
		return 0, errors.New("nil record")
	}

	var ref int64
	err := j.pool.QueryRow(ctx, `
		insert into trades(
			date, symbol, num_shares, buy_price, position_size,
			sell_date, sell_price, net_pnl, net_roi, notes,
			risk_amount, r_multiple, setup_tag, confidence_score
		) values ($1,$2,$3,$4,$5,null,0,0,0,$6,$7,$8,$9,$10)
		returning ref
	`,
		rec.Date,
		rec.Symbol,
		rec.NumShares,
		rec.BuyPrice,
		rec.PositionSize,
		rec.Notes,
		rec.RiskAmount,
		rec.RMultiple,
		rec.SetupTag,
		rec.ConfidenceScore,
	).Scan(&ref)
	if err != nil {
		return 0, err
	}

	rec.Ref = ref
	return ref, nil
}

func (j *PostgresTradeJournal) ListOpenTrades(ctx context.Context) ([]*domain.TradeRecord, error) {
	rows, err := j.pool.Query(ctx, `
		select `+tradeColumns+`
		from trades
		where sell_date is null and sell_price = 0
		order by ref
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*domain.TradeRecord, 0)
	for rows.Next() {
		rec, scanErr := scanTradeRecord(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (j *PostgresTradeJournal) UpdateClosedTrade(ctx context.Context, upd domain.ClosedUpdate) error {
	tag, err := j.pool.Exec(ctx, `
		update trades set
			sell_date = $2,
			sell_price = $3,
			net_pnl = $4,
			net_roi = $5
		where ref = $1 and sell_date is null and sell_price = 0
	`, upd.Ref, upd.SellDate, upd.SellPrice, upd.NetPnl, upd.NetRoi)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("no open trade with that ref")
	}
	return nil
}

func (j *PostgresTradeJournal) ListRecentTrades(ctx context.Context, limit int) ([]*domain.TradeRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := j.pool.Query(ctx, `
		select `+tradeColumns+`
		from trades
		order by ref desc
		limit $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*domain.TradeRecord, 0)
	for rows.Next() {
		rec, scanErr := scanTradeRecord(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Helpers

type scanner interface {
	Scan(dest ...any) error
}

func scanTradeRecord(s scanner) (*domain.TradeRecord, error) {
	var rec domain.TradeRecord
	var sellDate pgtype.Date

	if err := s.Scan(
		&rec.Ref,
		&rec.Date,
		&rec.Symbol,
		&rec.NumShares,
		&rec.BuyPrice,
		&rec.PositionSize,
		&sellDate,
		&rec.SellPrice,
		&rec.NetPnl,
		&rec.NetRoi,
		&rec.Notes,
		&rec.RiskAmount,
		&rec.RMultiple,
		&rec.SetupTag,
		&rec.ConfidenceScore,
	); err != nil {
		return nil, err
	}

	if sellDate.Valid {
		v := sellDate.Time
		rec.SellDate = &v
	}

	return &rec, nil
}

// compile-time check
var _ domain.TradeJournal = (*PostgresTradeJournal)(nil)
