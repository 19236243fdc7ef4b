package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the minimal tables the bot needs. No external migration
// tool; the schema is small and append-only.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`create table if not exists trades (
			ref bigserial primary key,
			date date not null default current_date,
			symbol text not null,
			num_shares int not null,
			buy_price double precision not null,
			position_size double precision not null,
			sell_date date null,
			sell_price double precision not null default 0,
			net_pnl double precision not null default 0,
			net_roi double precision not null default 0,
			notes text not null default '',
			risk_amount double precision not null default 0,
			r_multiple double precision not null default 1.5,
			setup_tag text not null default '',
			confidence_score double precision not null default 0,
			created_at timestamptz not null default now()
		);`,
		`create index if not exists trades_symbol_idx on trades(symbol);`,
		`create index if not exists trades_open_idx on trades(ref) where sell_date is null and sell_price = 0;`,
		`create table if not exists device_tokens (
			token text primary key,
			platform text not null default '',
			created_at timestamptz not null default now()
		);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
