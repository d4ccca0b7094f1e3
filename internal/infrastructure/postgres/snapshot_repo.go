package postgres

import (
	"context"
	"fmt"

	"github.com/ErlanBelekov/data-drive/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var snapshotColumns = []string{
	"coin_id", "symbol", "name",
	"current_price", "market_cap", "total_volume",
	"price_change_24h", "price_change_pct_24h",
	"high_24h", "low_24h",
	"circulating_supply", "max_supply",
	"ath", "ath_change_pct",
	"captured_at",
}

type SnapshotRepository struct {
	pool *pgxpool.Pool
}

func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

// InsertBatch writes the whole batch with COPY, so a partial ingest is never
// visible to report queries.
func (r *SnapshotRepository) InsertBatch(ctx context.Context, snapshots []domain.Snapshot) (int, error) {
	if len(snapshots) == 0 {
		return 0, nil
	}

	n, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"market_snapshots"},
		snapshotColumns,
		pgx.CopyFromSlice(len(snapshots), func(i int) ([]any, error) {
			s := snapshots[i]
			return []any{
				s.CoinID, s.Symbol, s.Name,
				s.CurrentPrice, s.MarketCap, s.TotalVolume,
				s.PriceChange24h, s.PriceChangePct24h,
				s.High24h, s.Low24h,
				s.CirculatingSupply, s.MaxSupply,
				s.ATH, s.ATHChangePct,
				s.Timestamp,
			}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: copy snapshots: %w", domain.ErrStorage, err)
	}
	return int(n), nil
}

func (r *SnapshotRepository) Latest(ctx context.Context, limit int) ([]*domain.Snapshot, error) {
	query := `
		SELECT id, coin_id, symbol, name,
		       current_price, market_cap, total_volume,
		       price_change_24h, price_change_pct_24h,
		       high_24h, low_24h,
		       circulating_supply, max_supply,
		       ath, ath_change_pct, captured_at
		FROM market_snapshots
		WHERE captured_at = (SELECT MAX(captured_at) FROM market_snapshots)
		ORDER BY market_cap DESC NULLS LAST
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: latest snapshots: %w", domain.ErrStorage, err)
	}
	defer rows.Close()

	snapshots := make([]*domain.Snapshot, 0, limit)
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: latest snapshots: %w", domain.ErrStorage, err)
	}
	return snapshots, nil
}

func (r *SnapshotRepository) CoinSeries(ctx context.Context, coinID string) ([]*domain.SeriesPoint, error) {
	query := `
		SELECT captured_at, current_price, market_cap, total_volume
		FROM market_snapshots
		WHERE coin_id = $1
		ORDER BY captured_at`

	rows, err := r.pool.Query(ctx, query, coinID)
	if err != nil {
		return nil, fmt.Errorf("%w: coin series: %w", domain.ErrStorage, err)
	}
	defer rows.Close()

	var points []*domain.SeriesPoint
	for rows.Next() {
		var p domain.SeriesPoint
		if err := rows.Scan(&p.Timestamp, &p.CurrentPrice, &p.MarketCap, &p.TotalVolume); err != nil {
			return nil, fmt.Errorf("%w: scan series point: %w", domain.ErrStorage, err)
		}
		points = append(points, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: coin series: %w", domain.ErrStorage, err)
	}
	return points, nil
}

func scanSnapshot(row rowScanner) (*domain.Snapshot, error) {
	var s domain.Snapshot
	var coinID, symbol, name *string
	err := row.Scan(
		&s.ID, &coinID, &symbol, &name,
		&s.CurrentPrice, &s.MarketCap, &s.TotalVolume,
		&s.PriceChange24h, &s.PriceChangePct24h,
		&s.High24h, &s.Low24h,
		&s.CirculatingSupply, &s.MaxSupply,
		&s.ATH, &s.ATHChangePct, &s.Timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: scan snapshot: %w", domain.ErrStorage, err)
	}
	s.CoinID = deref(coinID)
	s.Symbol = deref(symbol)
	s.Name = deref(name)
	return &s, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
