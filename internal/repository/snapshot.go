package repository

import (
	"context"

	"github.com/ErlanBelekov/data-drive/internal/domain"
)

// SnapshotRepository is append-only: snapshots are never updated or deleted.
type SnapshotRepository interface {
	InsertBatch(ctx context.Context, snapshots []domain.Snapshot) (int, error)
	Latest(ctx context.Context, limit int) ([]*domain.Snapshot, error)
	CoinSeries(ctx context.Context, coinID string) ([]*domain.SeriesPoint, error)
}
