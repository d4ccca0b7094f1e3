package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/data-drive/internal/domain"
	"github.com/ErlanBelekov/data-drive/internal/marketdata"
	"github.com/ErlanBelekov/data-drive/internal/metrics"
	"github.com/ErlanBelekov/data-drive/internal/repository"
)

const (
	DefaultReportLimit = 50
	MaxReportLimit     = 500
)

type Trigger string

const (
	TriggerAPI  Trigger = "api"
	TriggerCron Trigger = "cron"
)

type MarketFetcher interface {
	Fetch(ctx context.Context, url string) ([]marketdata.Coin, error)
}

type MarketUsecase struct {
	repo    repository.SnapshotRepository
	fetcher MarketFetcher
	now     func() time.Time
}

func NewMarketUsecase(repo repository.SnapshotRepository, fetcher MarketFetcher) *MarketUsecase {
	return &MarketUsecase{repo: repo, fetcher: fetcher, now: time.Now}
}

type IngestInput struct {
	URL     string
	Trigger Trigger
}

// Ingest fetches one listing and stores it as a batch of snapshots sharing a
// single timestamp, which is what Latest groups by.
func (u *MarketUsecase) Ingest(ctx context.Context, input IngestInput) (*domain.IngestResult, error) {
	if input.Trigger == "" {
		input.Trigger = TriggerAPI
	}

	start := time.Now()
	coins, err := u.fetcher.Fetch(ctx, input.URL)
	metrics.IngestFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.IngestRunsTotal.WithLabelValues(string(input.Trigger), "fetch_error").Inc()
		return nil, fmt.Errorf("fetch market data: %w", err)
	}

	ts := u.now().UTC().Truncate(time.Microsecond)
	snapshots := make([]domain.Snapshot, len(coins))
	for i, c := range coins {
		snapshots[i] = snapshotFromCoin(c, ts)
	}

	n, err := u.repo.InsertBatch(ctx, snapshots)
	if err != nil {
		metrics.IngestRunsTotal.WithLabelValues(string(input.Trigger), "store_error").Inc()
		return nil, fmt.Errorf("store snapshots: %w", err)
	}

	metrics.SnapshotsIngestedTotal.Add(float64(n))
	metrics.IngestRunsTotal.WithLabelValues(string(input.Trigger), "success").Inc()
	return &domain.IngestResult{RecordsIngested: n, Timestamp: ts}, nil
}

// Latest returns the newest batch ordered by market cap. limit is clamped to
// [1, MaxReportLimit]; zero or negative means DefaultReportLimit.
func (u *MarketUsecase) Latest(ctx context.Context, limit int) ([]*domain.Snapshot, error) {
	switch {
	case limit <= 0:
		limit = DefaultReportLimit
	case limit > MaxReportLimit:
		limit = MaxReportLimit
	}

	snapshots, err := u.repo.Latest(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("latest snapshots: %w", err)
	}
	return snapshots, nil
}

func (u *MarketUsecase) CoinSeries(ctx context.Context, coinID string) ([]*domain.SeriesPoint, error) {
	points, err := u.repo.CoinSeries(ctx, coinID)
	if err != nil {
		return nil, fmt.Errorf("coin series: %w", err)
	}
	return points, nil
}

// IsClientError reports whether err came from the caller-supplied source
// rather than from this service.
func IsClientError(err error) bool {
	return errors.Is(err, domain.ErrUpstream) ||
		errors.Is(err, domain.ErrNotAList) ||
		errors.Is(err, domain.ErrBadSource)
}

func snapshotFromCoin(c marketdata.Coin, ts time.Time) domain.Snapshot {
	return domain.Snapshot{
		CoinID:            c.ID,
		Symbol:            c.Symbol,
		Name:              c.Name,
		CurrentPrice:      c.CurrentPrice,
		MarketCap:         c.MarketCap,
		TotalVolume:       c.TotalVolume,
		PriceChange24h:    c.PriceChange24h,
		PriceChangePct24h: c.PriceChangePercentage24h,
		High24h:           c.High24h,
		Low24h:            c.Low24h,
		CirculatingSupply: c.CirculatingSupply,
		MaxSupply:         c.MaxSupply,
		ATH:               c.ATH,
		ATHChangePct:      c.ATHChangePercentage,
		Timestamp:         ts,
	}
}
