package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ErlanBelekov/data-drive/internal/domain"
	"github.com/ErlanBelekov/data-drive/internal/usecase"
	"github.com/robfig/cron/v3"
)

type MarketIngester interface {
	Ingest(ctx context.Context, input usecase.IngestInput) (*domain.IngestResult, error)
}

// Ingester pulls INGEST_URL on a cron schedule. Runs never overlap: the next
// fire time is computed after the previous run returns.
type Ingester struct {
	market   MarketIngester
	schedule cron.Schedule
	url      string
	logger   *slog.Logger
	now      func() time.Time
}

func NewIngester(market MarketIngester, logger *slog.Logger, cronExpr, url string) (*Ingester, error) {
	sched, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("parse cron expression %q: %w", cronExpr, err)
	}
	return &Ingester{
		market:   market,
		schedule: sched,
		url:      url,
		logger:   logger.With("component", "ingester"),
		now:      time.Now,
	}, nil
}

func (i *Ingester) Start(ctx context.Context) {
	next := i.computeNext(i.now())
	i.logger.Info("ingester started", "url", i.url, "next_run_at", next)

	for {
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			i.logger.Info("ingester shut down")
			return
		case <-timer.C:
			i.RunOnce(ctx)
			next = i.computeNext(next)
		}
	}
}

// RunOnce performs a single ingest and logs the outcome.
func (i *Ingester) RunOnce(ctx context.Context) {
	res, err := i.market.Ingest(ctx, usecase.IngestInput{URL: i.url, Trigger: usecase.TriggerCron})
	if err != nil {
		if usecase.IsClientError(err) {
			i.logger.WarnContext(ctx, "scheduled ingest: source unavailable", "error", err)
			return
		}
		i.logger.ErrorContext(ctx, "scheduled ingest failed", "error", err)
		return
	}
	i.logger.InfoContext(ctx, "scheduled ingest done", "records", res.RecordsIngested, "timestamp", res.Timestamp)
}

// computeNext returns the next future fire time after from, skipping any runs
// missed while the previous ingest was in flight.
func (i *Ingester) computeNext(from time.Time) time.Time {
	next := i.schedule.Next(from)
	now := i.now()
	for next.Before(now) {
		next = i.schedule.Next(next)
	}
	return next
}
