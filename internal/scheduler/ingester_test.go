package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ErlanBelekov/data-drive/internal/domain"
	"github.com/ErlanBelekov/data-drive/internal/usecase"
)

type fakeMarket struct {
	ingest func(ctx context.Context, input usecase.IngestInput) (*domain.IngestResult, error)
}

func (f *fakeMarket) Ingest(ctx context.Context, input usecase.IngestInput) (*domain.IngestResult, error) {
	return f.ingest(ctx, input)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewIngester_InvalidCron(t *testing.T) {
	_, err := NewIngester(&fakeMarket{}, discardLogger(), "not a cron", "https://x")
	if err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}

func TestComputeNext_SkipsMissedRuns(t *testing.T) {
	ing, err := NewIngester(&fakeMarket{}, discardLogger(), "*/5 * * * *", "https://x")
	if err != nil {
		t.Fatalf("new ingester: %v", err)
	}
	now := time.Date(2026, 1, 1, 12, 17, 30, 0, time.UTC)
	ing.now = func() time.Time { return now }

	got := ing.computeNext(now.Add(-time.Hour))
	want := time.Date(2026, 1, 1, 12, 20, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("computeNext = %v, want %v", got, want)
	}
}

func TestRunOnce_UsesCronTriggerAndURL(t *testing.T) {
	var got usecase.IngestInput
	market := &fakeMarket{
		ingest: func(_ context.Context, input usecase.IngestInput) (*domain.IngestResult, error) {
			got = input
			return &domain.IngestResult{RecordsIngested: 3}, nil
		},
	}
	ing, err := NewIngester(market, discardLogger(), "@hourly", "https://api.example.com/markets")
	if err != nil {
		t.Fatalf("new ingester: %v", err)
	}

	ing.RunOnce(context.Background())

	if got.Trigger != usecase.TriggerCron {
		t.Errorf("trigger = %q, want cron", got.Trigger)
	}
	if got.URL != "https://api.example.com/markets" {
		t.Errorf("url = %q", got.URL)
	}
}

func TestRunOnce_ErrorDoesNotPanic(t *testing.T) {
	market := &fakeMarket{
		ingest: func(_ context.Context, _ usecase.IngestInput) (*domain.IngestResult, error) {
			return nil, errors.New("boom")
		},
	}
	ing, err := NewIngester(market, discardLogger(), "@hourly", "https://x")
	if err != nil {
		t.Fatalf("new ingester: %v", err)
	}
	ing.RunOnce(context.Background())
}

func TestStart_ReturnsOnCancel(t *testing.T) {
	ing, err := NewIngester(&fakeMarket{}, discardLogger(), "@hourly", "https://x")
	if err != nil {
		t.Fatalf("new ingester: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ing.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
