package domain

import (
	"errors"
	"time"
)

var (
	ErrUpstream  = errors.New("market data source error")
	ErrNotAList  = errors.New("expected a list of market objects")
	ErrBadSource = errors.New("invalid market data url")
)

// Snapshot is one coin's market state captured by a single ingest run.
// Numeric fields are nil when the source omitted them.
type Snapshot struct {
	ID                int64
	CoinID            string
	Symbol            string
	Name              string
	CurrentPrice      *float64
	MarketCap         *float64
	TotalVolume       *float64
	PriceChange24h    *float64
	PriceChangePct24h *float64
	High24h           *float64
	Low24h            *float64
	CirculatingSupply *float64
	MaxSupply         *float64
	ATH               *float64
	ATHChangePct      *float64
	Timestamp         time.Time
}

type SeriesPoint struct {
	Timestamp    time.Time
	CurrentPrice *float64
	MarketCap    *float64
	TotalVolume  *float64
}

type IngestResult struct {
	RecordsIngested int
	Timestamp       time.Time
}
