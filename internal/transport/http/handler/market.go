package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ErlanBelekov/data-drive/internal/domain"
	"github.com/ErlanBelekov/data-drive/internal/usecase"
	"github.com/gin-gonic/gin"
)

type marketUsecaser interface {
	Ingest(ctx context.Context, input usecase.IngestInput) (*domain.IngestResult, error)
	Latest(ctx context.Context, limit int) ([]*domain.Snapshot, error)
	CoinSeries(ctx context.Context, coinID string) ([]*domain.SeriesPoint, error)
}

type MarketHandler struct {
	marketUsecase marketUsecaser
	logger        *slog.Logger
}

func NewMarketHandler(marketUsecase marketUsecaser, logger *slog.Logger) *MarketHandler {
	return &MarketHandler{marketUsecase: marketUsecase, logger: logger.With("component", "market_handler")}
}

type ingestRequest struct {
	URL string `json:"url" binding:"required,max=2048"`
}

type ingestResponse struct {
	Status          string    `json:"status"`
	RecordsIngested int       `json:"records_ingested"`
	Timestamp       time.Time `json:"timestamp"`
}

type snapshotResponse struct {
	ID                int64     `json:"id"`
	CoinID            string    `json:"coin_id"`
	Symbol            string    `json:"symbol"`
	Name              string    `json:"name"`
	CurrentPrice      *float64  `json:"current_price"`
	MarketCap         *float64  `json:"market_cap"`
	TotalVolume       *float64  `json:"total_volume"`
	PriceChange24h    *float64  `json:"price_change_24h"`
	PriceChangePct24h *float64  `json:"price_change_pct_24h"`
	High24h           *float64  `json:"high_24h"`
	Low24h            *float64  `json:"low_24h"`
	CirculatingSupply *float64  `json:"circulating_supply"`
	MaxSupply         *float64  `json:"max_supply"`
	ATH               *float64  `json:"ath"`
	ATHChangePct      *float64  `json:"ath_change_pct"`
	Timestamp         time.Time `json:"timestamp"`
}

type seriesPointResponse struct {
	Timestamp    time.Time `json:"timestamp"`
	CurrentPrice *float64  `json:"current_price"`
	MarketCap    *float64  `json:"market_cap"`
	TotalVolume  *float64  `json:"total_volume"`
}

// GET /
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "Data Drive API running"})
}

// POST /ingest (authenticated)
func (h *MarketHandler) Ingest(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidRequest})
		return
	}

	res, err := h.marketUsecase.Ingest(c.Request.Context(), usecase.IngestInput{URL: req.URL, Trigger: usecase.TriggerAPI})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotAList):
			c.JSON(http.StatusBadRequest, gin.H{"error": errNotAList})
		case errors.Is(err, domain.ErrBadSource):
			c.JSON(http.StatusBadRequest, gin.H{"error": errBadSource})
		case errors.Is(err, domain.ErrUpstream):
			h.logger.WarnContext(c.Request.Context(), "ingest upstream", "url", req.URL, "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": errUpstream})
		default:
			h.logger.ErrorContext(c.Request.Context(), "ingest", "url", req.URL, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	h.logger.InfoContext(c.Request.Context(), "ingested market data",
		"records", res.RecordsIngested, "user", c.GetString("userEmail"))

	c.JSON(http.StatusOK, ingestResponse{
		Status:          "success",
		RecordsIngested: res.RecordsIngested,
		Timestamp:       res.Timestamp,
	})
}

// GET /report/latest?limit=
func (h *MarketHandler) Latest(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidLimit})
			return
		}
		limit = n
	}

	snapshots, err := h.marketUsecase.Latest(c.Request.Context(), limit)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "latest report", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	items := make([]snapshotResponse, len(snapshots))
	for i, s := range snapshots {
		items[i] = snapshotResponse{
			ID:                s.ID,
			CoinID:            s.CoinID,
			Symbol:            s.Symbol,
			Name:              s.Name,
			CurrentPrice:      s.CurrentPrice,
			MarketCap:         s.MarketCap,
			TotalVolume:       s.TotalVolume,
			PriceChange24h:    s.PriceChange24h,
			PriceChangePct24h: s.PriceChangePct24h,
			High24h:           s.High24h,
			Low24h:            s.Low24h,
			CirculatingSupply: s.CirculatingSupply,
			MaxSupply:         s.MaxSupply,
			ATH:               s.ATH,
			ATHChangePct:      s.ATHChangePct,
			Timestamp:         s.Timestamp,
		}
	}
	c.JSON(http.StatusOK, items)
}

// GET /report/coin/:coin_id
func (h *MarketHandler) CoinSeries(c *gin.Context) {
	coinID := c.Param("coin_id")

	points, err := h.marketUsecase.CoinSeries(c.Request.Context(), coinID)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "coin series", "coin_id", coinID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	items := make([]seriesPointResponse, len(points))
	for i, p := range points {
		items[i] = seriesPointResponse{
			Timestamp:    p.Timestamp,
			CurrentPrice: p.CurrentPrice,
			MarketCap:    p.MarketCap,
			TotalVolume:  p.TotalVolume,
		}
	}
	c.JSON(http.StatusOK, items)
}
