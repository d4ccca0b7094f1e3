package httptransport

import (
	"log/slog"

	"github.com/ErlanBelekov/data-drive/internal/transport/http/handler"
	"github.com/ErlanBelekov/data-drive/internal/transport/http/middleware"
	"github.com/ErlanBelekov/data-drive/internal/usecase"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(
	logger *slog.Logger,
	authUsecase *usecase.AuthUsecase,
	marketUsecase *usecase.MarketUsecase,
	allowedOrigins []string,
	hsts bool,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security(hsts))
	r.Use(middleware.CORS(allowedOrigins))
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	authHandler := handler.NewAuthHandler(authUsecase, logger)
	marketHandler := handler.NewMarketHandler(marketUsecase, logger)
	authMW := middleware.Auth(authUsecase)

	r.GET("/", handler.Root)

	auth := r.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)

	// Protected ingestion
	r.POST("/ingest", authMW, marketHandler.Ingest)

	report := r.Group("/report")
	report.GET("/latest", marketHandler.Latest)
	report.GET("/coin/:coin_id", marketHandler.CoinSeries)

	return r
}
