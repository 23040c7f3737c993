package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dtnitsch/aspect-analyzer/models"
	"github.com/dtnitsch/aspect-analyzer/pkg/loader"
)

// NewRouter wires the upload and analytics routes onto a gin engine.
func NewRouter(ws *Workspace, cfg models.ServerConfig, topN int, logger *slog.Logger) *gin.Engine {
	h := &handler{ws: ws, logger: logger, topN: topN}

	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery())

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api", apiKeyAuth(cfg.APIKey))
	{
		api.POST("/upload", h.uploadReviews)
		api.POST("/upload/review_categories/csv", h.uploadCategories(loader.FormatCSV))
		api.POST("/upload/review_categories/json", h.uploadCategories(loader.FormatJSON))
	}

	analyticsGroup := api.Group("/analytics")
	{
		analyticsGroup.GET("/reviews", h.reviewAnalytics)
		analyticsGroup.GET("/categories", h.categoryAnalytics)
		analyticsGroup.GET("/categories/matrix", h.categoryMatrix)
		analyticsGroup.GET("/categories/empty", h.categoriesWithoutAspects)
		analyticsGroup.GET("/categories/distribution", h.distribution)
		analyticsGroup.GET("/categories/:name", h.categoryDetail)
	}

	return router
}

// Serve runs handler on addr until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("API server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("Shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
