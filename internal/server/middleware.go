package server

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// APIKeyHeader carries the shared API key.
const APIKeyHeader = "X-API-Key"

// apiKeyAuth rejects requests without the configured key. An empty key
// disables authentication.
func apiKeyAuth(key string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if key == "" {
			ctx.Next()
			return
		}
		got := ctx.GetHeader(APIKeyHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			ErrorResponse(ctx, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid "+APIKeyHeader+" header")
			return
		}
		ctx.Next()
	}
}

// requestLogger logs one line per request.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		level := slog.LevelInfo
		if ctx.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(ctx.Request.Context(), level, "Request handled",
			"method", ctx.Request.Method,
			"path", ctx.FullPath(),
			"status", ctx.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", ctx.ClientIP(),
		)
	}
}
