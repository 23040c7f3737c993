package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse aborts the request with a JSON error body.
func ErrorResponse(ctx *gin.Context, status int, code, message string) {
	ctx.AbortWithStatusJSON(status, gin.H{
		"code":    code,
		"message": message,
	})
}

// SuccessResponse writes data under key together with an item count.
func SuccessResponse(ctx *gin.Context, key string, data any, count int) {
	ctx.JSON(http.StatusOK, gin.H{
		key:     data,
		"count": count,
	})
}

func noData(ctx *gin.Context, what string) {
	ErrorResponse(ctx, http.StatusNotFound, "NO_DATA", "no "+what+" loaded, upload data first")
}
