package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dtnitsch/aspect-analyzer/models"
	"github.com/dtnitsch/aspect-analyzer/pkg/analytics"
	"github.com/dtnitsch/aspect-analyzer/pkg/aspects"
	"github.com/dtnitsch/aspect-analyzer/pkg/export"
	"github.com/dtnitsch/aspect-analyzer/pkg/loader"
)

type handler struct {
	ws     *Workspace
	logger *slog.Logger
	topN   int
}

// uploadBody returns the multipart "file" part when present, else the raw
// request body.
func uploadBody(ctx *gin.Context) (io.ReadCloser, string, error) {
	if strings.HasPrefix(ctx.ContentType(), "multipart/form-data") {
		fh, err := ctx.FormFile("file")
		if err != nil {
			return nil, "", errors.New("no file part in the request")
		}
		if fh.Filename == "" {
			return nil, "", errors.New("no selected file")
		}
		f, err := fh.Open()
		if err != nil {
			return nil, "", err
		}
		return f, fh.Filename, nil
	}
	if ctx.Request.Body == nil || ctx.Request.ContentLength == 0 {
		return nil, "", errors.New("empty request body")
	}
	return ctx.Request.Body, "request-body", nil
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func (h *handler) uploadCategories(format loader.Format) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		body, name, err := uploadBody(ctx)
		if err != nil {
			ErrorResponse(ctx, http.StatusBadRequest, "INVALID_UPLOAD", err.Error())
			return
		}
		defer body.Close()

		ds, id, err := h.ws.LoadCategories(body, format, "upload:"+name)
		if err != nil {
			var le *loader.LoadError
			if errors.As(err, &le) {
				ErrorResponse(ctx, http.StatusBadRequest, "INVALID_DATA", err.Error())
				return
			}
			h.logger.Error("Failed to store upload", "file", name, "error", err)
			ErrorResponse(ctx, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
			return
		}

		h.logger.Info("Categories uploaded", "file", name, "format", format, "rows", len(ds.Records), "dataset_id", id)
		ctx.JSON(http.StatusOK, gin.H{
			"message":    "Category data uploaded successfully",
			"rows":       len(ds.Records),
			"dataset_id": id,
		})
	}
}

func (h *handler) uploadReviews(ctx *gin.Context) {
	body, name, err := uploadBody(ctx)
	if err != nil {
		ErrorResponse(ctx, http.StatusBadRequest, "INVALID_UPLOAD", err.Error())
		return
	}
	defer body.Close()

	n, err := h.ws.LoadReviews(body)
	if err != nil {
		ErrorResponse(ctx, http.StatusBadRequest, "INVALID_DATA", err.Error())
		return
	}
	h.logger.Info("Reviews uploaded", "file", name, "rows", n)
	ctx.JSON(http.StatusOK, gin.H{
		"message": "File uploaded successfully",
		"rows":    n,
	})
}

func (h *handler) categoryAnalytics(ctx *gin.Context) {
	ds, id, ok := h.ws.Categories()
	if !ok {
		noData(ctx, "category data")
		return
	}

	params := struct {
		Order string `form:"order"`
		Limit int    `form:"limit" binding:"omitempty,min=0"`
	}{}
	if err := ctx.ShouldBindQuery(&params); err != nil {
		ErrorResponse(ctx, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	order, err := models.ParseOrder(params.Order)
	if err != nil {
		ErrorResponse(ctx, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}

	a := h.ws.Analyzer()
	freq := a.Frequency(ds, order)
	if params.Limit > 0 && params.Limit < len(freq) {
		freq = freq[:params.Limit]
	}
	ctx.JSON(http.StatusOK, gin.H{
		"dataset_id": id,
		"summary":    a.Summary(ds),
		"frequency":  freq,
		"count":      len(freq),
	})
}

func (h *handler) categoryMatrix(ctx *gin.Context) {
	ds, _, ok := h.ws.Categories()
	if !ok {
		noData(ctx, "category data")
		return
	}

	params := struct {
		MaxAspects    *int   `form:"max_aspects" binding:"omitempty,min=1"`
		MaxCategories *int   `form:"max_categories" binding:"omitempty,min=1"`
		Format        string `form:"format" binding:"omitempty,oneof=json csv"`
	}{}
	if err := ctx.ShouldBindQuery(&params); err != nil {
		ErrorResponse(ctx, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}

	// Absent caps fall back to the matrix defaults; present ones must be positive.
	m := h.ws.Analyzer().Matrix(ds, aspects.MatrixOptions{MaxAspects: intOrZero(params.MaxAspects), MaxCategories: intOrZero(params.MaxCategories)})
	if m == nil {
		noData(ctx, "category data")
		return
	}

	if params.Format == "csv" {
		ctx.Header("Content-Disposition", `attachment; filename="aspect_category_matrix.csv"`)
		ctx.Header("Content-Type", "text/csv; charset=utf-8")
		ctx.Status(http.StatusOK)
		if err := export.WriteCSV(ctx.Writer, export.MatrixTable(m)); err != nil {
			h.logger.Error("Failed to write matrix CSV", "error", err)
		}
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"matrix":     m,
		"aspects":    len(m.Rows),
		"categories": len(m.Columns),
	})
}

func (h *handler) categoriesWithoutAspects(ctx *gin.Context) {
	ds, _, ok := h.ws.Categories()
	if !ok {
		noData(ctx, "category data")
		return
	}
	empty := aspects.WithoutAspects(ds.Records)
	SuccessResponse(ctx, "categories", empty, len(empty))
}

func (h *handler) distribution(ctx *gin.Context) {
	ds, _, ok := h.ws.Categories()
	if !ok {
		noData(ctx, "category data")
		return
	}
	params := struct {
		Bins *int `form:"bins" binding:"omitempty,min=1,max=200"`
	}{}
	if err := ctx.ShouldBindQuery(&params); err != nil {
		ErrorResponse(ctx, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	freq := h.ws.Analyzer().Frequency(ds, models.OrderDescending)
	d := aspects.Distribution(freq, intOrZero(params.Bins))
	if d == nil {
		noData(ctx, "aspects")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"distribution": d})
}

func (h *handler) categoryDetail(ctx *gin.Context) {
	ds, _, ok := h.ws.Categories()
	if !ok {
		noData(ctx, "category data")
		return
	}
	name := ctx.Param("name")
	rec, found := aspects.FindCategory(ds.Records, name)
	if !found {
		ErrorResponse(ctx, http.StatusNotFound, "NOT_FOUND", "category "+name+" not found")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"category":      rec,
		"aspects_count": rec.AspectsCount,
		"breakdown":     aspects.Breakdown(rec),
	})
}

func (h *handler) reviewAnalytics(ctx *gin.Context) {
	stats, total, ok := h.ws.ReviewStats()
	if !ok {
		noData(ctx, "review data")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"total_reviews":  total,
		"analysis":       stats,
		"pivot":          analytics.Pivot(stats),
		"top_aspects":    analytics.TopAspects(stats, h.topN),
		"low_percentage": analytics.LowPercentage(stats),
		"unique_aspects": analytics.UniqueAspectsPerCategory(stats),
	})
}
