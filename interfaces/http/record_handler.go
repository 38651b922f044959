package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ytcollector/domain/model"
	"ytcollector/domain/repository"
	"ytcollector/infrastructure/utils"
	"ytcollector/usecase"

	"github.com/gin-gonic/gin"
)

const quotaDateLayout = "2006-01-02"

// IRecordHandler serves the collected data read-only.
type IRecordHandler interface {
	ListVideos(ctx *gin.Context)
	GetVideo(ctx *gin.Context)
	ListVideoComments(ctx *gin.Context)
	GetQuota(ctx *gin.Context)
	ExportTable(ctx *gin.Context)
}

// RecordHandler implements IRecordHandler.
type RecordHandler struct {
	recordUseCase usecase.IRecordUseCase
	exportUseCase usecase.IExportUseCase
}

func NewRecordHandler(recordUseCase usecase.IRecordUseCase, exportUseCase usecase.IExportUseCase) IRecordHandler {
	return &RecordHandler{
		recordUseCase: recordUseCase,
		exportUseCase: exportUseCase,
	}
}

// ListVideos handles GET /api/videos?limit=&offset=
func (h *RecordHandler) ListVideos(ctx *gin.Context) {
	filter, err := parseFilter(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid paging", "message": err.Error()})
		return
	}

	videos, err := h.recordUseCase.ListVideos(ctx.Request.Context(), filter)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list videos", "message": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": videos})
}

// GetVideo handles GET /api/videos/:videoId
func (h *RecordHandler) GetVideo(ctx *gin.Context) {
	videoID := ctx.Param("videoId")

	video, err := h.recordUseCase.GetVideo(ctx.Request.Context(), videoID)
	if err != nil {
		var notFound *model.NotFoundError
		if errors.As(err, &notFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Video not found", "message": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get video", "message": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": video})
}

// ListVideoComments handles GET /api/videos/:videoId/comments?limit=&offset=
func (h *RecordHandler) ListVideoComments(ctx *gin.Context) {
	filter, err := parseFilter(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid paging", "message": err.Error()})
		return
	}

	comments, err := h.recordUseCase.ListComments(ctx.Request.Context(), ctx.Param("videoId"), filter)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list comments", "message": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": comments})
}

// GetQuota handles GET /api/quota/:date where date is YYYY-MM-DD or "today".
func (h *RecordHandler) GetQuota(ctx *gin.Context) {
	raw := ctx.Param("date")
	date := utils.GetCurrentTime()
	if raw != "today" {
		parsed, err := time.Parse(quotaDateLayout, raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Date must be YYYY-MM-DD", "message": err.Error()})
			return
		}
		date = parsed
	}

	remaining, err := h.recordUseCase.GetQuota(ctx.Request.Context(), date)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read quota", "message": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"date": date.Format(quotaDateLayout), "remaining": remaining},
	})
}

// ExportTable handles GET /export/:file where file is <table>.csv. The
// optional videoId query narrows tables that carry that column.
func (h *RecordHandler) ExportTable(ctx *gin.Context) {
	file := ctx.Param("file")
	table, ok := strings.CutSuffix(file, ".csv")
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Only .csv exports are served"})
		return
	}
	if _, known := model.LookupTable(table); !known {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Unknown table", "message": table})
		return
	}

	ctx.Header("Content-Type", "text/csv; charset=utf-8")
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file))
	ctx.Status(http.StatusOK)
	filter := repository.RecordFilter{VideoID: ctx.Query("videoId")}
	if _, err := h.exportUseCase.WriteTable(ctx.Request.Context(), ctx.Writer, table, filter); err != nil {
		// Headers are gone by now; abort so the client sees a truncated body.
		_ = ctx.Error(err)
		ctx.Abort()
	}
}

func parseFilter(ctx *gin.Context) (repository.RecordFilter, error) {
	var filter repository.RecordFilter
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return filter, fmt.Errorf("limit %q", raw)
		}
		filter.Limit = n
	}
	if raw := ctx.Query("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return filter, fmt.Errorf("offset %q", raw)
		}
		filter.Offset = n
	}
	return filter, nil
}
