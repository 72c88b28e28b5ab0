package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/suriya1233/smart-reconciliation-system/internal/repository"
	service "github.com/suriya1233/smart-reconciliation-system/internal/services/reconciliation"
	"github.com/suriya1233/smart-reconciliation-system/internal/services/upload"
)

type ReconciliationHandler struct {
	service *service.Service
	log     *zap.Logger
}

func NewReconciliationHandler(svc *service.Service, log *zap.Logger) *ReconciliationHandler {
	return &ReconciliationHandler{service: svc, log: log}
}

// Upload accepts a CSV file, parses it, and reconciles the batch.
func (h *ReconciliationHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}

	var mapping *upload.ColumnMapping
	if raw := c.PostForm("mapping"); raw != "" {
		mapping = &upload.ColumnMapping{}
		if err := json.Unmarshal([]byte(raw), mapping); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid column mapping"})
			return
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	records, report, err := upload.ParseCSV(file, mapping)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(records) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no valid records found in file"})
		return
	}

	fileStats := upload.Stats(records)

	batch, err := h.service.CreateBatch(fileHeader.Filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	stats, err := h.service.ProcessBatch(batch, records, actor(c))
	if err != nil {
		h.log.Error("batch processing failed", zap.String("batch_id", batch.ID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "file uploaded and reconciled",
		"batch_id":   batch.ID,
		"statistics": stats,
		"file_stats": fileStats,
		"parse":      report,
	})
}

func (h *ReconciliationHandler) GetBatchProgress(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("batchId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid batch ID"})
		return
	}

	progress, err := h.service.Progress(batchID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "batch not found"})
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (h *ReconciliationHandler) GetBatchStats(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("batchId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid batch ID"})
		return
	}

	stats, err := h.service.BatchStats(batchID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stats})
}

func (h *ReconciliationHandler) ListResults(c *gin.Context) {
	filter := repository.ResultFilter{
		Status: c.Query("status"),
		Cursor: c.Query("cursor"),
	}
	if raw := c.Query("batch_id"); raw != "" {
		batchID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid batch ID"})
			return
		}
		filter.BatchID = &batchID
	}
	if raw := c.Query("is_resolved"); raw != "" {
		resolved := raw == "true"
		filter.IsResolved = &resolved
	}
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			filter.Limit = limit
		}
	}

	results, nextCursor, hasMore, err := h.service.ListResults(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":        results,
		"next_cursor": nextCursor,
		"has_more":    hasMore,
	})
}

func (h *ReconciliationHandler) GetResult(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid result ID"})
		return
	}

	result, err := h.service.GetResult(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "result not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

// CorrectResult applies a manual correction and re-reconciles the record.
func (h *ReconciliationHandler) CorrectResult(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid result ID"})
		return
	}

	var correction service.Correction
	if err := c.BindJSON(&correction); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	result, err := h.service.CorrectResult(id, correction, actor(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "correction applied", "data": result})
}

func (h *ReconciliationHandler) ApproveResult(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid result ID"})
		return
	}

	result, err := h.service.ApproveResult(id, actor(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "result approved", "data": result})
}

func (h *ReconciliationHandler) RejectResult(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid result ID"})
		return
	}

	result, err := h.service.RejectResult(id, actor(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "result sent to review", "data": result})
}

func (h *ReconciliationHandler) GetStatistics(c *gin.Context) {
	if raw := c.Query("batch_id"); raw != "" {
		batchID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid batch ID"})
			return
		}
		stats, err := h.service.BatchStats(batchID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": stats})
		return
	}

	counts, err := h.service.GlobalStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": counts})
}

func (h *ReconciliationHandler) GetHistoricalStatistics(c *gin.Context) {
	days := 7
	if raw := c.Query("days"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			days = n
		}
	}

	end := time.Now()
	start := end.AddDate(0, 0, -days)
	if raw := c.Query("start_date"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			start = t
		}
	}
	if raw := c.Query("end_date"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			end = t.Add(24*time.Hour - time.Nanosecond)
		}
	}

	stats, err := h.service.HistoricalStats(start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stats})
}

// actor resolves who performed the request. Authentication is owned by the
// deployment's gateway; it forwards the user in a header.
func actor(c *gin.Context) string {
	if user := c.GetHeader("X-User"); user != "" {
		return user
	}
	return "system"
}
