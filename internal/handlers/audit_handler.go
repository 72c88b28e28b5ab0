package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/suriya1233/smart-reconciliation-system/internal/repository"
	"github.com/suriya1233/smart-reconciliation-system/internal/services/audit"
)

type AuditHandler struct {
	service *audit.Service
}

func NewAuditHandler(svc *audit.Service) *AuditHandler {
	return &AuditHandler{service: svc}
}

func (h *AuditHandler) List(c *gin.Context) {
	filter := repository.AuditFilter{
		RecordID: c.Query("record_id"),
		Action:   c.Query("action"),
	}
	if raw := c.Query("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil {
			filter.Page = page
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			filter.Limit = limit
		}
	}
	if raw := c.Query("start_date"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.Start = &t
		}
	}
	if raw := c.Query("end_date"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			end := t.Add(24*time.Hour - time.Nanosecond)
			filter.End = &end
		}
	}

	logs, total, err := h.service.List(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": logs, "total": total})
}

func (h *AuditHandler) ListByRecord(c *gin.Context) {
	recordID := c.Param("recordId")
	if recordID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "record ID is required"})
		return
	}

	logs, total, err := h.service.List(repository.AuditFilter{RecordID: recordID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": logs, "total": total})
}
