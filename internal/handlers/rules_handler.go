package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/suriya1233/smart-reconciliation-system/internal/engine"
	"github.com/suriya1233/smart-reconciliation-system/internal/models"
	"github.com/suriya1233/smart-reconciliation-system/internal/repository"
	"github.com/suriya1233/smart-reconciliation-system/internal/services/audit"
)

type RulesHandler struct {
	repo  *repository.RuleRepository
	audit *audit.Service
}

func NewRulesHandler(repo *repository.RuleRepository, auditSvc *audit.Service) *RulesHandler {
	return &RulesHandler{repo: repo, audit: auditSvc}
}

type rulePayload struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Fields      []string `json:"fields"`
	Variance    float64  `json:"variance"`
	Enabled     *bool    `json:"enabled"`
	Order       int      `json:"order"`
}

func (h *RulesHandler) List(c *gin.Context) {
	rules, err := h.repo.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rules})
}

func (h *RulesHandler) Create(c *gin.Context) {
	var payload rulePayload
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if payload.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rule name is required"})
		return
	}

	rule := models.ReconciliationRule{
		ID:          uuid.New(),
		Name:        payload.Name,
		Type:        string(engine.ParseRuleType(payload.Type)),
		Description: payload.Description,
		Variance:    payload.Variance,
		Enabled:     payload.Enabled == nil || *payload.Enabled,
		Order:       payload.Order,
		CreatedAt:   time.Now(),
	}
	if len(payload.Fields) > 0 {
		if data, err := json.Marshal(payload.Fields); err == nil {
			rule.Fields = data
		}
	}

	if err := h.repo.Create(&rule); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.audit.Log(audit.Entry{
		RecordID:    rule.ID.String(),
		PerformedBy: actor(c),
		Action:      models.AuditActionCreate,
		Source:      "api",
		Changes:     []audit.Change{{Field: "rule", NewValue: rule.Name}},
	})
	c.JSON(http.StatusCreated, gin.H{"data": rule})
}

func (h *RulesHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rule ID"})
		return
	}

	rule, err := h.repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "rule not found"})
		return
	}

	var payload rulePayload
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if payload.Name != "" {
		rule.Name = payload.Name
	}
	if payload.Type != "" {
		rule.Type = string(engine.ParseRuleType(payload.Type))
	}
	rule.Description = payload.Description
	rule.Variance = payload.Variance
	rule.Order = payload.Order
	if payload.Enabled != nil {
		rule.Enabled = *payload.Enabled
	}
	if len(payload.Fields) > 0 {
		if data, err := json.Marshal(payload.Fields); err == nil {
			rule.Fields = data
		}
	}

	if err := h.repo.Save(rule); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.audit.Log(audit.Entry{
		RecordID:    rule.ID.String(),
		PerformedBy: actor(c),
		Action:      models.AuditActionUpdate,
		Source:      "api",
		Changes:     []audit.Change{{Field: "rule", NewValue: rule.Name}},
	})
	c.JSON(http.StatusOK, gin.H{"data": rule})
}

func (h *RulesHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rule ID"})
		return
	}

	if err := h.repo.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.audit.Log(audit.Entry{
		RecordID:    id.String(),
		PerformedBy: actor(c),
		Action:      models.AuditActionDelete,
		Source:      "api",
	})
	c.JSON(http.StatusOK, gin.H{"message": "rule deleted"})
}
