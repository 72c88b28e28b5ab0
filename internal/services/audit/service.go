// Package audit writes the audit trail. Every state change in the system
// passes through here; a failed audit write is logged and swallowed so it
// can never abort the operation it describes.
package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/suriya1233/smart-reconciliation-system/internal/models"
	"github.com/suriya1233/smart-reconciliation-system/internal/repository"
)

// Change captures one field transition.
type Change struct {
	Field    string `json:"field"`
	OldValue any    `json:"old_value,omitempty"`
	NewValue any    `json:"new_value,omitempty"`
}

// Entry is one auditable event.
type Entry struct {
	RecordID    string
	PerformedBy string
	Action      string
	Changes     []Change
	Source      string
	Metadata    map[string]any
}

type Service struct {
	repo *repository.AuditRepository
	log  *zap.Logger
}

func NewService(repo *repository.AuditRepository, log *zap.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Log persists one audit entry. Errors are reported to the logger only.
func (s *Service) Log(e Entry) {
	entry := &models.AuditLog{
		ID:          uuid.New(),
		RecordID:    e.RecordID,
		PerformedBy: e.PerformedBy,
		Action:      e.Action,
		Source:      e.Source,
		CreatedAt:   time.Now(),
	}
	if len(e.Changes) > 0 {
		if data, err := json.Marshal(e.Changes); err == nil {
			entry.Changes = data
		}
	}
	if len(e.Metadata) > 0 {
		if data, err := json.Marshal(e.Metadata); err == nil {
			entry.Metadata = data
		}
	}

	if err := s.repo.Create(entry); err != nil {
		s.log.Warn("audit write failed",
			zap.String("record_id", e.RecordID),
			zap.String("action", e.Action),
			zap.Error(err))
	}
}

// List exposes the trail for the audit timeline view.
func (s *Service) List(f repository.AuditFilter) ([]models.AuditLog, int64, error) {
	return s.repo.List(f)
}
