package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Audit actions.
const (
	AuditActionUpload     = "upload"
	AuditActionReconcile  = "reconcile"
	AuditActionManualEdit = "manual_edit"
	AuditActionApprove    = "approve"
	AuditActionReject     = "reject"
	AuditActionCreate     = "create"
	AuditActionUpdate     = "update"
	AuditActionDelete     = "delete"
)

// AuditLog records one state change. Changes holds a JSON array of
// {field, old_value, new_value} entries.
type AuditLog struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	RecordID    string         `gorm:"index:idx_audit_record_time" json:"record_id"`
	PerformedBy string         `json:"performed_by"`
	Action      string         `gorm:"index" json:"action"`
	Changes     datatypes.JSON `json:"changes,omitempty"`
	Source      string         `json:"source"`
	Metadata    datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt   time.Time      `gorm:"index:idx_audit_record_time" json:"created_at"`
}
