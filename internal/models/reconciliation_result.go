package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ReconciliationResult struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UploadedRecordID uuid.UUID      `gorm:"index" json:"uploaded_record_id"`
	SystemRecordID   *uuid.UUID     `json:"system_record_id,omitempty"`
	Status           string         `gorm:"index:idx_result_batch_status" json:"status"`
	MatchedBy        string         `json:"matched_by,omitempty"`
	MismatchedFields datatypes.JSON `json:"mismatched_fields,omitempty"`
	Confidence       int            `json:"confidence"`
	UploadBatchID    uuid.UUID      `gorm:"index:idx_result_batch_status" json:"upload_batch_id"`
	ReviewedBy       string         `json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time     `json:"reviewed_at,omitempty"`
	Notes            string         `json:"notes,omitempty"`
	IsResolved       bool           `gorm:"index" json:"is_resolved"`
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}
