package models

import (
	"time"

	"github.com/google/uuid"
)

// Batch lifecycle states.
const (
	BatchProcessing = "processing"
	BatchCompleted  = "completed"
	BatchFailed     = "failed"
)

type UploadBatch struct {
	ID                    uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Filename              string     `json:"filename"`
	TotalRecords          int        `json:"total_records"`
	MatchedCount          int        `json:"matched_count"`
	PartiallyMatchedCount int        `json:"partially_matched_count"`
	NotMatchedCount       int        `json:"not_matched_count"`
	DuplicateCount        int        `json:"duplicate_count"`
	Status                string     `gorm:"index" json:"status"`
	StartedAt             time.Time  `json:"started_at"`
	CompletedAt           *time.Time `json:"completed_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
}
