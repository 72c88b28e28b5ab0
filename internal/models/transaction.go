package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Transaction sources. System records are the authoritative set; upload
// records belong to one reconciliation batch.
const (
	SourceSystem = "system"
	SourceUpload = "upload"
)

type Transaction struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	TransactionID   string          `gorm:"index:idx_txn_source" json:"transaction_id"`
	Amount          decimal.Decimal `gorm:"type:numeric(18,2)" json:"amount"`
	ReferenceNumber string          `gorm:"index" json:"reference_number"`
	Date            time.Time       `gorm:"index" json:"date"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	Vendor          string          `json:"vendor"`
	Source          string          `gorm:"index:idx_txn_source" json:"source"`
	UploadBatchID   *uuid.UUID      `gorm:"index" json:"upload_batch_id,omitempty"`
	Metadata        datatypes.JSON  `json:"metadata,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
