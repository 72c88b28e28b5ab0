package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ReconciliationRule is the stored form of a matching rule. Fields holds a
// JSON array of field names; it is informational (UI/documentation) and the
// matchers do not consult it.
type ReconciliationRule struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string         `gorm:"uniqueIndex" json:"name"`
	Type        string         `json:"type"`
	Description string         `json:"description"`
	Fields      datatypes.JSON `json:"fields,omitempty"`
	Variance    float64        `json:"variance"`
	Enabled     bool           `gorm:"index:idx_rule_enabled_order" json:"enabled"`
	Order       int            `gorm:"column:rule_order;index:idx_rule_enabled_order" json:"order"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
