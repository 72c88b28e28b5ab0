package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/suriya1233/smart-reconciliation-system/internal/models"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(entry *models.AuditLog) error {
	return r.db.Create(entry).Error
}

// AuditFilter narrows an audit listing.
type AuditFilter struct {
	RecordID string
	Action   string
	Start    *time.Time
	End      *time.Time
	Page     int
	Limit    int
}

// List returns audit entries newest-first with offset pagination, plus the
// total row count for the filter.
func (r *AuditRepository) List(f AuditFilter) ([]models.AuditLog, int64, error) {
	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := r.db.Model(&models.AuditLog{})
	if f.RecordID != "" {
		query = query.Where("record_id = ?", f.RecordID)
	}
	if f.Action != "" {
		query = query.Where("action = ?", f.Action)
	}
	if f.Start != nil {
		query = query.Where("created_at >= ?", *f.Start)
	}
	if f.End != nil {
		query = query.Where("created_at <= ?", *f.End)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.AuditLog
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&logs).Error
	return logs, total, err
}
