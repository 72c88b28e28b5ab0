package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/suriya1233/smart-reconciliation-system/internal/models"
)

type ResultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// InsertBatch stores a batch's results on the given transaction handle so
// the batch becomes visible all-or-nothing.
func (r *ResultRepository) InsertBatch(tx *gorm.DB, results []models.ReconciliationResult) error {
	if len(results) == 0 {
		return nil
	}
	return tx.CreateInBatches(results, 500).Error
}

func (r *ResultRepository) GetByID(id uuid.UUID) (*models.ReconciliationResult, error) {
	var result models.ReconciliationResult
	if err := r.db.First(&result, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *ResultRepository) Save(result *models.ReconciliationResult) error {
	return r.db.Save(result).Error
}

// ByBatch returns every result of one batch in insertion order.
func (r *ResultRepository) ByBatch(batchID uuid.UUID) ([]models.ReconciliationResult, error) {
	var results []models.ReconciliationResult
	err := r.db.Where("upload_batch_id = ?", batchID).Order("created_at ASC, id ASC").Find(&results).Error
	return results, err
}

// ResultFilter narrows a result listing.
type ResultFilter struct {
	BatchID    *uuid.UUID
	Status     string
	IsResolved *bool
	Cursor     string
	Limit      int
}

// List pages through results with cursor pagination, returning the page, the
// next cursor, and whether more rows remain.
func (r *ResultRepository) List(f ResultFilter) ([]models.ReconciliationResult, string, bool, error) {
	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := r.db.Order("id ASC").Limit(limit + 1)
	if f.BatchID != nil {
		query = query.Where("upload_batch_id = ?", *f.BatchID)
	}
	if f.Status != "" && f.Status != "all" {
		query = query.Where("status = ?", f.Status)
	}
	if f.IsResolved != nil {
		query = query.Where("is_resolved = ?", *f.IsResolved)
	}
	if f.Cursor != "" {
		query = query.Where("id > ?", f.Cursor)
	}

	var results []models.ReconciliationResult
	if err := query.Find(&results).Error; err != nil {
		return nil, "", false, err
	}

	hasMore := false
	var nextCursor string
	if len(results) > limit {
		hasMore = true
		results = results[:limit]
		nextCursor = results[limit-1].ID.String()
	}
	return results, nextCursor, hasMore, nil
}

// StatusCount is one row of a grouped status tally.
type StatusCount struct {
	Status string
	Count  int64
}

// CountByStatus tallies results per status, optionally scoped to one batch.
func (r *ResultRepository) CountByStatus(batchID *uuid.UUID) ([]StatusCount, error) {
	query := r.db.Model(&models.ReconciliationResult{}).
		Select("status, COUNT(*) as count").
		Group("status")
	if batchID != nil {
		query = query.Where("upload_batch_id = ?", *batchID)
	}

	var rows []StatusCount
	err := query.Scan(&rows).Error
	return rows, err
}

// DailyCount is one day's grouped status tally for trend reporting.
type DailyCount struct {
	Day              time.Time `gorm:"column:day"`
	Total            int64
	Matched          int64
	PartiallyMatched int64
	NotMatched       int64
	Duplicates       int64
}

// CountByDay buckets results per calendar day inside [start, end].
func (r *ResultRepository) CountByDay(start, end time.Time) ([]DailyCount, error) {
	var rows []DailyCount
	err := r.db.Model(&models.ReconciliationResult{}).
		Select(`DATE_TRUNC('day', created_at) AS day,
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'matched') AS matched,
			COUNT(*) FILTER (WHERE status = 'partially_matched') AS partially_matched,
			COUNT(*) FILTER (WHERE status = 'not_matched') AS not_matched,
			COUNT(*) FILTER (WHERE status = 'duplicate') AS duplicates`).
		Where("created_at BETWEEN ? AND ?", start, end).
		Group("day").
		Order("day ASC").
		Scan(&rows).Error
	return rows, err
}
