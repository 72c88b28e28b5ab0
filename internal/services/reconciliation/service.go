// Package reconciliation orchestrates batch runs: it persists uploaded
// records, invokes the matching engine, and stores results so each batch
// becomes visible to readers all at once.
package reconciliation

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/suriya1233/smart-reconciliation-system/internal/engine"
	"github.com/suriya1233/smart-reconciliation-system/internal/models"
	"github.com/suriya1233/smart-reconciliation-system/internal/repository"
	"github.com/suriya1233/smart-reconciliation-system/internal/services/audit"
)

type Service struct {
	db              *gorm.DB
	transactionRepo *repository.TransactionRepository
	ruleRepo        *repository.RuleRepository
	resultRepo      *repository.ResultRepository
	audit           *audit.Service
	log             *zap.Logger
	progressCache   sync.Map // batchID -> *Progress
}

type Progress struct {
	ProcessedCount int    `json:"processed_count"`
	Total          int    `json:"total"`
	Status         string `json:"status"`
}

func NewService(
	db *gorm.DB,
	transactionRepo *repository.TransactionRepository,
	ruleRepo *repository.RuleRepository,
	resultRepo *repository.ResultRepository,
	auditSvc *audit.Service,
	log *zap.Logger,
) *Service {
	return &Service{
		db:              db,
		transactionRepo: transactionRepo,
		ruleRepo:        ruleRepo,
		resultRepo:      resultRepo,
		audit:           auditSvc,
		log:             log,
	}
}

// CreateBatch registers a new upload batch in the processing state.
func (s *Service) CreateBatch(filename string) (*models.UploadBatch, error) {
	batch := &models.UploadBatch{
		ID:        uuid.New(),
		Filename:  filename,
		Status:    models.BatchProcessing,
		StartedAt: time.Now(),
		CreatedAt: time.Now(),
	}
	if err := s.db.Create(batch).Error; err != nil {
		return nil, fmt.Errorf("create batch: %w", err)
	}
	s.progressCache.Store(batch.ID, &Progress{Status: models.BatchProcessing})
	return batch, nil
}

// ProcessBatch reconciles one batch of parsed records. The uploaded records,
// their results, and the batch counters are committed in a single database
// transaction so downstream readers never observe a half-settled batch.
func (s *Service) ProcessBatch(batch *models.UploadBatch, records []models.Transaction, actor string) (engine.Stats, error) {
	now := time.Now()
	for i := range records {
		records[i].ID = uuid.New()
		records[i].Source = models.SourceUpload
		records[i].UploadBatchID = &batch.ID
		records[i].CreatedAt = now
	}

	system, err := s.transactionRepo.SystemRecords()
	if err != nil {
		s.failBatch(batch.ID)
		return engine.Stats{}, fmt.Errorf("load system records: %w", err)
	}

	ruleModels, err := s.ruleRepo.ListEnabled()
	if err != nil {
		s.failBatch(batch.ID)
		return engine.Stats{}, fmt.Errorf("load rules: %w", err)
	}

	results := engine.Reconcile(records, system, engine.FromModels(ruleModels), batch.ID)
	stats := engine.Summarize(results)

	rows := make([]models.ReconciliationResult, 0, len(results))
	for _, res := range results {
		rows = append(rows, toModel(res))
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.transactionRepo.CreateBatchRecords(tx, records); err != nil {
			return fmt.Errorf("store uploaded records: %w", err)
		}
		if err := s.resultRepo.InsertBatch(tx, rows); err != nil {
			return fmt.Errorf("store results: %w", err)
		}
		return tx.Model(&models.UploadBatch{}).
			Where("id = ?", batch.ID).
			Updates(map[string]interface{}{
				"total_records":           stats.Total,
				"matched_count":           stats.Matched,
				"partially_matched_count": stats.PartiallyMatched,
				"not_matched_count":       stats.NotMatched,
				"duplicate_count":         stats.Duplicates,
				"status":                  models.BatchCompleted,
				"completed_at":            time.Now(),
			}).Error
	})
	if err != nil {
		s.failBatch(batch.ID)
		return engine.Stats{}, err
	}

	s.progressCache.Store(batch.ID, &Progress{
		ProcessedCount: stats.Total,
		Total:          stats.Total,
		Status:         models.BatchCompleted,
	})

	s.audit.Log(audit.Entry{
		RecordID:    batch.ID.String(),
		PerformedBy: actor,
		Action:      models.AuditActionReconcile,
		Source:      "upload",
		Changes: []audit.Change{
			{Field: "records_uploaded", NewValue: stats.Total},
		},
		Metadata: map[string]any{
			"filename":           batch.Filename,
			"matched":            stats.Matched,
			"partially_matched":  stats.PartiallyMatched,
			"not_matched":        stats.NotMatched,
			"duplicates":         stats.Duplicates,
			"match_rate":         stats.MatchRate,
			"average_confidence": stats.AverageConfidence,
		},
	})

	s.log.Info("batch reconciled",
		zap.String("batch_id", batch.ID.String()),
		zap.Int("total", stats.Total),
		zap.Int("match_rate", stats.MatchRate))

	return stats, nil
}

func (s *Service) failBatch(batchID uuid.UUID) {
	s.progressCache.Store(batchID, &Progress{Status: models.BatchFailed})
	if err := s.db.Model(&models.UploadBatch{}).
		Where("id = ?", batchID).
		Update("status", models.BatchFailed).Error; err != nil {
		s.log.Warn("mark batch failed", zap.String("batch_id", batchID.String()), zap.Error(err))
	}
}

// Progress reports batch progress, preferring the in-memory cache and
// falling back to the stored batch row.
func (s *Service) Progress(batchID uuid.UUID) (*Progress, error) {
	if val, ok := s.progressCache.Load(batchID); ok {
		return val.(*Progress), nil
	}
	batch, err := s.GetBatch(batchID)
	if err != nil {
		return nil, err
	}
	return &Progress{
		ProcessedCount: batch.TotalRecords,
		Total:          batch.TotalRecords,
		Status:         batch.Status,
	}, nil
}

func (s *Service) GetBatch(batchID uuid.UUID) (*models.UploadBatch, error) {
	var batch models.UploadBatch
	if err := s.db.First(&batch, "id = ?", batchID).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

// BatchStats recomputes the batch summary from its stored results.
func (s *Service) BatchStats(batchID uuid.UUID) (engine.Stats, error) {
	rows, err := s.resultRepo.ByBatch(batchID)
	if err != nil {
		return engine.Stats{}, err
	}
	results := make([]engine.Result, 0, len(rows))
	for _, row := range rows {
		results = append(results, fromModel(row))
	}
	return engine.Summarize(results), nil
}

// Correction carries the editable fields of an uploaded record; nil fields
// are left untouched.
type Correction struct {
	TransactionID   *string          `json:"transaction_id"`
	Amount          *decimal.Decimal `json:"amount"`
	ReferenceNumber *string          `json:"reference_number"`
	Date            *time.Time       `json:"date"`
	Description     *string          `json:"description"`
	Category        *string          `json:"category"`
	Vendor          *string          `json:"vendor"`
}

// CorrectResult applies a manual correction to the uploaded record behind a
// result, re-evaluates that single record against the current system
// snapshot, and overwrites the stored result.
func (s *Service) CorrectResult(resultID uuid.UUID, correction Correction, actor string) (*models.ReconciliationResult, error) {
	result, err := s.resultRepo.GetByID(resultID)
	if err != nil {
		return nil, fmt.Errorf("load result: %w", err)
	}
	record, err := s.transactionRepo.GetByID(result.UploadedRecordID)
	if err != nil {
		return nil, fmt.Errorf("load uploaded record: %w", err)
	}

	changes := applyCorrection(record, correction)
	if err := s.transactionRepo.Save(record); err != nil {
		return nil, fmt.Errorf("save corrected record: %w", err)
	}

	ruleModels, err := s.ruleRepo.ListEnabled()
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}

	verdict, err := engine.ReconcileOne(*record, engine.FromModels(ruleModels), s.transactionRepo)
	if err != nil {
		return nil, fmt.Errorf("re-evaluate record: %w", err)
	}

	now := time.Now()
	updated := toModel(verdict)
	updated.ID = result.ID
	updated.CreatedAt = result.CreatedAt
	updated.ReviewedBy = actor
	updated.ReviewedAt = &now
	if err := s.resultRepo.Save(&updated); err != nil {
		return nil, fmt.Errorf("save result: %w", err)
	}

	s.audit.Log(audit.Entry{
		RecordID:    resultID.String(),
		PerformedBy: actor,
		Action:      models.AuditActionManualEdit,
		Source:      "manual",
		Changes:     changes,
	})
	return &updated, nil
}

// ApproveResult marks a result as resolved via manual review.
func (s *Service) ApproveResult(resultID uuid.UUID, actor string) (*models.ReconciliationResult, error) {
	return s.review(resultID, actor, models.AuditActionApprove, func(r *models.ReconciliationResult) {
		r.Status = string(engine.StatusMatched)
		r.Confidence = 100
		r.IsResolved = true
	})
}

// RejectResult sends a result back for review. This is the only path that
// produces the pending_review status; the engine never assigns it.
func (s *Service) RejectResult(resultID uuid.UUID, actor string) (*models.ReconciliationResult, error) {
	return s.review(resultID, actor, models.AuditActionReject, func(r *models.ReconciliationResult) {
		r.Status = string(engine.StatusPendingReview)
		r.IsResolved = false
	})
}

func (s *Service) review(resultID uuid.UUID, actor, action string, mutate func(*models.ReconciliationResult)) (*models.ReconciliationResult, error) {
	result, err := s.resultRepo.GetByID(resultID)
	if err != nil {
		return nil, err
	}

	oldStatus := result.Status
	now := time.Now()
	mutate(result)
	result.ReviewedBy = actor
	result.ReviewedAt = &now
	if err := s.resultRepo.Save(result); err != nil {
		return nil, err
	}

	s.audit.Log(audit.Entry{
		RecordID:    resultID.String(),
		PerformedBy: actor,
		Action:      action,
		Source:      "manual",
		Changes: []audit.Change{
			{Field: "status", OldValue: oldStatus, NewValue: result.Status},
		},
	})
	return result, nil
}

func applyCorrection(record *models.Transaction, c Correction) []audit.Change {
	var changes []audit.Change
	change := func(field string, oldValue, newValue any, apply func()) {
		changes = append(changes, audit.Change{Field: field, OldValue: oldValue, NewValue: newValue})
		apply()
	}

	if c.TransactionID != nil && *c.TransactionID != record.TransactionID {
		change("transactionId", record.TransactionID, *c.TransactionID, func() { record.TransactionID = *c.TransactionID })
	}
	if c.Amount != nil && !c.Amount.Equal(record.Amount) {
		change("amount", record.Amount.String(), c.Amount.String(), func() { record.Amount = *c.Amount })
	}
	if c.ReferenceNumber != nil && *c.ReferenceNumber != record.ReferenceNumber {
		change("referenceNumber", record.ReferenceNumber, *c.ReferenceNumber, func() { record.ReferenceNumber = *c.ReferenceNumber })
	}
	if c.Date != nil && !c.Date.Equal(record.Date) {
		change("date", record.Date, *c.Date, func() { record.Date = *c.Date })
	}
	if c.Description != nil && *c.Description != record.Description {
		change("description", record.Description, *c.Description, func() { record.Description = *c.Description })
	}
	if c.Category != nil && *c.Category != record.Category {
		change("category", record.Category, *c.Category, func() { record.Category = *c.Category })
	}
	if c.Vendor != nil && *c.Vendor != record.Vendor {
		change("vendor", record.Vendor, *c.Vendor, func() { record.Vendor = *c.Vendor })
	}
	return changes
}

// toModel converts an engine verdict into its stored form.
func toModel(res engine.Result) models.ReconciliationResult {
	row := models.ReconciliationResult{
		ID:               uuid.New(),
		UploadedRecordID: res.UploadedRecordID,
		SystemRecordID:   res.SystemRecordID,
		Status:           string(res.Status),
		MatchedBy:        res.MatchedBy,
		Confidence:       res.Confidence,
		UploadBatchID:    res.UploadBatchID,
		IsResolved:       res.IsResolved,
		CreatedAt:        time.Now(),
	}
	if len(res.MismatchedFields) > 0 {
		if data, err := json.Marshal(res.MismatchedFields); err == nil {
			row.MismatchedFields = data
		}
	}
	return row
}

// fromModel converts a stored result back into engine form for aggregation.
func fromModel(row models.ReconciliationResult) engine.Result {
	res := engine.Result{
		UploadedRecordID: row.UploadedRecordID,
		SystemRecordID:   row.SystemRecordID,
		Status:           engine.Status(row.Status),
		MatchedBy:        row.MatchedBy,
		Confidence:       row.Confidence,
		UploadBatchID:    row.UploadBatchID,
		IsResolved:       row.IsResolved,
	}
	if len(row.MismatchedFields) > 0 {
		_ = json.Unmarshal(row.MismatchedFields, &res.MismatchedFields)
	}
	return res
}
