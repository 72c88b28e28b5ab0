package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/suriya1233/smart-reconciliation-system/internal/models"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// DB exposes the underlying connection for transactional composition.
func (r *TransactionRepository) DB() *gorm.DB {
	return r.db
}

// SystemRecords loads the full system-of-record snapshot. Satisfies
// engine.SystemSource so single-record re-evaluation always sees current
// system data.
func (r *TransactionRepository) SystemRecords() ([]models.Transaction, error) {
	var records []models.Transaction
	err := r.db.Where("source = ?", models.SourceSystem).Find(&records).Error
	return records, err
}

// CreateBatchRecords inserts the uploaded records of one batch.
func (r *TransactionRepository) CreateBatchRecords(tx *gorm.DB, records []models.Transaction) error {
	if len(records) == 0 {
		return nil
	}
	return tx.CreateInBatches(records, 500).Error
}

func (r *TransactionRepository) GetByID(id uuid.UUID) (*models.Transaction, error) {
	var record models.Transaction
	if err := r.db.First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *TransactionRepository) Save(record *models.Transaction) error {
	return r.db.Save(record).Error
}

// SeedSystemRecord inserts a system record, silently skipping duplicates.
func (r *TransactionRepository) SeedSystemRecord(record *models.Transaction) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(record).Error
}
