package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/suriya1233/smart-reconciliation-system/internal/engine"
	"github.com/suriya1233/smart-reconciliation-system/internal/models"
)

type RuleRepository struct {
	db *gorm.DB
}

func NewRuleRepository(db *gorm.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

// ListEnabled returns the active rule set in application order. This is the
// snapshot a reconciliation run works from.
func (r *RuleRepository) ListEnabled() ([]models.ReconciliationRule, error) {
	var rules []models.ReconciliationRule
	err := r.db.Where("enabled = ?", true).Order("rule_order ASC").Find(&rules).Error
	return rules, err
}

func (r *RuleRepository) List() ([]models.ReconciliationRule, error) {
	var rules []models.ReconciliationRule
	err := r.db.Order("rule_order ASC").Find(&rules).Error
	return rules, err
}

func (r *RuleRepository) GetByID(id uuid.UUID) (*models.ReconciliationRule, error) {
	var rule models.ReconciliationRule
	if err := r.db.First(&rule, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *RuleRepository) Create(rule *models.ReconciliationRule) error {
	return r.db.Create(rule).Error
}

func (r *RuleRepository) Save(rule *models.ReconciliationRule) error {
	return r.db.Save(rule).Error
}

func (r *RuleRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.ReconciliationRule{}, "id = ?", id).Error
}

// EnsureDefaults seeds the standard rule set on an empty table so a fresh
// install reconciles sensibly out of the box.
func (r *RuleRepository) EnsureDefaults() error {
	var count int64
	if err := r.db.Model(&models.ReconciliationRule{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	defaults := []models.ReconciliationRule{
		{
			ID:          uuid.New(),
			Name:        "Exact Match",
			Type:        string(engine.RuleExactMatch),
			Description: "Match by transaction ID with identical amounts",
			Enabled:     true,
			Order:       1,
			CreatedAt:   now,
		},
		{
			ID:          uuid.New(),
			Name:        "Partial Match",
			Type:        string(engine.RulePartialMatch),
			Description: "Match by reference number within amount variance",
			Variance:    engine.DefaultVariance,
			Enabled:     true,
			Order:       2,
			CreatedAt:   now,
		},
		{
			ID:          uuid.New(),
			Name:        "Duplicate Check",
			Type:        string(engine.RuleDuplicateCheck),
			Description: "Flag repeated transaction IDs within one batch",
			Enabled:     true,
			Order:       3,
			CreatedAt:   now,
		},
	}
	return r.db.Create(&defaults).Error
}
