package reconciliation

import (
	"github.com/google/uuid"

	"github.com/suriya1233/smart-reconciliation-system/internal/models"
	"github.com/suriya1233/smart-reconciliation-system/internal/repository"
)

// ListResults pages through stored results.
func (s *Service) ListResults(f repository.ResultFilter) ([]models.ReconciliationResult, string, bool, error) {
	return s.resultRepo.List(f)
}

func (s *Service) GetResult(id uuid.UUID) (*models.ReconciliationResult, error) {
	return s.resultRepo.GetByID(id)
}
