package reconciliation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suriya1233/smart-reconciliation-system/internal/engine"
	"github.com/suriya1233/smart-reconciliation-system/internal/models"
	"github.com/suriya1233/smart-reconciliation-system/internal/repository"
)

func TestToModelFromModel(t *testing.T) {
	systemID := uuid.New()
	verdict := engine.Result{
		UploadedRecordID: uuid.New(),
		SystemRecordID:   &systemID,
		Status:           engine.StatusPartiallyMatched,
		MatchedBy:        engine.LabelPartialMatch,
		MismatchedFields: []string{"transactionId", "amount"},
		Confidence:       99,
		UploadBatchID:    uuid.New(),
	}

	row := toModel(verdict)
	assert.NotEqual(t, uuid.Nil, row.ID)
	assert.Equal(t, "partially_matched", row.Status)
	assert.JSONEq(t, `["transactionId","amount"]`, string(row.MismatchedFields))

	back := fromModel(row)
	assert.Equal(t, verdict, back)
}

func TestToModel_NoMatch(t *testing.T) {
	row := toModel(engine.Result{
		UploadedRecordID: uuid.New(),
		Status:           engine.StatusNotMatched,
		UploadBatchID:    uuid.New(),
	})

	assert.Nil(t, row.SystemRecordID)
	assert.Empty(t, row.MismatchedFields)
	assert.False(t, row.IsResolved)
}

func TestApplyCorrection(t *testing.T) {
	date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	record := &models.Transaction{
		TransactionID:   "TXN-1",
		Amount:          decimal.NewFromFloat(100.00),
		ReferenceNumber: "REF-1",
		Date:            date,
		Vendor:          "Acme",
	}

	newID := "TXN-2"
	newAmount := decimal.NewFromFloat(150.00)
	sameVendor := "Acme"
	changes := applyCorrection(record, Correction{
		TransactionID: &newID,
		Amount:        &newAmount,
		Vendor:        &sameVendor, // unchanged, must not be reported
	})

	assert.Equal(t, "TXN-2", record.TransactionID)
	assert.True(t, record.Amount.Equal(newAmount))
	assert.Equal(t, "REF-1", record.ReferenceNumber)

	require.Len(t, changes, 2)
	assert.Equal(t, "transactionId", changes[0].Field)
	assert.Equal(t, "TXN-1", changes[0].OldValue)
	assert.Equal(t, "TXN-2", changes[0].NewValue)
	assert.Equal(t, "amount", changes[1].Field)
}

func TestApplyCorrection_NoFields(t *testing.T) {
	record := &models.Transaction{TransactionID: "TXN-1"}

	changes := applyCorrection(record, Correction{})

	assert.Empty(t, changes)
	assert.Equal(t, "TXN-1", record.TransactionID)
}

func TestToDailyStat(t *testing.T) {
	row := repository.DailyCount{
		Day:     time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Total:   3,
		Matched: 1,
	}

	stat := toDailyStat(row)
	assert.Equal(t, "Mar 14", stat.Date)
	assert.Equal(t, 33.3, stat.Accuracy)

	empty := toDailyStat(repository.DailyCount{Day: row.Day})
	assert.Equal(t, 0.0, empty.Accuracy)
}
