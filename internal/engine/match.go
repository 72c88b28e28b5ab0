package engine

import (
	"github.com/shopspring/decimal"

	"github.com/suriya1233/smart-reconciliation-system/internal/models"
)

// Match labels reported on results.
const (
	LabelExactMatch   = "Exact Match"
	LabelPartialMatch = "Partial Match (Reference)"
)

// amountTolerance absorbs rounding noise when comparing amounts. It is a
// fixed policy, not rule configuration.
var amountTolerance = decimal.NewFromFloat(0.01)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// outcome is a successful matcher verdict.
type outcome struct {
	system           *models.Transaction
	mismatchedFields []string
	confidence       int
}

// matchExact looks the uploaded record up by transaction ID and requires the
// amounts to agree within amountTolerance.
func matchExact(up *models.Transaction, idx Indexes) (outcome, bool) {
	if up.TransactionID == "" {
		return outcome{}, false
	}
	sys, ok := idx.ByTransactionID[up.TransactionID]
	if !ok {
		return outcome{}, false
	}
	if sys.Amount.Sub(up.Amount).Abs().GreaterThanOrEqual(amountTolerance) {
		return outcome{}, false
	}
	return outcome{system: sys, confidence: 100}, true
}

// matchPartial looks the uploaded record up by reference number and accepts
// it when the relative amount variance is within tolerance (inclusive).
// Records without a reference number are ineligible, and a system amount of
// zero is a no-match rather than a division fault.
func matchPartial(up *models.Transaction, idx Indexes, tolerance float64) (outcome, bool) {
	if up.ReferenceNumber == "" {
		return outcome{}, false
	}
	sys, ok := idx.ByReferenceNumber[up.ReferenceNumber]
	if !ok {
		return outcome{}, false
	}
	if sys.Amount.IsZero() {
		return outcome{}, false
	}

	variance := sys.Amount.Sub(up.Amount).Abs().Div(sys.Amount)
	if variance.GreaterThan(decimal.NewFromFloat(tolerance)) {
		return outcome{}, false
	}

	confidence := int(one.Sub(variance).Mul(hundred).Round(0).IntPart())
	if confidence < 0 {
		confidence = 0
	}

	return outcome{
		system:           sys,
		mismatchedFields: mismatchedFields(up, sys),
		confidence:       confidence,
	}, true
}

// mismatchedFields compares transaction ID, amount, and date between the
// uploaded record and its partial-match candidate.
func mismatchedFields(up, sys *models.Transaction) []string {
	var fields []string
	if sys.TransactionID != up.TransactionID {
		fields = append(fields, "transactionId")
	}
	if sys.Amount.Sub(up.Amount).Abs().GreaterThan(amountTolerance) {
		fields = append(fields, "amount")
	}
	if !sys.Date.Equal(up.Date) {
		fields = append(fields, "date")
	}
	return fields
}
