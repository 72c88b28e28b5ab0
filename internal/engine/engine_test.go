package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suriya1233/smart-reconciliation-system/internal/models"
)

var testDate = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

func record(txnID string, amount float64, ref string, date time.Time) models.Transaction {
	return models.Transaction{
		ID:              uuid.New(),
		TransactionID:   txnID,
		Amount:          decimal.NewFromFloat(amount),
		ReferenceNumber: ref,
		Date:            date,
	}
}

func defaultRules() []Rule {
	return []Rule{
		{Name: "Exact Match", Type: RuleExactMatch, Enabled: true, Order: 1},
		{Name: "Partial Match", Type: RulePartialMatch, Variance: 0.02, Enabled: true, Order: 2},
		{Name: "Duplicate Check", Type: RuleDuplicateCheck, Enabled: true, Order: 3},
	}
}

func TestReconcile_ExactMatch(t *testing.T) {
	system := []models.Transaction{record("TXN-1", 1000.00, "REF-1", testDate)}
	uploaded := []models.Transaction{record("TXN-1", 1000.00, "", testDate)}
	batchID := uuid.New()

	results := Reconcile(uploaded, system, defaultRules(), batchID)

	require.Len(t, results, 1)
	res := results[0]
	assert.Equal(t, StatusMatched, res.Status)
	assert.Equal(t, 100, res.Confidence)
	assert.Equal(t, LabelExactMatch, res.MatchedBy)
	require.NotNil(t, res.SystemRecordID)
	assert.Equal(t, system[0].ID, *res.SystemRecordID)
	assert.Empty(t, res.MismatchedFields)
	assert.True(t, res.IsResolved)
	assert.Equal(t, batchID, res.UploadBatchID)
	assert.Equal(t, uploaded[0].ID, res.UploadedRecordID)
}

func TestReconcile_PartialMatchByReference(t *testing.T) {
	system := []models.Transaction{record("TXN-1", 1000.00, "REF-1", testDate)}
	uploaded := []models.Transaction{record("TXN-9", 1015.00, "REF-1", testDate)}

	results := Reconcile(uploaded, system, defaultRules(), uuid.New())

	require.Len(t, results, 1)
	res := results[0]
	assert.Equal(t, StatusPartiallyMatched, res.Status)
	assert.Equal(t, 99, res.Confidence) // round((1-0.015)*100)
	assert.Equal(t, LabelPartialMatch, res.MatchedBy)
	assert.Equal(t, []string{"transactionId", "amount"}, res.MismatchedFields)
	assert.False(t, res.IsResolved)
}

func TestReconcile_VarianceAboveTolerance(t *testing.T) {
	system := []models.Transaction{record("TXN-1", 1000.00, "REF-1", testDate)}
	uploaded := []models.Transaction{record("TXN-9", 1050.00, "REF-1", testDate)}

	results := Reconcile(uploaded, system, defaultRules(), uuid.New())

	require.Len(t, results, 1)
	assert.Equal(t, StatusNotMatched, results[0].Status)
	assert.Equal(t, 0, results[0].Confidence)
	assert.Nil(t, results[0].SystemRecordID)
}

func TestReconcile_DuplicateDetection(t *testing.T) {
	system := []models.Transaction{record("TXN-1", 500.00, "", testDate)}
	uploaded := []models.Transaction{
		record("TXN-1", 500.00, "", testDate),
		record("TXN-1", 500.00, "", testDate),
	}

	results := Reconcile(uploaded, system, defaultRules(), uuid.New())

	require.Len(t, results, 2)
	assert.Equal(t, StatusMatched, results[0].Status)
	assert.Equal(t, StatusDuplicate, results[1].Status)
	assert.Equal(t, 100, results[1].Confidence)
	assert.Nil(t, results[1].SystemRecordID)
}

func TestReconcile_DuplicateWinsOverRuleConfiguration(t *testing.T) {
	// Even with every matching rule disabled, a repeated transaction ID is
	// still flagged as a duplicate.
	rules := []Rule{
		{Name: "Exact Match", Type: RuleExactMatch, Enabled: false, Order: 1},
	}
	uploaded := []models.Transaction{
		record("TXN-1", 500.00, "", testDate),
		record("TXN-1", 500.00, "", testDate),
	}

	results := Reconcile(uploaded, nil, rules, uuid.New())

	require.Len(t, results, 2)
	assert.Equal(t, StatusNotMatched, results[0].Status)
	assert.Equal(t, StatusDuplicate, results[1].Status)
}

func TestReconcile_EmptyTransactionIDNeverDuplicates(t *testing.T) {
	uploaded := []models.Transaction{
		record("", 10.00, "", testDate),
		record("", 20.00, "", testDate),
	}

	results := Reconcile(uploaded, nil, defaultRules(), uuid.New())

	require.Len(t, results, 2)
	assert.Equal(t, StatusNotMatched, results[0].Status)
	assert.Equal(t, StatusNotMatched, results[1].Status)
}

func TestReconcile_RulePrecedence(t *testing.T) {
	// Qualifies for both exact and partial match; the lower-ordered rule
	// decides.
	system := []models.Transaction{record("TXN-1", 1000.00, "REF-1", testDate)}
	uploaded := []models.Transaction{record("TXN-1", 1000.00, "REF-1", testDate)}

	results := Reconcile(uploaded, system, defaultRules(), uuid.New())
	require.Len(t, results, 1)
	assert.Equal(t, StatusMatched, results[0].Status)

	// Flip the order and partial match wins instead.
	flipped := []Rule{
		{Name: "Partial Match", Type: RulePartialMatch, Variance: 0.02, Enabled: true, Order: 1},
		{Name: "Exact Match", Type: RuleExactMatch, Enabled: true, Order: 2},
	}
	results = Reconcile(uploaded, system, flipped, uuid.New())
	require.Len(t, results, 1)
	assert.Equal(t, StatusPartiallyMatched, results[0].Status)
}

func TestReconcile_DisabledRuleFallsThrough(t *testing.T) {
	system := []models.Transaction{record("TXN-1", 1000.00, "REF-1", testDate)}
	uploaded := []models.Transaction{record("TXN-1", 1000.00, "REF-1", testDate)}

	rules := []Rule{
		{Name: "Exact Match", Type: RuleExactMatch, Enabled: false, Order: 1},
		{Name: "Partial Match", Type: RulePartialMatch, Variance: 0.02, Enabled: true, Order: 2},
	}

	results := Reconcile(uploaded, system, rules, uuid.New())
	require.Len(t, results, 1)
	assert.Equal(t, StatusPartiallyMatched, results[0].Status)

	// With partial match disabled too, nothing matches.
	rules[1].Enabled = false
	results = Reconcile(uploaded, system, rules, uuid.New())
	require.Len(t, results, 1)
	assert.Equal(t, StatusNotMatched, results[0].Status)
}

func TestReconcile_OutputOrderAndCount(t *testing.T) {
	system := []models.Transaction{record("TXN-2", 50.00, "", testDate)}
	uploaded := []models.Transaction{
		record("TXN-1", 10.00, "", testDate),
		record("TXN-2", 50.00, "", testDate),
		record("TXN-3", 30.00, "", testDate),
	}

	results := Reconcile(uploaded, system, defaultRules(), uuid.New())

	require.Len(t, results, len(uploaded))
	for i, res := range results {
		assert.Equal(t, uploaded[i].ID, res.UploadedRecordID)
	}
}

func TestReconcile_SystemRefPresentIffMatched(t *testing.T) {
	system := []models.Transaction{
		record("TXN-1", 100.00, "REF-1", testDate),
		record("TXN-2", 200.00, "REF-2", testDate),
	}
	uploaded := []models.Transaction{
		record("TXN-1", 100.00, "", testDate),       // matched
		record("TXN-8", 201.00, "REF-2", testDate),  // partially matched
		record("TXN-7", 999.00, "", testDate),       // not matched
		record("TXN-1", 100.00, "", testDate),       // duplicate
	}

	results := Reconcile(uploaded, system, defaultRules(), uuid.New())

	require.Len(t, results, 4)
	for _, res := range results {
		matched := res.Status == StatusMatched || res.Status == StatusPartiallyMatched
		assert.Equal(t, matched, res.SystemRecordID != nil, "status %s", res.Status)
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	system := []models.Transaction{
		record("TXN-1", 100.00, "REF-1", testDate),
		record("TXN-2", 200.00, "REF-2", testDate),
	}
	uploaded := []models.Transaction{
		record("TXN-1", 100.00, "", testDate),
		record("TXN-5", 202.00, "REF-2", testDate),
		record("TXN-1", 100.00, "", testDate),
	}
	batchID := uuid.New()

	first := Reconcile(uploaded, system, defaultRules(), batchID)
	second := Reconcile(uploaded, system, defaultRules(), batchID)

	assert.Equal(t, first, second)
}

func TestReconcile_EmptyInputs(t *testing.T) {
	results := Reconcile(nil, []models.Transaction{record("TXN-1", 1.00, "", testDate)}, defaultRules(), uuid.New())
	assert.Empty(t, results)

	// No system records: nothing can match.
	uploaded := []models.Transaction{
		record("TXN-1", 10.00, "REF-1", testDate),
		record("TXN-1", 10.00, "REF-1", testDate),
	}
	results = Reconcile(uploaded, nil, defaultRules(), uuid.New())
	require.Len(t, results, 2)
	assert.Equal(t, StatusNotMatched, results[0].Status)
	assert.Equal(t, StatusDuplicate, results[1].Status)
}

func TestReconcile_DoesNotMutateInputs(t *testing.T) {
	system := []models.Transaction{record("TXN-1", 1000.00, "REF-1", testDate)}
	uploaded := []models.Transaction{record("TXN-1", 1000.00, "", testDate)}

	sysBefore := system[0]
	upBefore := uploaded[0]

	Reconcile(uploaded, system, defaultRules(), uuid.New())

	assert.Equal(t, sysBefore, system[0])
	assert.Equal(t, upBefore, uploaded[0])
}

type stubSource struct {
	records []models.Transaction
	err     error
	calls   int
}

func (s *stubSource) SystemRecords() ([]models.Transaction, error) {
	s.calls++
	return s.records, s.err
}

func TestReconcileOne_FetchesFreshSnapshot(t *testing.T) {
	batchID := uuid.New()
	corrected := record("TXN-1", 1000.00, "", testDate)
	corrected.UploadBatchID = &batchID

	source := &stubSource{records: []models.Transaction{record("TXN-1", 1000.00, "REF-1", testDate)}}

	res, err := ReconcileOne(corrected, defaultRules(), source)
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)
	assert.Equal(t, StatusMatched, res.Status)
	assert.Equal(t, batchID, res.UploadBatchID)
}

func TestReconcileOne_NoDuplicateContext(t *testing.T) {
	// A record that was flagged as a duplicate in its original batch is
	// re-evaluated against an empty seen-set after correction.
	source := &stubSource{records: []models.Transaction{record("TXN-1", 1000.00, "", testDate)}}

	res, err := ReconcileOne(record("TXN-1", 1000.00, "", testDate), defaultRules(), source)
	require.NoError(t, err)
	assert.Equal(t, StatusMatched, res.Status)
}

func TestReconcileOne_SourceError(t *testing.T) {
	source := &stubSource{err: errors.New("connection refused")}

	_, err := ReconcileOne(record("TXN-1", 1.00, "", testDate), defaultRules(), source)
	assert.Error(t, err)
}
