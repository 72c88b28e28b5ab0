// Package engine implements the reconciliation core: rule-driven matching of
// uploaded transaction records against a system-of-record snapshot. It holds
// no persistent state; every run builds its own lookup indexes and
// duplicate-tracking set, so concurrent runs for different batches are
// independent by construction.
package engine

import (
	"github.com/google/uuid"

	"github.com/suriya1233/smart-reconciliation-system/internal/models"
)

// Status classifies one uploaded record's reconciliation outcome.
type Status string

const (
	StatusMatched          Status = "matched"
	StatusPartiallyMatched Status = "partially_matched"
	StatusNotMatched       Status = "not_matched"
	StatusDuplicate        Status = "duplicate"
	// StatusPendingReview enters only through the review workflow; the
	// engine never assigns it.
	StatusPendingReview Status = "pending_review"
)

// Result is the engine's verdict for one uploaded record. SystemRecordID is
// set exactly when the status is matched or partially_matched.
type Result struct {
	UploadedRecordID uuid.UUID
	SystemRecordID   *uuid.UUID
	Status           Status
	MatchedBy        string
	MismatchedFields []string
	Confidence       int
	UploadBatchID    uuid.UUID
	IsResolved       bool
}

// SystemSource supplies the current system-of-record snapshot for
// single-record re-evaluation.
type SystemSource interface {
	SystemRecords() ([]models.Transaction, error)
}

// Reconcile matches every uploaded record against the system snapshot and
// returns one Result per record, in input order. Duplicate detection runs
// against a seen-set scoped to this call; the rule walk takes enabled rules
// in ascending order and the first hit wins.
func Reconcile(uploaded, system []models.Transaction, rules []Rule, batchID uuid.UUID) []Result {
	idx := BuildIndexes(system)
	active := sortEnabled(rules)

	seen := make(map[string]struct{}, len(uploaded))
	results := make([]Result, 0, len(uploaded))
	for i := range uploaded {
		results = append(results, reconcileRecord(&uploaded[i], idx, active, seen, batchID))
	}
	return results
}

// ReconcileOne re-evaluates a single corrected record against a freshly
// fetched system snapshot. The original batch's duplicate context is gone by
// then, so a corrected record is never re-flagged as a duplicate; correction
// implies an analyst has already looked at it.
func ReconcileOne(record models.Transaction, rules []Rule, source SystemSource) (Result, error) {
	system, err := source.SystemRecords()
	if err != nil {
		return Result{}, err
	}

	batchID := uuid.Nil
	if record.UploadBatchID != nil {
		batchID = *record.UploadBatchID
	}
	return Reconcile([]models.Transaction{record}, system, rules, batchID)[0], nil
}

func reconcileRecord(up *models.Transaction, idx Indexes, rules []Rule, seen map[string]struct{}, batchID uuid.UUID) Result {
	res := Result{
		UploadedRecordID: up.ID,
		Status:           StatusNotMatched,
		UploadBatchID:    batchID,
	}

	// An empty transaction ID never counts as a repeat of another empty one.
	if up.TransactionID != "" {
		if _, dup := seen[up.TransactionID]; dup {
			res.Status = StatusDuplicate
			res.Confidence = 100
			return res
		}
		seen[up.TransactionID] = struct{}{}
	}

	for _, rule := range rules {
		switch rule.Type {
		case RuleExactMatch:
			if out, ok := matchExact(up, idx); ok {
				recordMatch(&res, StatusMatched, LabelExactMatch, out)
				return res
			}
		case RulePartialMatch:
			if out, ok := matchPartial(up, idx, rule.Variance); ok {
				recordMatch(&res, StatusPartiallyMatched, LabelPartialMatch, out)
				return res
			}
		case RuleDuplicateCheck, RuleCustom:
			// Duplicate detection already ran before the rule walk; custom
			// rules carry no executable logic here.
		}
	}
	return res
}

func recordMatch(res *Result, status Status, label string, out outcome) {
	systemID := out.system.ID
	res.Status = status
	res.SystemRecordID = &systemID
	res.MatchedBy = label
	res.MismatchedFields = out.mismatchedFields
	res.Confidence = out.confidence
	res.IsResolved = status == StatusMatched
}
