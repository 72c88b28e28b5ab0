package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"

	"github.com/suriya1233/smart-reconciliation-system/internal/models"
)

func TestParseRuleType(t *testing.T) {
	tests := []struct {
		in   string
		want RuleType
	}{
		{"exact_match", RuleExactMatch},
		{"partial_match", RulePartialMatch},
		{"duplicate_check", RuleDuplicateCheck},
		{"custom", RuleCustom},
		{"fuzzy_match", RuleCustom},
		{"", RuleCustom},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseRuleType(tt.in), "type %q", tt.in)
	}
}

func TestFromModel_NormalizesVariance(t *testing.T) {
	tests := []struct {
		name     string
		variance float64
		want     float64
	}{
		{"valid", 0.05, 0.05},
		{"zero is valid", 0, 0},
		{"upper bound", 1, 1},
		{"negative falls back", -0.1, DefaultVariance},
		{"above one falls back", 1.5, DefaultVariance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromModel(models.ReconciliationRule{Type: "partial_match", Variance: tt.variance})
			assert.Equal(t, tt.want, r.Variance)
		})
	}
}

func TestFromModel_DecodesFields(t *testing.T) {
	m := models.ReconciliationRule{
		Name:   "Exact Match",
		Type:   "exact_match",
		Fields: datatypes.JSON([]byte(`["transactionId","amount"]`)),
	}

	r := FromModel(m)
	assert.Equal(t, []string{"transactionId", "amount"}, r.Fields)
}

func TestSortEnabled_StableOnOrderTies(t *testing.T) {
	rules := []Rule{
		{Name: "C", Type: RuleCustom, Enabled: true, Order: 2},
		{Name: "A", Type: RuleExactMatch, Enabled: true, Order: 1},
		{Name: "B", Type: RulePartialMatch, Enabled: true, Order: 1},
		{Name: "D", Type: RuleDuplicateCheck, Enabled: false, Order: 0},
	}

	active := sortEnabled(rules)

	names := make([]string, 0, len(active))
	for _, r := range active {
		names = append(names, r.Name)
	}
	// Disabled rules are dropped; A and B share an order and keep their
	// input positions.
	assert.Equal(t, []string{"A", "B", "C"}, names)
}
