package engine

import (
	"encoding/json"
	"sort"

	"github.com/suriya1233/smart-reconciliation-system/internal/models"
)

// RuleType enumerates the recognized matching strategies.
type RuleType string

const (
	RuleExactMatch     RuleType = "exact_match"
	RulePartialMatch   RuleType = "partial_match"
	RuleDuplicateCheck RuleType = "duplicate_check"
	RuleCustom         RuleType = "custom"
)

// DefaultVariance is the partial-match tolerance applied when a rule carries
// no valid variance of its own.
const DefaultVariance = 0.02

// ParseRuleType maps a stored type string to a RuleType. Unrecognized types
// degrade to RuleCustom, which the rule walk treats as a no-op.
func ParseRuleType(s string) RuleType {
	switch t := RuleType(s); t {
	case RuleExactMatch, RulePartialMatch, RuleDuplicateCheck, RuleCustom:
		return t
	default:
		return RuleCustom
	}
}

// Rule is the engine's view of a matching rule, decoupled from storage.
// Fields is informational; the matchers hardcode behavior per type.
type Rule struct {
	Name        string
	Type        RuleType
	Description string
	Fields      []string
	Variance    float64
	Enabled     bool
	Order       int
}

// FromModel converts a stored rule into its engine form, normalizing bad
// configuration instead of failing: unknown types act as custom and a
// variance outside [0,1] falls back to DefaultVariance.
func FromModel(m models.ReconciliationRule) Rule {
	r := Rule{
		Name:        m.Name,
		Type:        ParseRuleType(m.Type),
		Description: m.Description,
		Variance:    m.Variance,
		Enabled:     m.Enabled,
		Order:       m.Order,
	}
	if len(m.Fields) > 0 {
		_ = json.Unmarshal(m.Fields, &r.Fields)
	}
	if r.Variance < 0 || r.Variance > 1 {
		r.Variance = DefaultVariance
	}
	return r
}

// FromModels converts a stored rule set in order.
func FromModels(ms []models.ReconciliationRule) []Rule {
	rules := make([]Rule, 0, len(ms))
	for _, m := range ms {
		rules = append(rules, FromModel(m))
	}
	return rules
}

// sortEnabled drops disabled rules and orders the rest by Order ascending.
// The sort is stable so rules sharing an Order keep their input position.
func sortEnabled(rules []Rule) []Rule {
	active := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.Enabled {
			active = append(active, r)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Order < active[j].Order
	})
	return active
}
