// Package scanner implements the pattern-based finding engine: a pure,
// deterministic classifier over contract source text. The engine holds
// no state beyond its rule table and never fails, so it is safe to
// invoke concurrently without synchronization.
package scanner

import (
	"github.com/anshuman444/hacknovation2.0/internal/domain/entity/finding"
)

const (
	baseScore      = 100
	findingPenalty = 20
)

// Report is the full output of one scan.
type Report struct {
	Findings      []finding.Finding          `json:"findings"`
	Optimizations []finding.OptimizationNote `json:"optimizations"`
	Score         int                        `json:"score"`
}

// Engine evaluates an ordered rule table against source text and
// enriches each finding from the signature catalog.
type Engine struct {
	rules   []Rule
	catalog map[finding.Category]finding.SignatureMatch
}

// New creates an engine with the default rule table and catalog.
func New() *Engine {
	return NewWithRules(DefaultRules(), DefaultCatalog())
}

// NewWithRules creates an engine with a custom rule table. Rule order
// determines finding order in the report.
func NewWithRules(rules []Rule, catalog map[finding.Category]finding.SignatureMatch) *Engine {
	return &Engine{rules: rules, catalog: catalog}
}

// Scan classifies the given source. It accepts any input, including the
// empty string; empty-input validation is the caller's concern. When no
// rule fires a single "Secure" sentinel finding is emitted so consumers
// never see an ambiguous empty list.
func (e *Engine) Scan(source string) Report {
	var findings []finding.Finding

	for _, rule := range e.rules {
		if !rule.Matches(source) {
			continue
		}
		f := finding.Finding{
			Category:    rule.Category,
			Severity:    rule.Severity,
			Location:    rule.Location,
			Description: rule.Description,
		}
		if sig, ok := e.catalog[rule.Category]; ok {
			match := sig
			f.SignatureMatch = &match
		}
		findings = append(findings, f)
	}

	score := baseScore - findingPenalty*len(findings)
	if score < 0 {
		score = 0
	}

	if len(findings) == 0 {
		findings = []finding.Finding{{
			Category:    finding.CategorySecure,
			Severity:    finding.SeverityLow,
			Location:    "Global",
			Description: "No obvious patterns found.",
		}}
	}

	return Report{
		Findings:      findings,
		Optimizations: defaultOptimizations(),
		Score:         score,
	}
}

// defaultOptimizations returns the canned suggestion list. At least one
// note is always present; callers rely on that.
func defaultOptimizations() []finding.OptimizationNote {
	return []finding.OptimizationNote{
		{
			Type:       "Storage Efficiency",
			Suggestion: "Deterministic scan suggests packing storage variables.",
		},
		{
			Type:       "Logic Simplification",
			Suggestion: "Deterministic scan suggests consolidating loops for gas savings.",
		},
	}
}
