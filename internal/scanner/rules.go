package scanner

import (
	"strings"

	"github.com/anshuman444/hacknovation2.0/internal/domain/entity/finding"
)

// Rule is one entry of the classifier table. A rule fires when any
// trigger substring is present and no guard substring is present. Rules
// are evaluated independently; the emitted finding order follows the
// declaration order of the table.
type Rule struct {
	Category    finding.Category
	Severity    finding.Severity
	Location    string
	Description string
	Triggers    []string
	Guards      []string
}

// Matches evaluates the rule against raw source text.
func (r Rule) Matches(source string) bool {
	fired := false
	for _, trigger := range r.Triggers {
		if strings.Contains(source, trigger) {
			fired = true
			break
		}
	}
	if !fired {
		return false
	}
	for _, guard := range r.Guards {
		if strings.Contains(source, guard) {
			return false
		}
	}
	return true
}

// DefaultRules returns the standard rule table. The trigger and guard
// markers are plain substrings over the submitted text; the classifier
// deliberately does not parse Solidity.
func DefaultRules() []Rule {
	return []Rule{
		{
			Category:    finding.CategoryReentrancy,
			Severity:    finding.SeverityHigh,
			Location:    "Value transfer call found",
			Description: "The contract contains value transfers but does not appear to use standard ReentrancyGuard. This is a primary attack vector.",
			Triggers:    []string{".call{value:", ".send(", ".transfer("},
			Guards:      []string{"ReentrancyGuard", "nonReentrant"},
		},
		{
			Category:    finding.CategoryIntegerOverflow,
			Severity:    finding.SeverityMedium,
			Location:    "Solidity < 0.8.0",
			Description: "Legacy compiler versions require SafeMath to prevent arithmetic overflows. Consider upgrading to 0.8+.",
			Triggers:    []string{"pragma solidity"},
			Guards:      []string{">=0.8", "^0.8", "SafeMath"},
		},
		{
			Category:    finding.CategoryCriticalMechanism,
			Severity:    finding.SeverityHigh,
			Location:    "selfdestruct() found",
			Description: "Self-destruct mechanism found. Ensure this is protected by strict ownership checks to prevent unauthorized destruction.",
			Triggers:    []string{"selfdestruct"},
		},
		{
			Category:    finding.CategoryPhishing,
			Severity:    finding.SeverityMedium,
			Location:    "tx.origin used",
			Description: "Using tx.origin for authentication is vulnerable to phishing attacks. Use msg.sender instead.",
			Triggers:    []string{"tx.origin"},
		},
		{
			Category:    finding.CategoryOracle,
			Severity:    finding.SeverityMedium,
			Location:    "Spot price feed dependency",
			Description: "Direct dependency on a spot price feed detected. Low-liquidity feeds are manipulable; use a TWAP or multi-source oracle.",
			Triggers:    []string{"latestRoundData", ".getPrice("},
			Guards:      []string{"TWAP"},
		},
	}
}
