package finding

// Category classifies a security observation about contract source.
type Category string

const (
	CategoryReentrancy        Category = "Reentrancy Risk"
	CategoryIntegerOverflow   Category = "Integer Overflow"
	CategoryCriticalMechanism Category = "Critical Mechanism"
	CategoryPhishing          Category = "Phishing Vulnerability"
	CategoryOracle            Category = "Oracle Risk"
	CategorySecure            Category = "Secure"
)

// Severity is ordered low < medium < high.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rank returns the numeric ordering of a severity, with unknown values
// ranked below low.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	default:
		return 0
	}
}

// SignatureMatch annotates a finding with the historical incident it
// resembles, drawn from the exploit signature catalog.
type SignatureMatch struct {
	HistoricalMatch     string `json:"historical_match"`
	Year                int    `json:"year"`
	TechnicalPattern    string `json:"technical_pattern"`
	SimilarityRationale string `json:"similarity_rationale"`
	ImpactProjection    int    `json:"impact_projection"`
}

// Finding is a single classified observation. Findings have no identity
// outside the audit that owns them.
type Finding struct {
	Category       Category        `json:"category"`
	Severity       Severity        `json:"severity"`
	Location       string          `json:"location"`
	Description    string          `json:"description"`
	SignatureMatch *SignatureMatch `json:"signature_match,omitempty"`
}

// IsSecure reports whether the finding is the sentinel emitted when no
// rule fired.
func (f Finding) IsSecure() bool {
	return f.Category == CategorySecure
}

// OptimizationNote is a gas-optimization suggestion attached alongside
// findings.
type OptimizationNote struct {
	Type       string `json:"type"`
	Suggestion string `json:"suggestion"`
}
