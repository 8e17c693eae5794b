package scanner

import "github.com/anshuman444/hacknovation2.0/internal/domain/entity/finding"

// DefaultCatalog returns the exploit signature catalog: a static table
// mapping a finding category to the historical incident it resembles.
// Categories absent from the catalog leave findings unannotated.
func DefaultCatalog() map[finding.Category]finding.SignatureMatch {
	return map[finding.Category]finding.SignatureMatch{
		finding.CategoryReentrancy: {
			HistoricalMatch:     "The DAO Exploit",
			Year:                2016,
			TechnicalPattern:    "Recursive call dependency before state balance update.",
			SimilarityRationale: "Both vulnerabilities allow an attacker to re-enter the withdrawal function before the user's balance is deducted, resulting in a recursive drain of protocol funds.",
			ImpactProjection:    100,
		},
		finding.CategoryCriticalMechanism: {
			HistoricalMatch:     "Poly Network Hack",
			Year:                2021,
			TechnicalPattern:    "Unprotected administrative function or logic-based ownership takeover.",
			SimilarityRationale: "The contract lacks proper access-control modifiers on sensitive functions, mirroring the logical flaw used to bridge funds without authorization in the Poly Network case.",
			ImpactProjection:    95,
		},
		finding.CategoryIntegerOverflow: {
			HistoricalMatch:     "BEC Token Hack",
			Year:                2018,
			TechnicalPattern:    "Unchecked arithmetic operations in token transfers.",
			SimilarityRationale: "Lack of SafeMath or compiler-level bounds checking allows for massive token minting via overflow, identical to the BEC token 'BatchOverflow' bug.",
			ImpactProjection:    80,
		},
		finding.CategoryOracle: {
			HistoricalMatch:     "Mango Markets Drain",
			Year:                2022,
			TechnicalPattern:    "Dependency on low-liquidity price feeds.",
			SimilarityRationale: "Vulnerable to price manipulation where an attacker can inflate collateral value, similar to the Mango Markets manipulation that allowed for under-collateralized loans.",
			ImpactProjection:    90,
		},
	}
}
