package domain

import (
	"context"

	"github.com/anshuman444/hacknovation2.0/internal/domain/entity/audit"
	"github.com/anshuman444/hacknovation2.0/internal/domain/entity/contract"
	"github.com/anshuman444/hacknovation2.0/internal/domain/entity/finding"
	"github.com/anshuman444/hacknovation2.0/internal/domain/entity/owner"
)

// AuditStore is keyed storage for audits with monotonically increasing
// identifiers. Updates are atomic per record; reads reflect the most
// recent write. There is no delete.
type AuditStore interface {
	// CreateAudit persists a new audit and assigns its id.
	CreateAudit(ctx context.Context, a *audit.Audit) (*audit.Audit, error)

	// GetAudit returns the audit or ErrAuditNotFound.
	GetAudit(ctx context.Context, id int64) (*audit.Audit, error)

	// ListAuditsByOwner returns all audits submitted by the owner.
	ListAuditsByOwner(ctx context.Context, ownerID int64) ([]*audit.Audit, error)

	// AttachResults replaces the scan output on an audit.
	AttachResults(ctx context.Context, id int64, findings []finding.Finding, optimizations []finding.OptimizationNote, score int, narrative *string) (*audit.Audit, error)

	// SetValidated marks the audit validated. Idempotent.
	SetValidated(ctx context.Context, id int64) (*audit.Audit, error)
}

// ContractRegistry is the append-only collection of verified contracts.
type ContractRegistry interface {
	CreateContract(ctx context.Context, c *contract.VerifiedContract) (*contract.VerifiedContract, error)
	ListContracts(ctx context.Context) ([]*contract.VerifiedContract, error)
	GetContract(ctx context.Context, id int64) (*contract.VerifiedContract, error)

	// CountContractsByAudit reports how many registry entries reference
	// the audit. Used to enforce single-publication mode.
	CountContractsByAudit(ctx context.Context, auditID int64) (int, error)
}

// OwnerDirectory persists submitting identities keyed by wallet address.
type OwnerDirectory interface {
	GetOwnerByAddress(ctx context.Context, address string) (*owner.Owner, error)
	CreateOwner(ctx context.Context, o *owner.Owner) (*owner.Owner, error)
}

// Store is the full persistence surface, implemented by each storage
// adapter.
type Store interface {
	AuditStore
	ContractRegistry
	OwnerDirectory
}

// IdentityResolver maps a wallet-style address to a stable owner id,
// creating the owner on first sight.
type IdentityResolver interface {
	ResolveOwner(ctx context.Context, address string) (int64, error)
}

// AnalysisProvider produces a free-text narrative for contract source.
// Failures must not abort the analysis transition; the pipeline degrades
// to pattern-based findings only.
type AnalysisProvider interface {
	Analyze(ctx context.Context, source string) (string, error)
}

// Attestor asserts validity of an audit. The shipped implementation
// always succeeds; this is the hook point for a real attestation
// network.
type Attestor interface {
	Attest(ctx context.Context, auditID int64) error
}
