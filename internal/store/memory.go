// Package store provides the persistence adapters behind the domain
// store ports: an in-memory adapter for tests and single-process
// deployments, and a Postgres adapter for durable deployments.
package store

import (
	"context"
	"sync"

	"github.com/anshuman444/hacknovation2.0/internal/domain"
	"github.com/anshuman444/hacknovation2.0/internal/domain/entity/audit"
	"github.com/anshuman444/hacknovation2.0/internal/domain/entity/contract"
	"github.com/anshuman444/hacknovation2.0/internal/domain/entity/finding"
	"github.com/anshuman444/hacknovation2.0/internal/domain/entity/owner"
)

// MemoryStore implements domain.Store with mutex-guarded maps and
// monotonically increasing identifiers. All mutations happen under the
// write lock, so updates are atomic per record and reads always reflect
// the most recent write. Records are copied on the way in and out; a
// caller can never alias stored state.
type MemoryStore struct {
	mu sync.RWMutex

	audits          map[int64]*audit.Audit
	contracts       map[int64]*contract.VerifiedContract
	owners          map[int64]*owner.Owner
	ownersByAddress map[string]int64

	nextAuditID    int64
	nextContractID int64
	nextOwnerID    int64
}

// NewMemoryStore creates an empty store. Identifiers start at 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		audits:          make(map[int64]*audit.Audit),
		contracts:       make(map[int64]*contract.VerifiedContract),
		owners:          make(map[int64]*owner.Owner),
		ownersByAddress: make(map[string]int64),
		nextAuditID:     1,
		nextContractID:  1,
		nextOwnerID:     1,
	}
}

var _ domain.Store = (*MemoryStore)(nil)

// --- Audits ---

func (s *MemoryStore) CreateAudit(_ context.Context, a *audit.Audit) (*audit.Audit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := copyAudit(a)
	stored.ID = s.nextAuditID
	s.nextAuditID++
	s.audits[stored.ID] = stored

	return copyAudit(stored), nil
}

func (s *MemoryStore) GetAudit(_ context.Context, id int64) (*audit.Audit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.audits[id]
	if !ok {
		return nil, domain.ErrAuditNotFound
	}
	return copyAudit(stored), nil
}

func (s *MemoryStore) ListAuditsByOwner(_ context.Context, ownerID int64) ([]*audit.Audit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Iterate in id order so listings are stable.
	audits := make([]*audit.Audit, 0)
	for id := int64(1); id < s.nextAuditID; id++ {
		stored, ok := s.audits[id]
		if !ok {
			continue
		}
		if stored.OwnerID != nil && *stored.OwnerID == ownerID {
			audits = append(audits, copyAudit(stored))
		}
	}
	return audits, nil
}

func (s *MemoryStore) AttachResults(_ context.Context, id int64, findings []finding.Finding, optimizations []finding.OptimizationNote, score int, narrative *string) (*audit.Audit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.audits[id]
	if !ok {
		return nil, domain.ErrAuditNotFound
	}
	stored.AttachResults(findings, optimizations, score, narrative)
	return copyAudit(stored), nil
}

func (s *MemoryStore) SetValidated(_ context.Context, id int64) (*audit.Audit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.audits[id]
	if !ok {
		return nil, domain.ErrAuditNotFound
	}
	stored.MarkValidated()
	return copyAudit(stored), nil
}

// --- Registry ---

func (s *MemoryStore) CreateContract(_ context.Context, c *contract.VerifiedContract) (*contract.VerifiedContract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := copyContract(c)
	stored.ID = s.nextContractID
	s.nextContractID++
	s.contracts[stored.ID] = stored

	return copyContract(stored), nil
}

func (s *MemoryStore) ListContracts(_ context.Context) ([]*contract.VerifiedContract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contracts := make([]*contract.VerifiedContract, 0, len(s.contracts))
	for id := int64(1); id < s.nextContractID; id++ {
		if stored, ok := s.contracts[id]; ok {
			contracts = append(contracts, copyContract(stored))
		}
	}
	return contracts, nil
}

func (s *MemoryStore) GetContract(_ context.Context, id int64) (*contract.VerifiedContract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.contracts[id]
	if !ok {
		return nil, domain.ErrContractNotFound
	}
	return copyContract(stored), nil
}

func (s *MemoryStore) CountContractsByAudit(_ context.Context, auditID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, stored := range s.contracts {
		if stored.AuditID == auditID {
			count++
		}
	}
	return count, nil
}

// --- Owners ---

func (s *MemoryStore) GetOwnerByAddress(_ context.Context, address string) (*owner.Owner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.ownersByAddress[address]
	if !ok {
		return nil, domain.ErrOwnerNotFound
	}
	stored := s.owners[id]
	copied := *stored
	return &copied, nil
}

func (s *MemoryStore) CreateOwner(_ context.Context, o *owner.Owner) (*owner.Owner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Get-or-create under one lock so two resolvers racing on the same
	// address observe a single owner.
	if id, ok := s.ownersByAddress[o.Address]; ok {
		copied := *s.owners[id]
		return &copied, nil
	}

	stored := *o
	stored.ID = s.nextOwnerID
	s.nextOwnerID++
	s.owners[stored.ID] = &stored
	s.ownersByAddress[stored.Address] = stored.ID

	copied := stored
	return &copied, nil
}

// --- copy helpers ---

func copyAudit(a *audit.Audit) *audit.Audit {
	copied := *a
	if a.Findings != nil {
		copied.Findings = make([]finding.Finding, len(a.Findings))
		copy(copied.Findings, a.Findings)
	}
	if a.Optimizations != nil {
		copied.Optimizations = make([]finding.OptimizationNote, len(a.Optimizations))
		copy(copied.Optimizations, a.Optimizations)
	}
	copied.OwnerID = copyInt64(a.OwnerID)
	copied.FileName = copyString(a.FileName)
	copied.Narrative = copyString(a.Narrative)
	copied.ArchivePath = copyString(a.ArchivePath)
	copied.Score = copyInt(a.Score)
	return &copied
}

func copyContract(c *contract.VerifiedContract) *contract.VerifiedContract {
	copied := *c
	copied.OwnerID = copyInt64(c.OwnerID)
	copied.Description = copyString(c.Description)
	return &copied
}

func copyInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	copied := *v
	return &copied
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	copied := *v
	return &copied
}

func copyString(v *string) *string {
	if v == nil {
		return nil
	}
	copied := *v
	return &copied
}
