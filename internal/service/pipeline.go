// Package service implements the audit lifecycle controller: the state
// machine carrying an audit from creation through analysis, validation
// and publication to the verified contract registry.
package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/anshuman444/hacknovation2.0/internal/domain"
	"github.com/anshuman444/hacknovation2.0/internal/domain/entity/audit"
	"github.com/anshuman444/hacknovation2.0/internal/domain/entity/contract"
	"github.com/anshuman444/hacknovation2.0/internal/observability"
	"github.com/anshuman444/hacknovation2.0/internal/scanner"
	"github.com/anshuman444/hacknovation2.0/internal/storage"
)

// Options holds pipeline behavior switches.
type Options struct {
	// AllowRepublish permits publishing the same audit repeatedly,
	// creating one registry entry per publish. This matches historical
	// behavior; disable it to make publication single-shot.
	AllowRepublish bool
}

// Pipeline orchestrates the audit lifecycle. Each transition completes
// fully before returning and never partially mutates state on failure.
// The pipeline has no internal parallelism; concurrency safety for the
// same record comes from per-record locking around publish and from the
// store's per-key atomic updates.
type Pipeline struct {
	store    domain.Store
	engine   *scanner.Engine
	resolver domain.IdentityResolver
	analysis domain.AnalysisProvider
	attestor domain.Attestor
	archive  storage.ObjectStorage
	opts     Options
	logger   observability.Logger
	metrics  observability.Metrics

	// publishLocks serializes the publish precondition check and the
	// registry append per audit id, so two concurrent publishes cannot
	// both slip past a disabled republish guard.
	publishLocks sync.Map
}

// New creates a pipeline. The analysis provider and archive may be nil;
// both are optional collaborators.
func New(
	store domain.Store,
	engine *scanner.Engine,
	resolver domain.IdentityResolver,
	analysisProvider domain.AnalysisProvider,
	attestor domain.Attestor,
	archive storage.ObjectStorage,
	opts Options,
	logger observability.Logger,
	metrics observability.Metrics,
) *Pipeline {
	return &Pipeline{
		store:    store,
		engine:   engine,
		resolver: resolver,
		analysis: analysisProvider,
		attestor: attestor,
		archive:  archive,
		opts:     opts,
		logger:   logger,
		metrics:  metrics,
	}
}

// CreateAudit registers a new audit for the given source. The owner
// address is resolved to a stable identity, creating it on first sight.
// Fails with INVALID_INPUT before any state is mutated when the source
// is empty.
func (p *Pipeline) CreateAudit(ctx context.Context, ownerAddress, source string, fileName *string) (*audit.Audit, error) {
	p.metrics.StartOperation("create")
	defer p.metrics.EndOperation("create")
	start := time.Now()
	defer func() { p.metrics.RecordDuration("create", time.Since(start).Seconds()) }()

	var ownerID *int64
	if strings.TrimSpace(ownerAddress) != "" {
		id, err := p.resolver.ResolveOwner(ctx, ownerAddress)
		if err != nil {
			p.metrics.RecordError("create", "identity_error")
			return nil, err
		}
		ownerID = &id
	}

	a, err := audit.New(ownerID, source, fileName)
	if err != nil {
		p.metrics.RecordError("create", "invalid_input")
		return nil, domain.ErrInvalidInput.WithCause(err)
	}

	if p.archive != nil {
		a.ArchivePath = p.archiveSource(ctx, source, fileName)
	}

	created, err := p.store.CreateAudit(ctx, a)
	if err != nil {
		p.metrics.RecordError("create", "store_error")
		return nil, err
	}

	p.metrics.RecordSuccess("create")
	p.logger.Info(ctx, "Audit created", observability.Fields{
		"audit_id": created.ID,
	})
	return created, nil
}

// ResolveOwner maps a wallet address to its owner id, registering the
// owner on first sight.
func (p *Pipeline) ResolveOwner(ctx context.Context, address string) (int64, error) {
	return p.resolver.ResolveOwner(ctx, address)
}

// GetAudit fetches an audit by id.
func (p *Pipeline) GetAudit(ctx context.Context, id int64) (*audit.Audit, error) {
	return p.store.GetAudit(ctx, id)
}

// ListAuditsForOwner returns every audit submitted by the owner.
func (p *Pipeline) ListAuditsForOwner(ctx context.Context, ownerID int64) ([]*audit.Audit, error) {
	return p.store.ListAuditsByOwner(ctx, ownerID)
}

// SubmitAnalysis runs the finding engine against the stored source and
// attaches the results, replacing any prior output. When a narrative is
// supplied by the caller it is stored verbatim; otherwise the external
// analysis provider is consulted, and its failure degrades to "narrative
// absent" rather than aborting the transition.
func (p *Pipeline) SubmitAnalysis(ctx context.Context, id int64, narrative *string) (*audit.Audit, error) {
	p.metrics.StartOperation("analyze")
	defer p.metrics.EndOperation("analyze")
	start := time.Now()
	defer func() { p.metrics.RecordDuration("analyze", time.Since(start).Seconds()) }()

	a, err := p.store.GetAudit(ctx, id)
	if err != nil {
		p.metrics.RecordError("analyze", "not_found")
		return nil, err
	}

	report := p.engine.Scan(a.Source)

	if narrative == nil && p.analysis != nil {
		if text, analysisErr := p.analysis.Analyze(ctx, a.Source); analysisErr != nil {
			p.metrics.RecordError("analyze", "collaborator_failure")
			p.logger.Warn(ctx, "Analysis provider failed; proceeding without narrative", observability.Fields{
				"audit_id": id,
				"error":    analysisErr.Error(),
			})
		} else {
			narrative = &text
		}
	}

	updated, err := p.store.AttachResults(ctx, id, report.Findings, report.Optimizations, report.Score, narrative)
	if err != nil {
		p.metrics.RecordError("analyze", "store_error")
		return nil, err
	}

	p.metrics.RecordSuccess("analyze")
	p.logger.Info(ctx, "Analysis attached", observability.Fields{
		"audit_id": id,
		"findings": len(report.Findings),
		"score":    report.Score,
	})
	return updated, nil
}

// Validate marks the audit validated after consulting the attestor.
// Idempotent: validating an already-validated audit is a no-op success.
func (p *Pipeline) Validate(ctx context.Context, id int64) (*audit.Audit, error) {
	p.metrics.StartOperation("validate")
	defer p.metrics.EndOperation("validate")
	start := time.Now()
	defer func() { p.metrics.RecordDuration("validate", time.Since(start).Seconds()) }()

	if _, err := p.store.GetAudit(ctx, id); err != nil {
		p.metrics.RecordError("validate", "not_found")
		return nil, err
	}

	if err := p.attestor.Attest(ctx, id); err != nil {
		p.metrics.RecordError("validate", "collaborator_failure")
		return nil, domain.ErrAttestationFailed.WithCause(err)
	}

	updated, err := p.store.SetValidated(ctx, id)
	if err != nil {
		p.metrics.RecordError("validate", "store_error")
		return nil, err
	}

	p.metrics.RecordSuccess("validate")
	p.logger.Info(ctx, "Audit validated", observability.Fields{
		"audit_id": id,
	})
	return updated, nil
}

// Publish creates a verified contract record referencing the audit.
// The only precondition is a prior successful Validate; attached
// findings are deliberately not required. The precondition check and the
// registry append are atomic with respect to concurrent publishes of the
// same audit.
func (p *Pipeline) Publish(ctx context.Context, id int64) (*contract.VerifiedContract, error) {
	p.metrics.StartOperation("publish")
	defer p.metrics.EndOperation("publish")
	start := time.Now()
	defer func() { p.metrics.RecordDuration("publish", time.Since(start).Seconds()) }()

	lock := p.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	a, err := p.store.GetAudit(ctx, id)
	if err != nil {
		p.metrics.RecordError("publish", "not_found")
		return nil, err
	}

	if err := a.CanPublish(); err != nil {
		p.metrics.RecordError("publish", "precondition_failed")
		return nil, domain.ErrNotValidated
	}

	if !p.opts.AllowRepublish {
		count, err := p.store.CountContractsByAudit(ctx, id)
		if err != nil {
			p.metrics.RecordError("publish", "store_error")
			return nil, err
		}
		if count > 0 {
			p.metrics.RecordError("publish", "precondition_failed")
			return nil, domain.ErrAlreadyPublished
		}
	}

	c, err := contract.New(a.ID, a.OwnerID, a.Source, a.DisplayFileName())
	if err != nil {
		p.metrics.RecordError("publish", "invalid_input")
		return nil, domain.ErrInvalidInput.WithCause(err)
	}

	created, err := p.store.CreateContract(ctx, c)
	if err != nil {
		p.metrics.RecordError("publish", "store_error")
		return nil, err
	}

	p.metrics.RecordSuccess("publish")
	p.logger.Info(ctx, "Audit published", observability.Fields{
		"audit_id":    id,
		"contract_id": created.ID,
	})
	return created, nil
}

// ListVerifiedContracts returns the full registry.
func (p *Pipeline) ListVerifiedContracts(ctx context.Context) ([]*contract.VerifiedContract, error) {
	return p.store.ListContracts(ctx)
}

// GetVerifiedContract fetches one registry entry by id.
func (p *Pipeline) GetVerifiedContract(ctx context.Context, id int64) (*contract.VerifiedContract, error) {
	return p.store.GetContract(ctx, id)
}

// archiveSource stores the submitted source in object storage. Archive
// failures are logged and swallowed; archiving is best-effort and never
// blocks creation.
func (p *Pipeline) archiveSource(ctx context.Context, source string, fileName *string) *string {
	ext := ".sol"
	if fileName != nil {
		if e := path.Ext(*fileName); e != "" {
			ext = e
		}
	}
	key := fmt.Sprintf("audits/%s%s", uuid.New().String(), ext)

	err := p.archive.Put(ctx, key, strings.NewReader(source), storage.ObjectMetadata{
		ContentType: "text/plain",
		Size:        int64(len(source)),
	})
	if err != nil {
		p.metrics.RecordError("create", "archive_error")
		p.logger.Warn(ctx, "Failed to archive source; continuing without archive", observability.Fields{
			"error": err.Error(),
		})
		return nil
	}
	return &key
}

func (p *Pipeline) lockFor(id int64) *sync.Mutex {
	lock, _ := p.publishLocks.LoadOrStore(id, &sync.Mutex{})
	return lock.(*sync.Mutex)
}
