package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/anshuman444/hacknovation2.0/internal/attestation"
	"github.com/anshuman444/hacknovation2.0/internal/domain"
	"github.com/anshuman444/hacknovation2.0/internal/domain/entity/finding"
	"github.com/anshuman444/hacknovation2.0/internal/identity"
	obsmocks "github.com/anshuman444/hacknovation2.0/internal/observability/mocks"
	"github.com/anshuman444/hacknovation2.0/internal/scanner"
	"github.com/anshuman444/hacknovation2.0/internal/store"
	"github.com/anshuman444/hacknovation2.0/mocks"
)

const (
	reentrantSource = `contract C { function w() public { msg.sender.call{value: 1}(""); } }`
	benignSource    = `// empty`
)

func newTestPipeline(t *testing.T, opts Options) (*Pipeline, *store.MemoryStore) {
	t.Helper()

	st := store.NewMemoryStore()
	logger := obsmocks.NewRelaxedLogger()
	return New(
		st,
		scanner.New(),
		identity.New(st, logger),
		nil,
		attestation.NewStaticAttestor(),
		nil,
		opts,
		logger,
		obsmocks.NewRelaxedMetrics(),
	), st
}

func strPtr(s string) *string { return &s }

func TestPipeline_CreateAudit(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending audit with resolved owner", func(t *testing.T) {
		pipeline, _ := newTestPipeline(t, Options{AllowRepublish: true})

		created, err := pipeline.CreateAudit(ctx, "0xabc", benignSource, strPtr("Token.sol"))
		require.NoError(t, err)

		assert.Equal(t, int64(1), created.ID)
		require.NotNil(t, created.OwnerID)
		assert.Equal(t, benignSource, created.Source)
		assert.False(t, created.Validated)
		assert.Nil(t, created.Findings)
		assert.Nil(t, created.Score)
	})

	t.Run("anonymous submission leaves owner unset", func(t *testing.T) {
		pipeline, _ := newTestPipeline(t, Options{AllowRepublish: true})

		created, err := pipeline.CreateAudit(ctx, "", benignSource, nil)
		require.NoError(t, err)
		assert.Nil(t, created.OwnerID)
	})

	t.Run("rejects empty source before mutating state", func(t *testing.T) {
		pipeline, st := newTestPipeline(t, Options{AllowRepublish: true})

		_, err := pipeline.CreateAudit(ctx, "0xabc", "   ", nil)
		require.Error(t, err)
		assert.Equal(t, domain.CodeInvalidInput, domain.CodeOf(err))

		_, err = st.GetAudit(ctx, 1)
		assert.ErrorIs(t, err, domain.ErrAuditNotFound)
	})

	t.Run("same address resolves to the same owner", func(t *testing.T) {
		pipeline, _ := newTestPipeline(t, Options{AllowRepublish: true})

		first, err := pipeline.CreateAudit(ctx, "0xabc", benignSource, nil)
		require.NoError(t, err)
		second, err := pipeline.CreateAudit(ctx, "0xabc", benignSource, nil)
		require.NoError(t, err)

		assert.Equal(t, *first.OwnerID, *second.OwnerID)
	})
}

func TestPipeline_SubmitAnalysis(t *testing.T) {
	ctx := context.Background()

	t.Run("vulnerable source yields a high finding and reduced score", func(t *testing.T) {
		pipeline, _ := newTestPipeline(t, Options{AllowRepublish: true})

		created, err := pipeline.CreateAudit(ctx, "0xabc", reentrantSource, nil)
		require.NoError(t, err)

		analyzed, err := pipeline.SubmitAnalysis(ctx, created.ID, nil)
		require.NoError(t, err)

		require.Len(t, analyzed.Findings, 1)
		assert.Equal(t, finding.CategoryReentrancy, analyzed.Findings[0].Category)
		assert.Equal(t, finding.SeverityHigh, analyzed.Findings[0].Severity)
		require.NotNil(t, analyzed.Score)
		assert.Equal(t, 80, *analyzed.Score)
		assert.NotEmpty(t, analyzed.Optimizations)
	})

	t.Run("benign source yields the secure sentinel and a full score", func(t *testing.T) {
		pipeline, _ := newTestPipeline(t, Options{AllowRepublish: true})

		created, err := pipeline.CreateAudit(ctx, "0xabc", benignSource, nil)
		require.NoError(t, err)

		analyzed, err := pipeline.SubmitAnalysis(ctx, created.ID, nil)
		require.NoError(t, err)

		require.Len(t, analyzed.Findings, 1)
		assert.Equal(t, finding.CategorySecure, analyzed.Findings[0].Category)
		require.NotNil(t, analyzed.Score)
		assert.Equal(t, 100, *analyzed.Score)
	})

	t.Run("unknown audit fails with NOT_FOUND", func(t *testing.T) {
		pipeline, _ := newTestPipeline(t, Options{AllowRepublish: true})

		_, err := pipeline.SubmitAnalysis(ctx, 42, nil)
		assert.ErrorIs(t, err, domain.ErrAuditNotFound)
	})

	t.Run("caller narrative is stored verbatim", func(t *testing.T) {
		pipeline, _ := newTestPipeline(t, Options{AllowRepublish: true})

		created, err := pipeline.CreateAudit(ctx, "0xabc", benignSource, nil)
		require.NoError(t, err)

		analyzed, err := pipeline.SubmitAnalysis(ctx, created.ID, strPtr("manual review notes"))
		require.NoError(t, err)

		require.NotNil(t, analyzed.Narrative)
		assert.Equal(t, "manual review notes", *analyzed.Narrative)
	})

	t.Run("provider narrative is attached when caller supplies none", func(t *testing.T) {
		st := store.NewMemoryStore()
		logger := obsmocks.NewRelaxedLogger()
		provider := &mocks.MockAnalysisProvider{}
		provider.On("Analyze", mock.Anything, benignSource).Return("generated narrative", nil)

		pipeline := New(st, scanner.New(), identity.New(st, logger), provider,
			attestation.NewStaticAttestor(), nil, Options{AllowRepublish: true},
			logger, obsmocks.NewRelaxedMetrics())

		created, err := pipeline.CreateAudit(ctx, "0xabc", benignSource, nil)
		require.NoError(t, err)

		analyzed, err := pipeline.SubmitAnalysis(ctx, created.ID, nil)
		require.NoError(t, err)

		require.NotNil(t, analyzed.Narrative)
		assert.Equal(t, "generated narrative", *analyzed.Narrative)
		provider.AssertExpectations(t)
	})

	t.Run("provider failure degrades to narrative absent", func(t *testing.T) {
		st := store.NewMemoryStore()
		logger := obsmocks.NewRelaxedLogger()
		provider := &mocks.MockAnalysisProvider{}
		provider.On("Analyze", mock.Anything, mock.Anything).
			Return("", domain.ErrAnalysisUnavailable.WithCause(errors.New("timeout")))

		pipeline := New(st, scanner.New(), identity.New(st, logger), provider,
			attestation.NewStaticAttestor(), nil, Options{AllowRepublish: true},
			logger, obsmocks.NewRelaxedMetrics())

		created, err := pipeline.CreateAudit(ctx, "0xabc", reentrantSource, nil)
		require.NoError(t, err)

		analyzed, err := pipeline.SubmitAnalysis(ctx, created.ID, nil)
		require.NoError(t, err)

		assert.Nil(t, analyzed.Narrative)
		require.Len(t, analyzed.Findings, 1)
		assert.Equal(t, finding.CategoryReentrancy, analyzed.Findings[0].Category)
	})

	t.Run("re-analysis replaces prior results", func(t *testing.T) {
		pipeline, _ := newTestPipeline(t, Options{AllowRepublish: true})

		created, err := pipeline.CreateAudit(ctx, "0xabc", benignSource, nil)
		require.NoError(t, err)

		first, err := pipeline.SubmitAnalysis(ctx, created.ID, strPtr("first pass"))
		require.NoError(t, err)
		require.Len(t, first.Findings, 1)

		second, err := pipeline.SubmitAnalysis(ctx, created.ID, strPtr("second pass"))
		require.NoError(t, err)

		require.Len(t, second.Findings, 1)
		require.NotNil(t, second.Narrative)
		assert.Equal(t, "second pass", *second.Narrative)
	})
}

func TestPipeline_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("marks audit validated", func(t *testing.T) {
		pipeline, _ := newTestPipeline(t, Options{AllowRepublish: true})

		created, err := pipeline.CreateAudit(ctx, "0xabc", benignSource, nil)
		require.NoError(t, err)

		validated, err := pipeline.Validate(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, validated.Validated)
	})

	t.Run("is idempotent", func(t *testing.T) {
		pipeline, _ := newTestPipeline(t, Options{AllowRepublish: true})

		created, err := pipeline.CreateAudit(ctx, "0xabc", benignSource, nil)
		require.NoError(t, err)

		first, err := pipeline.Validate(ctx, created.ID)
		require.NoError(t, err)
		second, err := pipeline.Validate(ctx, created.ID)
		require.NoError(t, err)

		assert.True(t, second.Validated)
		assert.Equal(t, first.UpdatedAt, second.UpdatedAt)
	})

	t.Run("unknown audit fails with NOT_FOUND", func(t *testing.T) {
		pipeline, _ := newTestPipeline(t, Options{AllowRepublish: true})

		_, err := pipeline.Validate(ctx, 42)
		assert.ErrorIs(t, err, domain.ErrAuditNotFound)
	})

	t.Run("attestor failure surfaces as collaborator failure", func(t *testing.T) {
		st := store.NewMemoryStore()
		logger := obsmocks.NewRelaxedLogger()
		attestor := &mocks.MockAttestor{}
		attestor.On("Attest", mock.Anything, mock.Anything).Return(errors.New("quorum not reached"))

		pipeline := New(st, scanner.New(), identity.New(st, logger), nil, attestor,
			nil, Options{AllowRepublish: true}, logger, obsmocks.NewRelaxedMetrics())

		created, err := pipeline.CreateAudit(ctx, "0xabc", benignSource, nil)
		require.NoError(t, err)

		_, err = pipeline.Validate(ctx, created.ID)
		require.Error(t, err)
		assert.Equal(t, domain.CodeCollaboratorFailure, domain.CodeOf(err))

		// The flag must not flip when attestation fails.
		stored, err := st.GetAudit(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, stored.Validated)
	})
}

func TestPipeline_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects unvalidated audit", func(t *testing.T) {
		pipeline, _ := newTestPipeline(t, Options{AllowRepublish: true})

		created, err := pipeline.CreateAudit(ctx, "0xabc", benignSource, nil)
		require.NoError(t, err)
		_, err = pipeline.SubmitAnalysis(ctx, created.ID, nil)
		require.NoError(t, err)

		_, err = pipeline.Publish(ctx, created.ID)
		assert.ErrorIs(t, err, domain.ErrNotValidated)
		assert.Equal(t, domain.CodePreconditionFailed, domain.CodeOf(err))
	})

	t.Run("publishes validated audit into the registry", func(t *testing.T) {
		pipeline, _ := newTestPipeline(t, Options{AllowRepublish: true})

		created, err := pipeline.CreateAudit(ctx, "0xabc", benignSource, strPtr("Token.sol"))
		require.NoError(t, err)
		_, err = pipeline.SubmitAnalysis(ctx, created.ID, nil)
		require.NoError(t, err)
		_, err = pipeline.Validate(ctx, created.ID)
		require.NoError(t, err)

		published, err := pipeline.Publish(ctx, created.ID)
		require.NoError(t, err)

		assert.Equal(t, created.ID, published.AuditID)
		assert.Equal(t, fmt.Sprintf("Contract_%d", created.ID), published.Name)
		require.NotNil(t, published.Description)
		assert.Equal(t, "Verified audit result for Token.sol", *published.Description)
		assert.Equal(t, benignSource, published.Source)

		listed, err := pipeline.ListVerifiedContracts(ctx)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, published.ID, listed[0].ID)
	})

	t.Run("analysis is not a publish precondition", func(t *testing.T) {
		pipeline, _ := newTestPipeline(t, Options{AllowRepublish: true})

		created, err := pipeline.CreateAudit(ctx, "0xabc", benignSource, nil)
		require.NoError(t, err)
		_, err = pipeline.Validate(ctx, created.ID)
		require.NoError(t, err)

		published, err := pipeline.Publish(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, published.AuditID)
	})

	t.Run("unnamed submission publishes with the generic label", func(t *testing.T) {
		pipeline, _ := newTestPipeline(t, Options{AllowRepublish: true})

		created, err := pipeline.CreateAudit(ctx, "0xabc", benignSource, nil)
		require.NoError(t, err)
		_, err = pipeline.Validate(ctx, created.ID)
		require.NoError(t, err)

		published, err := pipeline.Publish(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, published.Description)
		assert.Equal(t, "Verified audit result for smart contract", *published.Description)
	})

	t.Run("unknown audit fails with NOT_FOUND", func(t *testing.T) {
		pipeline, _ := newTestPipeline(t, Options{AllowRepublish: true})

		_, err := pipeline.Publish(ctx, 42)
		assert.ErrorIs(t, err, domain.ErrAuditNotFound)
	})

	t.Run("republish allowed creates one entry per publish", func(t *testing.T) {
		pipeline, _ := newTestPipeline(t, Options{AllowRepublish: true})

		created, err := pipeline.CreateAudit(ctx, "0xabc", benignSource, nil)
		require.NoError(t, err)
		_, err = pipeline.Validate(ctx, created.ID)
		require.NoError(t, err)

		_, err = pipeline.Publish(ctx, created.ID)
		require.NoError(t, err)
		_, err = pipeline.Publish(ctx, created.ID)
		require.NoError(t, err)

		listed, err := pipeline.ListVerifiedContracts(ctx)
		require.NoError(t, err)
		assert.Len(t, listed, 2)
	})

	t.Run("republish disabled makes the second publish fail", func(t *testing.T) {
		pipeline, _ := newTestPipeline(t, Options{AllowRepublish: false})

		created, err := pipeline.CreateAudit(ctx, "0xabc", benignSource, nil)
		require.NoError(t, err)
		_, err = pipeline.Validate(ctx, created.ID)
		require.NoError(t, err)

		_, err = pipeline.Publish(ctx, created.ID)
		require.NoError(t, err)

		_, err = pipeline.Publish(ctx, created.ID)
		assert.ErrorIs(t, err, domain.ErrAlreadyPublished)

		listed, err := pipeline.ListVerifiedContracts(ctx)
		require.NoError(t, err)
		assert.Len(t, listed, 1)
	})

	t.Run("republish disabled holds under concurrent publishes", func(t *testing.T) {
		pipeline, _ := newTestPipeline(t, Options{AllowRepublish: false})

		created, err := pipeline.CreateAudit(ctx, "0xabc", benignSource, nil)
		require.NoError(t, err)
		_, err = pipeline.Validate(ctx, created.ID)
		require.NoError(t, err)

		const publishers = 8
		var wg sync.WaitGroup
		successes := make(chan struct{}, publishers)
		for i := 0; i < publishers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := pipeline.Publish(ctx, created.ID); err == nil {
					successes <- struct{}{}
				}
			}()
		}
		wg.Wait()
		close(successes)

		assert.Len(t, successes, 1)

		listed, err := pipeline.ListVerifiedContracts(ctx)
		require.NoError(t, err)
		assert.Len(t, listed, 1)
	})
}

func TestPipeline_ArchiveSource(t *testing.T) {
	ctx := context.Background()

	t.Run("archives on create and records the key", func(t *testing.T) {
		st := store.NewMemoryStore()
		logger := obsmocks.NewRelaxedLogger()
		archive := &mocks.MockObjectStorage{}
		archive.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		pipeline := New(st, scanner.New(), identity.New(st, logger), nil,
			attestation.NewStaticAttestor(), archive, Options{AllowRepublish: true},
			logger, obsmocks.NewRelaxedMetrics())

		created, err := pipeline.CreateAudit(ctx, "0xabc", benignSource, strPtr("Token.sol"))
		require.NoError(t, err)

		require.NotNil(t, created.ArchivePath)
		assert.Contains(t, *created.ArchivePath, "audits/")
		assert.Contains(t, *created.ArchivePath, ".sol")
		archive.AssertExpectations(t)
	})

	t.Run("archive failure does not block creation", func(t *testing.T) {
		st := store.NewMemoryStore()
		logger := obsmocks.NewRelaxedLogger()
		archive := &mocks.MockObjectStorage{}
		archive.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("bucket unavailable"))

		pipeline := New(st, scanner.New(), identity.New(st, logger), nil,
			attestation.NewStaticAttestor(), archive, Options{AllowRepublish: true},
			logger, obsmocks.NewRelaxedMetrics())

		created, err := pipeline.CreateAudit(ctx, "0xabc", benignSource, nil)
		require.NoError(t, err)
		assert.Nil(t, created.ArchivePath)
	})
}

func TestPipeline_FullLifecycle(t *testing.T) {
	ctx := context.Background()
	pipeline, _ := newTestPipeline(t, Options{AllowRepublish: true})

	created, err := pipeline.CreateAudit(ctx, "0xowner", reentrantSource, strPtr("Vault.sol"))
	require.NoError(t, err)

	analyzed, err := pipeline.SubmitAnalysis(ctx, created.ID, nil)
	require.NoError(t, err)
	require.Len(t, analyzed.Findings, 1)
	assert.Equal(t, finding.CategoryReentrancy, analyzed.Findings[0].Category)
	require.NotNil(t, analyzed.Score)
	assert.Equal(t, 80, *analyzed.Score)

	validated, err := pipeline.Validate(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, validated.Validated)

	published, err := pipeline.Publish(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, published.AuditID)

	fetched, err := pipeline.GetVerifiedContract(ctx, published.ID)
	require.NoError(t, err)
	assert.Equal(t, published.Name, fetched.Name)
	assert.Equal(t, reentrantSource, fetched.Source)

	ownerAudits, err := pipeline.ListAuditsForOwner(ctx, *created.OwnerID)
	require.NoError(t, err)
	require.Len(t, ownerAudits, 1)
	assert.Equal(t, created.ID, ownerAudits[0].ID)
}
