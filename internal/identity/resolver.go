// Package identity resolves wallet-style addresses to stable owner ids.
package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/anshuman444/hacknovation2.0/internal/domain"
	"github.com/anshuman444/hacknovation2.0/internal/domain/entity/owner"
	"github.com/anshuman444/hacknovation2.0/internal/observability"
)

// DirectoryResolver implements domain.IdentityResolver on top of the
// owner directory with get-or-create semantics: resolving a known
// address returns the existing owner.
type DirectoryResolver struct {
	directory domain.OwnerDirectory
	logger    observability.Logger
}

// New creates a resolver backed by the given directory.
func New(directory domain.OwnerDirectory, logger observability.Logger) *DirectoryResolver {
	return &DirectoryResolver{
		directory: directory,
		logger:    logger,
	}
}

var _ domain.IdentityResolver = (*DirectoryResolver)(nil)

// ResolveOwner returns the owner id for the address, creating the owner
// on first sight.
func (r *DirectoryResolver) ResolveOwner(ctx context.Context, address string) (int64, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return 0, domain.ErrInvalidInput.WithCause(owner.ErrEmptyAddress)
	}

	existing, err := r.directory.GetOwnerByAddress(ctx, address)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, domain.ErrOwnerNotFound) {
		return 0, err
	}

	o, err := owner.New(address)
	if err != nil {
		return 0, domain.ErrInvalidInput.WithCause(err)
	}

	created, err := r.directory.CreateOwner(ctx, o)
	if err != nil {
		return 0, err
	}

	r.logger.Info(ctx, "Registered new owner", observability.Fields{
		"owner_id": created.ID,
	})
	return created.ID, nil
}
