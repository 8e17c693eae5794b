// Package attestation provides the external attestation hook used by
// the validate transition.
package attestation

import (
	"context"

	"github.com/anshuman444/hacknovation2.0/internal/domain"
)

// StaticAttestor acknowledges every audit unconditionally. It stands in
// for a real attestation network; the pipeline only depends on the
// Attestor port, so a network-backed implementation slots in without
// touching the controller.
type StaticAttestor struct{}

// NewStaticAttestor returns the always-succeeding attestor.
func NewStaticAttestor() *StaticAttestor {
	return &StaticAttestor{}
}

var _ domain.Attestor = (*StaticAttestor)(nil)

// Attest always succeeds.
func (a *StaticAttestor) Attest(_ context.Context, _ int64) error {
	return nil
}
