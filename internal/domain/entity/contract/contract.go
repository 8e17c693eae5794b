package contract

import (
	"fmt"
	"time"
)

// VerifiedContract is a public registry entry created by a successful
// publish transition. Entries are append-only: never mutated or deleted.
type VerifiedContract struct {
	ID          int64     `db:"id" json:"id"`
	AuditID     int64     `db:"audit_id" json:"audit_id"`
	OwnerID     *int64    `db:"owner_id" json:"owner_id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	Source      string    `db:"source" json:"source"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// New builds a registry entry from a published audit. Name and
// description default from the audit identity when not supplied.
func New(auditID int64, ownerID *int64, source, fileName string) (*VerifiedContract, error) {
	if source == "" {
		return nil, ErrEmptySource
	}

	description := fmt.Sprintf("Verified audit result for %s", fileName)
	return &VerifiedContract{
		AuditID:     auditID,
		OwnerID:     ownerID,
		Name:        fmt.Sprintf("Contract_%d", auditID),
		Description: &description,
		Source:      source,
		CreatedAt:   time.Now().UTC(),
	}, nil
}
