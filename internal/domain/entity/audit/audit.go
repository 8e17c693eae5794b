package audit

import (
	"strings"
	"time"

	"github.com/anshuman444/hacknovation2.0/internal/domain/entity/finding"
)

// Status is a coarse lifecycle marker. The authoritative pipeline state
// is carried by the presence of results and the Validated flag; Status
// exists for display and querying.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAnalyzed  Status = "analyzed"
	StatusValidated Status = "validated"
)

// Audit tracks one contract submission through analysis, validation and
// publication. Audits are never deleted; results are replaced, not
// appended, on re-analysis.
type Audit struct {
	ID            int64                      `db:"id" json:"id"`
	OwnerID       *int64                     `db:"owner_id" json:"owner_id"`
	Source        string                     `db:"contract_source" json:"contract_source"`
	FileName      *string                    `db:"file_name" json:"file_name"`
	Status        Status                     `db:"status" json:"status"`
	Findings      []finding.Finding          `db:"findings" json:"findings"`
	Optimizations []finding.OptimizationNote `db:"optimizations" json:"optimizations"`
	Narrative     *string                    `db:"narrative" json:"narrative"`
	Score         *int                       `db:"score" json:"score"`
	Validated     bool                       `db:"validated" json:"validated"`
	ArchivePath   *string                    `db:"archive_path" json:"archive_path,omitempty"`
	CreatedAt     time.Time                  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time                  `db:"updated_at" json:"updated_at"`
}

// New creates an audit for the given source. The source is immutable
// once created and must be non-empty.
func New(ownerID *int64, source string, fileName *string) (*Audit, error) {
	if strings.TrimSpace(source) == "" {
		return nil, ErrEmptySource
	}

	now := time.Now().UTC()
	return &Audit{
		OwnerID:   ownerID,
		Source:    source,
		FileName:  fileName,
		Status:    StatusPending,
		Validated: false,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// AttachResults replaces any prior scan output on the audit. The
// narrative, when non-nil, is stored verbatim as opaque display data.
func (a *Audit) AttachResults(findings []finding.Finding, optimizations []finding.OptimizationNote, score int, narrative *string) {
	a.Findings = findings
	a.Optimizations = optimizations
	a.Score = &score
	if narrative != nil && *narrative != "" {
		a.Narrative = narrative
	}
	if a.Status == StatusPending {
		a.Status = StatusAnalyzed
	}
	a.UpdatedAt = time.Now().UTC()
}

// MarkValidated sets the validated flag. The flag is monotonic: marking
// an already-validated audit is a no-op.
func (a *Audit) MarkValidated() {
	if a.Validated {
		return
	}
	a.Validated = true
	a.Status = StatusValidated
	a.UpdatedAt = time.Now().UTC()
}

// HasResults reports whether analysis output is attached. Validation and
// analysis are independent axes; neither implies the other.
func (a *Audit) HasResults() bool {
	return a.Findings != nil
}

// CanPublish checks the single publication precondition. Analysis is
// intentionally not required.
func (a *Audit) CanPublish() error {
	if !a.Validated {
		return ErrNotValidated
	}
	return nil
}

// DisplayFileName returns the submitted file name, or a generic label
// when none was provided.
func (a *Audit) DisplayFileName() string {
	if a.FileName != nil && *a.FileName != "" {
		return *a.FileName
	}
	return "smart contract"
}
