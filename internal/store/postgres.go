package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anshuman444/hacknovation2.0/internal/domain"
	"github.com/anshuman444/hacknovation2.0/internal/domain/entity/audit"
	"github.com/anshuman444/hacknovation2.0/internal/domain/entity/contract"
	"github.com/anshuman444/hacknovation2.0/internal/domain/entity/finding"
	"github.com/anshuman444/hacknovation2.0/internal/domain/entity/owner"
)

// PostgresStore implements domain.Store on top of a pgx connection
// pool. Identifiers come from BIGSERIAL sequences, so they are
// monotonically increasing; row-level updates give per-record atomicity.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to the database and ensures the schema exists.
func OpenPostgres(ctx context.Context, url string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres pool: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

var _ domain.Store = (*PostgresStore)(nil)

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS owners (
			id BIGSERIAL PRIMARY KEY,
			address TEXT NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS audits (
			id BIGSERIAL PRIMARY KEY,
			owner_id BIGINT REFERENCES owners(id),
			contract_source TEXT NOT NULL,
			file_name TEXT,
			status TEXT NOT NULL,
			findings JSONB,
			optimizations JSONB,
			narrative TEXT,
			score INT,
			validated BOOLEAN NOT NULL DEFAULT FALSE,
			archive_path TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS verified_contracts (
			id BIGSERIAL PRIMARY KEY,
			audit_id BIGINT NOT NULL REFERENCES audits(id),
			owner_id BIGINT REFERENCES owners(id),
			name TEXT NOT NULL,
			description TEXT,
			source TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_audits_owner ON audits (owner_id);
		CREATE INDEX IF NOT EXISTS idx_contracts_audit ON verified_contracts (audit_id);
	`
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

const auditColumns = `id, owner_id, contract_source, file_name, status, findings, optimizations, narrative, score, validated, archive_path, created_at, updated_at`

// --- Audits ---

func (s *PostgresStore) CreateAudit(ctx context.Context, a *audit.Audit) (*audit.Audit, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO audits (owner_id, contract_source, file_name, status, validated, archive_path, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+auditColumns,
		a.OwnerID, a.Source, a.FileName, a.Status, a.Validated, a.ArchivePath, a.CreatedAt, a.UpdatedAt)
	return scanAudit(row)
}

func (s *PostgresStore) GetAudit(ctx context.Context, id int64) (*audit.Audit, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+auditColumns+` FROM audits WHERE id = $1`, id)
	return scanAudit(row)
}

func (s *PostgresStore) ListAuditsByOwner(ctx context.Context, ownerID int64) ([]*audit.Audit, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+auditColumns+` FROM audits WHERE owner_id = $1 ORDER BY id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audits: %w", err)
	}
	defer rows.Close()

	audits := make([]*audit.Audit, 0)
	for rows.Next() {
		a, err := scanAudit(rows)
		if err != nil {
			return nil, err
		}
		audits = append(audits, a)
	}
	return audits, rows.Err()
}

func (s *PostgresStore) AttachResults(ctx context.Context, id int64, findings []finding.Finding, optimizations []finding.OptimizationNote, score int, narrative *string) (*audit.Audit, error) {
	findingsJSON, err := json.Marshal(findings)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal findings: %w", err)
	}
	optimizationsJSON, err := json.Marshal(optimizations)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal optimizations: %w", err)
	}

	row := s.pool.QueryRow(ctx, `
		UPDATE audits
		SET findings = $2,
		    optimizations = $3,
		    score = $4,
		    narrative = COALESCE($5, narrative),
		    status = CASE WHEN status = 'pending' THEN 'analyzed' ELSE status END,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+auditColumns,
		id, findingsJSON, optimizationsJSON, score, narrative)
	return scanAudit(row)
}

func (s *PostgresStore) SetValidated(ctx context.Context, id int64) (*audit.Audit, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE audits
		SET validated = TRUE,
		    status = 'validated',
		    updated_at = CASE WHEN validated THEN updated_at ELSE now() END
		WHERE id = $1
		RETURNING `+auditColumns,
		id)
	return scanAudit(row)
}

// --- Registry ---

const contractColumns = `id, audit_id, owner_id, name, description, source, created_at`

func (s *PostgresStore) CreateContract(ctx context.Context, c *contract.VerifiedContract) (*contract.VerifiedContract, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO verified_contracts (audit_id, owner_id, name, description, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+contractColumns,
		c.AuditID, c.OwnerID, c.Name, c.Description, c.Source, c.CreatedAt)
	return scanContract(row)
}

func (s *PostgresStore) ListContracts(ctx context.Context) ([]*contract.VerifiedContract, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+contractColumns+` FROM verified_contracts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	defer rows.Close()

	contracts := make([]*contract.VerifiedContract, 0)
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}

func (s *PostgresStore) GetContract(ctx context.Context, id int64) (*contract.VerifiedContract, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+contractColumns+` FROM verified_contracts WHERE id = $1`, id)
	return scanContract(row)
}

func (s *PostgresStore) CountContractsByAudit(ctx context.Context, auditID int64) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM verified_contracts WHERE audit_id = $1`, auditID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count contracts: %w", err)
	}
	return count, nil
}

// --- Owners ---

func (s *PostgresStore) GetOwnerByAddress(ctx context.Context, address string) (*owner.Owner, error) {
	var o owner.Owner
	err := s.pool.QueryRow(ctx, `SELECT id, address, created_at FROM owners WHERE address = $1`, address).
		Scan(&o.ID, &o.Address, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOwnerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get owner: %w", err)
	}
	return &o, nil
}

func (s *PostgresStore) CreateOwner(ctx context.Context, o *owner.Owner) (*owner.Owner, error) {
	// Upsert keeps get-or-create atomic under concurrent resolvers.
	var created owner.Owner
	err := s.pool.QueryRow(ctx, `
		INSERT INTO owners (address, created_at)
		VALUES ($1, $2)
		ON CONFLICT (address) DO UPDATE SET address = EXCLUDED.address
		RETURNING id, address, created_at`,
		o.Address, o.CreatedAt).
		Scan(&created.ID, &created.Address, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create owner: %w", err)
	}
	return &created, nil
}

// --- scanning ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAudit(row rowScanner) (*audit.Audit, error) {
	var (
		a                 audit.Audit
		findingsJSON      []byte
		optimizationsJSON []byte
	)
	err := row.Scan(&a.ID, &a.OwnerID, &a.Source, &a.FileName, &a.Status,
		&findingsJSON, &optimizationsJSON, &a.Narrative, &a.Score,
		&a.Validated, &a.ArchivePath, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAuditNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan audit: %w", err)
	}

	if findingsJSON != nil {
		if err := json.Unmarshal(findingsJSON, &a.Findings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal findings: %w", err)
		}
	}
	if optimizationsJSON != nil {
		if err := json.Unmarshal(optimizationsJSON, &a.Optimizations); err != nil {
			return nil, fmt.Errorf("failed to unmarshal optimizations: %w", err)
		}
	}
	return &a, nil
}

func scanContract(row rowScanner) (*contract.VerifiedContract, error) {
	var c contract.VerifiedContract
	err := row.Scan(&c.ID, &c.AuditID, &c.OwnerID, &c.Name, &c.Description, &c.Source, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrContractNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan contract: %w", err)
	}
	return &c, nil
}
