package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/authcore/internal/domain"
)

// CredentialRepository resolves login identifiers to credential records.
type CredentialRepository interface {
	FindCredential(ctx context.Context, identifier string) (*domain.CredentialRecord, error)
}

// VersionedCredentialRepository can also report the current credential
// version without loading the hash.
type VersionedCredentialRepository interface {
	CredentialRepository
	CredentialVersion(ctx context.Context, identifier string) (int64, error)
}

// Querier is the subset of pgxpool.Pool used by the repository.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type credentialRepository struct {
	db Querier
}

// NewCredentialRepository returns a Postgres-backed implementation over the users table.
func NewCredentialRepository(db Querier) VersionedCredentialRepository {
	return &credentialRepository{db: db}
}

// NormalizeIdentifier canonicalises an email-style identifier.
func NormalizeIdentifier(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

// FindCredential returns domain.ErrCredentialNotFound for unknown and
// non-active accounts alike.
func (r *credentialRepository) FindCredential(ctx context.Context, identifier string) (*domain.CredentialRecord, error) {
	const query = `
        SELECT id::text, password_hash, status, credential_version
        FROM users WHERE email=$1`

	var (
		user   domain.User
		status string
	)
	if err := r.db.QueryRow(ctx, query, NormalizeIdentifier(identifier)).Scan(
		&user.ID,
		&user.PasswordHash,
		&status,
		&user.CredentialVersion,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("query credential: %w", err)
	}

	user.Status = domain.UserStatus(status)
	if user.Status != domain.UserStatusActive {
		return nil, domain.ErrCredentialNotFound
	}
	return user.Credential(), nil
}

// CredentialVersion returns the version of an active account's credential,
// or domain.ErrCredentialNotFound.
func (r *credentialRepository) CredentialVersion(ctx context.Context, identifier string) (int64, error) {
	const query = `
        SELECT credential_version
        FROM users WHERE email=$1 AND status=$2`

	var version int64
	if err := r.db.QueryRow(ctx, query, NormalizeIdentifier(identifier), string(domain.UserStatusActive)).Scan(&version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrCredentialNotFound
		}
		return 0, fmt.Errorf("query credential version: %w", err)
	}
	return version, nil
}
