package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/authcore/internal/domain"
)

const (
	findCredentialSQL    = `SELECT id::text, password_hash, status, credential_version FROM users WHERE email=\$1`
	credentialVersionSQL = `SELECT credential_version FROM users WHERE email=\$1 AND status=\$2`
)

var credentialColumns = []string{"id", "password_hash", "status", "credential_version"}

func newMockRepo(t *testing.T) (VersionedCredentialRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewCredentialRepository(mock), mock
}

func TestCredentialRepository_FindActive(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(findCredentialSQL).
		WithArgs("alice@example.com").
		WillReturnRows(pgxmock.NewRows(credentialColumns).
			AddRow("7c9e6679-7425-40de-944b-e07fc1f90ae7", "$2a$12$hash", "ACTIVE", int64(3)))

	record, err := repo.FindCredential(context.Background(), "  Alice@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectIdentity("7c9e6679-7425-40de-944b-e07fc1f90ae7"), record.SubjectID)
	assert.Equal(t, []byte("$2a$12$hash"), record.SecretHash)
	assert.Equal(t, int64(3), record.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialRepository_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(findCredentialSQL).
		WithArgs("nobody@example.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindCredential(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrCredentialNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialRepository_SuspendedLooksNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(findCredentialSQL).
		WithArgs("bob@example.com").
		WillReturnRows(pgxmock.NewRows(credentialColumns).
			AddRow("b0b", "$2a$12$hash", "SUSPENDED", int64(2)))

	_, err := repo.FindCredential(context.Background(), "bob@example.com")
	assert.ErrorIs(t, err, domain.ErrCredentialNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialRepository_QueryFailure(t *testing.T) {
	repo, mock := newMockRepo(t)
	cause := errors.New("conn closed")

	mock.ExpectQuery(findCredentialSQL).
		WithArgs("alice@example.com").
		WillReturnError(cause)

	_, err := repo.FindCredential(context.Background(), "alice@example.com")
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, domain.ErrCredentialNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialRepository_CredentialVersion(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(credentialVersionSQL).
		WithArgs("alice@example.com", "ACTIVE").
		WillReturnRows(pgxmock.NewRows([]string{"credential_version"}).AddRow(int64(7)))
	mock.ExpectQuery(credentialVersionSQL).
		WithArgs("bob@example.com", "ACTIVE").
		WillReturnError(pgx.ErrNoRows)

	version, err := repo.CredentialVersion(context.Background(), "Alice@Example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(7), version)

	_, err = repo.CredentialVersion(context.Background(), "bob@example.com")
	assert.ErrorIs(t, err, domain.ErrCredentialNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
