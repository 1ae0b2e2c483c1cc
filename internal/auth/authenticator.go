package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/spec-kit/authcore/internal/domain"
)

// CredentialStore resolves a login identifier to its stored credential.
// Implementations return domain.ErrCredentialNotFound when nothing usable exists.
type CredentialStore interface {
	FindCredential(ctx context.Context, identifier string) (*domain.CredentialRecord, error)
}

// Authenticator turns (identifier, secret) into a subject identity. It never
// issues tokens; callers choose a lifetime and call TokenCodec.Issue.
type Authenticator struct {
	store     CredentialStore
	decoyHash []byte
}

// NewAuthenticator builds an authenticator. cost sizes the decoy hash compared
// against unknown identifiers and should match the cost of stored hashes.
func NewAuthenticator(store CredentialStore, cost int) (*Authenticator, error) {
	decoy, err := HashSecret(uuid.NewString(), cost)
	if err != nil {
		return nil, err
	}
	return &Authenticator{store: store, decoyHash: decoy}, nil
}

// Authenticate verifies the secret against the stored record. The store is
// read exactly once and failures are not retried.
func (a *Authenticator) Authenticate(ctx context.Context, identifier, secret string) (domain.SubjectIdentity, error) {
	record, err := a.store.FindCredential(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrCredentialNotFound) {
			// Keep the unknown-identifier path as slow as a real comparison.
			_, _ = VerifySecret(secret, a.decoyHash)
			return "", newError(ReasonInvalidCredentials, "unknown identifier", nil)
		}
		return "", newError(ReasonStoreUnavailable, "credential lookup failed", err)
	}

	ok, err := VerifySecret(secret, record.SecretHash)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", newError(ReasonInvalidCredentials, "secret mismatch", nil)
	}
	return record.SubjectID, nil
}
