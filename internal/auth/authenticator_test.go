package auth

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/authcore/internal/domain"
)

type fakeCredentialStore struct {
	records map[string]*domain.CredentialRecord
	err     error
	calls   atomic.Int64
}

func (f *fakeCredentialStore) FindCredential(_ context.Context, identifier string) (*domain.CredentialRecord, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	record, ok := f.records[identifier]
	if !ok {
		return nil, domain.ErrCredentialNotFound
	}
	return record, nil
}

func newTestStore(t *testing.T) *fakeCredentialStore {
	t.Helper()
	hash, err := HashSecret("hunter22", bcrypt.MinCost)
	require.NoError(t, err)
	return &fakeCredentialStore{records: map[string]*domain.CredentialRecord{
		"alice@example.com":   {SubjectID: "subject-alice", SecretHash: hash},
		"corrupt@example.com": {SubjectID: "subject-corrupt", SecretHash: []byte("not-a-hash")},
	}}
}

func newTestAuthenticator(t *testing.T, store CredentialStore) *Authenticator {
	t.Helper()
	a, err := NewAuthenticator(store, bcrypt.MinCost)
	require.NoError(t, err)
	return a
}

func TestAuthenticator_Success(t *testing.T) {
	store := newTestStore(t)
	a := newTestAuthenticator(t, store)

	subject, err := a.Authenticate(context.Background(), "alice@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectIdentity("subject-alice"), subject)
	assert.Equal(t, int64(1), store.calls.Load())
}

func TestAuthenticator_WrongSecretAndUnknownIdentifierLookAlike(t *testing.T) {
	store := newTestStore(t)
	a := newTestAuthenticator(t, store)

	subject, wrongSecret := a.Authenticate(context.Background(), "alice@example.com", "hunter23")
	assert.Empty(t, subject)
	subject, unknown := a.Authenticate(context.Background(), "mallory@example.com", "hunter22")
	assert.Empty(t, subject)

	for _, err := range []error{wrongSecret, unknown} {
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		reason, ok := ReasonOf(err)
		require.True(t, ok)
		assert.Equal(t, ReasonInvalidCredentials, reason)
		assert.Nil(t, errors.Unwrap(err))
	}
}

func TestAuthenticator_StoreUnavailable(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	store := &fakeCredentialStore{err: cause}
	a := newTestAuthenticator(t, store)

	_, err := a.Authenticate(context.Background(), "alice@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, int64(1), store.calls.Load(), "store failures are not retried")
}

func TestAuthenticator_MalformedStoredHash(t *testing.T) {
	a := newTestAuthenticator(t, newTestStore(t))

	_, err := a.Authenticate(context.Background(), "corrupt@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrMalformedHash)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticator_ConcurrentUse(t *testing.T) {
	a := newTestAuthenticator(t, newTestStore(t))

	done := make(chan error, 16)
	for i := 0; i < cap(done); i++ {
		go func(i int) {
			secret := "hunter22"
			if i%2 == 1 {
				secret = "wrong"
			}
			_, err := a.Authenticate(context.Background(), "alice@example.com", secret)
			if i%2 == 1 && !errors.Is(err, ErrInvalidCredentials) {
				done <- errors.New("expected invalid credentials")
				return
			}
			if i%2 == 0 && err != nil {
				done <- err
				return
			}
			done <- nil
		}(i)
	}
	for i := 0; i < cap(done); i++ {
		assert.NoError(t, <-done)
	}
}
