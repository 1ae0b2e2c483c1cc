package domain

import (
	"errors"
	"time"
)

// ErrCredentialNotFound is returned by credential stores when no usable record exists for an identifier.
var ErrCredentialNotFound = errors.New("credential not found")

// SubjectIdentity identifies an authenticated principal.
type SubjectIdentity string

// String implements fmt.Stringer.
func (s SubjectIdentity) String() string {
	return string(s)
}

// CredentialRecord is the stored (subject, secret hash) pair used to verify a login attempt.
// Version changes whenever the hash or the account status changes; zero means unversioned.
type CredentialRecord struct {
	SubjectID  SubjectIdentity
	SecretHash []byte
	Version    int64
}

// TokenClaims is the decoded content of an access token.
type TokenClaims struct {
	TokenID   string
	Subject   SubjectIdentity
	IssuedAt  time.Time
	ExpiresAt time.Time
}
