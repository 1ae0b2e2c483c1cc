package domain

import "time"

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is the persisted account row that backs a credential record.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// CredentialVersion is bumped by the database on every hash or status change.
	CredentialVersion int64
}

// Credential projects the user onto the record the authenticator consumes.
func (u *User) Credential() *CredentialRecord {
	return &CredentialRecord{
		SubjectID:  SubjectIdentity(u.ID),
		SecretHash: []byte(u.PasswordHash),
		Version:    u.CredentialVersion,
	}
}
