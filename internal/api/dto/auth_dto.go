package dto

import "time"

// LoginRequest payload for POST /auth/login.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SubjectResponse describes the caller of an authenticated request.
type SubjectResponse struct {
	Subject   string    `json:"subject"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
