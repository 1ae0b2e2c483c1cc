package service

import (
	"context"
	"time"

	"github.com/spec-kit/authcore/internal/auth"
	"github.com/spec-kit/authcore/internal/config"
	"github.com/spec-kit/authcore/internal/domain"
	"github.com/spec-kit/authcore/internal/repository"
)

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	Credentials repository.CredentialRepository
	// Clock overrides time.Now for token issuance and verification.
	Clock func() time.Time
}

// AuthService coordinates the login flow: verify, then issue.
type AuthService struct {
	authenticator *auth.Authenticator
	codec         *auth.TokenCodec
}

// LoginResult is a freshly issued access token.
type LoginResult struct {
	Token  string
	Claims domain.TokenClaims
}

// NewAuthService builds the service from auth configuration.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) (*AuthService, error) {
	codec, err := auth.NewTokenCodec(cfg.SigningSecret, cfg.TokenTTL, auth.WithClock(deps.Clock))
	if err != nil {
		return nil, err
	}
	authenticator, err := auth.NewAuthenticator(deps.Credentials, cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	return &AuthService{authenticator: authenticator, codec: codec}, nil
}

// Login authenticates the credential pair and issues a token with the default lifetime.
func (s *AuthService) Login(ctx context.Context, identifier, secret string) (*LoginResult, error) {
	subject, err := s.authenticator.Authenticate(ctx, identifier, secret)
	if err != nil {
		return nil, err
	}
	token, claims, err := s.codec.Issue(subject, 0)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, Claims: claims}, nil
}

// TokenCodec exposes the codec for the authorization gate.
func (s *AuthService) TokenCodec() *auth.TokenCodec {
	return s.codec
}
