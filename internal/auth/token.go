package auth

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/authcore/internal/domain"
)

// DefaultTokenTTL applies when neither the codec nor the caller sets a lifetime.
const DefaultTokenTTL = 24 * time.Hour

var (
	ErrEmptySecret  = errors.New("signing secret must not be empty")
	ErrInvalidTTL   = errors.New("token ttl must be at least one millisecond")
	ErrEmptySubject = errors.New("subject must not be empty")
)

var signingMethod = jwt.SigningMethodHS256

// timestampPrecision is the resolution of iat and exp.
const timestampPrecision = time.Millisecond

func init() {
	// NumericDate is serialized at this precision and decoded through a
	// float64. Encoding one step finer than timestampPrecision lets Verify
	// round the decoded value back to the exact instant that was issued.
	jwt.TimePrecision = time.Microsecond
}

// segmentEncoding rejects padding and non-canonical trailing bits, so every
// encoded token has exactly one byte-level reading.
var segmentEncoding = base64.RawURLEncoding.Strict()

// TokenCodec issues and verifies HS256 access tokens. It is immutable after
// construction and safe for concurrent use.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// CodecOption customises a TokenCodec.
type CodecOption func(*TokenCodec)

// WithClock overrides the time source used for issuance and expiry checks.
func WithClock(now func() time.Time) CodecOption {
	return func(c *TokenCodec) {
		if now != nil {
			c.now = now
		}
	}
}

// NewTokenCodec builds a codec around a copy of secret.
func NewTokenCodec(secret []byte, defaultTTL time.Duration, opts ...CodecOption) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	if defaultTTL <= 0 {
		defaultTTL = DefaultTokenTTL
	}
	if defaultTTL < timestampPrecision {
		return nil, ErrInvalidTTL
	}
	defaultTTL = defaultTTL.Truncate(timestampPrecision)

	c := &TokenCodec{
		secret: append([]byte(nil), secret...),
		ttl:    defaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	// Expiry is checked by Verify itself once the signature has been trusted.
	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithoutClaimsValidation(),
	)
	return c, nil
}

// DefaultTTL returns the lifetime used when Issue is called with ttl == 0.
func (c *TokenCodec) DefaultTTL() time.Duration {
	return c.ttl
}

// Issue signs a token for subject valid for ttl. Timestamps carry millisecond
// precision, so issuedAt is truncated to the millisecond and ttl must be at
// least one.
func (c *TokenCodec) Issue(subject domain.SubjectIdentity, ttl time.Duration) (string, domain.TokenClaims, error) {
	if subject == "" {
		return "", domain.TokenClaims{}, ErrEmptySubject
	}
	if ttl == 0 {
		ttl = c.ttl
	}
	if ttl < timestampPrecision {
		return "", domain.TokenClaims{}, ErrInvalidTTL
	}
	ttl = ttl.Truncate(timestampPrecision)

	issuedAt := c.now().Truncate(timestampPrecision)
	out := domain.TokenClaims{
		TokenID:   uuid.NewString(),
		Subject:   subject,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(ttl),
	}

	claims := jwt.RegisteredClaims{
		ID:        out.TokenID,
		Subject:   string(subject),
		IssuedAt:  jwt.NewNumericDate(out.IssuedAt),
		ExpiresAt: jwt.NewNumericDate(out.ExpiresAt),
	}
	token, err := jwt.NewWithClaims(signingMethod, claims).SignedString(c.secret)
	if err != nil {
		return "", domain.TokenClaims{}, err
	}
	return token, out, nil
}

// Verify checks structure, then signature, then expiry. No payload field is
// read before the signature has been validated.
func (c *TokenCodec) Verify(token string) (domain.TokenClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return domain.TokenClaims{}, newError(ReasonMalformedToken, "expected three segments", nil)
	}
	segments := make([][]byte, len(parts))
	for i, part := range parts {
		if part == "" {
			return domain.TokenClaims{}, newError(ReasonMalformedToken, "empty segment", nil)
		}
		decoded, err := segmentEncoding.DecodeString(part)
		if err != nil {
			return domain.TokenClaims{}, newError(ReasonMalformedToken, "segment is not base64url", err)
		}
		segments[i] = decoded
	}

	// HMAC Verify compares with hmac.Equal.
	signingString := parts[0] + "." + parts[1]
	if err := signingMethod.Verify(signingString, segments[2], c.secret); err != nil {
		return domain.TokenClaims{}, newError(ReasonBadSignature, "", err)
	}

	var claims jwt.RegisteredClaims
	if _, err := c.parser.ParseWithClaims(token, &claims, c.keyFunc); err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return domain.TokenClaims{}, newError(ReasonBadSignature, "unexpected signing method", err)
		}
		return domain.TokenClaims{}, newError(ReasonMalformedToken, "undecodable claims", err)
	}
	if claims.Subject == "" || claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return domain.TokenClaims{}, newError(ReasonMalformedToken, "missing required claim", nil)
	}

	out := domain.TokenClaims{
		TokenID:   claims.ID,
		Subject:   domain.SubjectIdentity(claims.Subject),
		IssuedAt:  claims.IssuedAt.Time.Round(timestampPrecision),
		ExpiresAt: claims.ExpiresAt.Time.Round(timestampPrecision),
	}
	if c.now().After(out.ExpiresAt) {
		return domain.TokenClaims{}, newError(ReasonExpired, "expired at "+out.ExpiresAt.UTC().Format(time.RFC3339Nano), nil)
	}
	return out, nil
}

func (c *TokenCodec) keyFunc(*jwt.Token) (interface{}, error) {
	return c.secret, nil
}
