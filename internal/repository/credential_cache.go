package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/authcore/internal/domain"
)

const (
	credentialKeyPrefix = "authcore:credential:"
	fieldSubject        = "subject_id"
	fieldSecretHash     = "secret_hash"
	fieldVersion        = "version"
)

type cachedCredentialRepository struct {
	primary VersionedCredentialRepository
	client  redis.Cmdable
	ttl     time.Duration
	logger  *zap.Logger
}

// NewCachedCredentialRepository puts a Redis read-through cache in front of
// primary. A cached record is only returned after primary confirms its
// version, so a suspended account or a changed hash is never served from
// Redis. Only found records are cached. Redis errors are logged and the
// lookup falls through to primary. A nil client or non-positive ttl returns
// primary unchanged.
func NewCachedCredentialRepository(primary VersionedCredentialRepository, client redis.Cmdable, ttl time.Duration, logger *zap.Logger) CredentialRepository {
	if client == nil || ttl <= 0 {
		return primary
	}
	return &cachedCredentialRepository{primary: primary, client: client, ttl: ttl, logger: logger}
}

func credentialKey(identifier string) string {
	return credentialKeyPrefix + NormalizeIdentifier(identifier)
}

func (r *cachedCredentialRepository) FindCredential(ctx context.Context, identifier string) (*domain.CredentialRecord, error) {
	key := credentialKey(identifier)

	if cached, ok := r.read(ctx, key); ok {
		version, err := r.primary.CredentialVersion(ctx, identifier)
		switch {
		case errors.Is(err, domain.ErrCredentialNotFound):
			r.evict(ctx, key)
			return nil, err
		case err != nil:
			return nil, err
		case version == cached.Version:
			return cached, nil
		}
	}

	record, err := r.primary.FindCredential(ctx, identifier)
	if err != nil {
		return nil, err
	}
	r.write(ctx, key, record)
	return record, nil
}

func (r *cachedCredentialRepository) read(ctx context.Context, key string) (*domain.CredentialRecord, bool) {
	vals, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		r.logger.Warn("credential cache read failed", zap.Error(err))
		return nil, false
	}
	return decodeCredential(vals)
}

func (r *cachedCredentialRepository) write(ctx context.Context, key string, record *domain.CredentialRecord) {
	if _, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			fieldSubject, string(record.SubjectID),
			fieldSecretHash, string(record.SecretHash),
			fieldVersion, strconv.FormatInt(record.Version, 10),
		)
		pipe.Expire(ctx, key, r.ttl)
		return nil
	}); err != nil {
		r.logger.Warn("credential cache write failed", zap.Error(err))
	}
}

func (r *cachedCredentialRepository) evict(ctx context.Context, key string) {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Warn("credential cache evict failed", zap.Error(err))
	}
}

func decodeCredential(vals map[string]string) (*domain.CredentialRecord, bool) {
	subject, hash := vals[fieldSubject], vals[fieldSecretHash]
	if subject == "" || hash == "" {
		return nil, false
	}
	version, err := strconv.ParseInt(vals[fieldVersion], 10, 64)
	if err != nil {
		return nil, false
	}
	return &domain.CredentialRecord{
		SubjectID:  domain.SubjectIdentity(subject),
		SecretHash: []byte(hash),
		Version:    version,
	}, true
}
