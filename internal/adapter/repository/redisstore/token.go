package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"bookkeeping-web/internal/domain/session"
)

// TokenRepository keeps bearer tokens in redis under
// "bk:session:{id}:jwtToken". A zero ttl keeps them until deleted.
type TokenRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewTokenRepository(rdb *redis.Client, ttl time.Duration) *TokenRepository {
	return &TokenRepository{rdb: rdb, ttl: ttl}
}

var _ session.TokenStore = (*TokenRepository)(nil)

func key(sessionID string) string { return "bk:session:" + sessionID + ":" + session.TokenKey }

func (r *TokenRepository) Load(ctx context.Context, sessionID string) (string, error) {
	v, err := r.rdb.Get(ctx, key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", session.ErrTokenNotFound
	}
	return v, err
}

func (r *TokenRepository) Save(ctx context.Context, sessionID, token string) error {
	return r.rdb.Set(ctx, key(sessionID), token, r.ttl).Err()
}

func (r *TokenRepository) Delete(ctx context.Context, sessionID string) error {
	return r.rdb.Del(ctx, key(sessionID)).Err()
}
