package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/hospital-api/internal/application/auth"
)

var _ auth.TokenStore = (*TokenStore)(nil)

const (
	refreshPrefix = "auth:refresh:"
	revokedPrefix = "auth:revoked:"
)

// TokenStore guarda un key por jti; la expiración de Redis coincide con la del token.
type TokenStore struct {
	rdb *redis.Client
}

// NewTokenStore construye el adaptador.
func NewTokenStore(rdb *redis.Client) *TokenStore {
	return &TokenStore{rdb: rdb}
}

func (s *TokenStore) SaveRefresh(ctx context.Context, jti, userID string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, refreshPrefix+jti, userID, ttl).Err(); err != nil {
		return fmt.Errorf("guardar refresh token: %w", err)
	}
	return nil
}

// ConsumeRefresh usa GETDEL: dos rotaciones concurrentes del mismo token no pueden ganar ambas.
func (s *TokenStore) ConsumeRefresh(ctx context.Context, jti string) (bool, error) {
	_, err := s.rdb.GetDel(ctx, refreshPrefix+jti).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("consumir refresh token: %w", err)
	}
	return true, nil
}

func (s *TokenStore) RevokeAccess(ctx context.Context, jti string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, revokedPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revocar access token: %w", err)
	}
	return nil
}

func (s *TokenStore) IsAccessRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, revokedPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("consultar revocación: %w", err)
	}
	return n > 0, nil
}
