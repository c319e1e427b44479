package auth

import (
	"context"
	"time"
)

// TokenStore registro de refresh tokens vigentes y de access tokens revocados, por jti.
// ttl 0 significa sin expiración.
type TokenStore interface {
	SaveRefresh(ctx context.Context, jti, userID string, ttl time.Duration) error
	// ConsumeRefresh elimina el refresh token; false si no estaba registrado.
	ConsumeRefresh(ctx context.Context, jti string) (bool, error)
	RevokeAccess(ctx context.Context, jti string, ttl time.Duration) error
	IsAccessRevoked(ctx context.Context, jti string) (bool, error)
}
