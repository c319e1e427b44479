package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/hospital-api/internal/application/auth"
)

var _ auth.TokenStore = (*TokenStore)(nil)

// TokenStore refresh tokens vigentes y access tokens revocados, en memoria.
// Se usa cuando no hay Redis configurado.
type TokenStore struct {
	mu      sync.Mutex
	refresh map[string]time.Time // jti → expiración (cero = nunca)
	revoked map[string]time.Time
	now     func() time.Time
}

// NewTokenStore crea el almacén vacío.
func NewTokenStore() *TokenStore {
	return &TokenStore{refresh: map[string]time.Time{}, revoked: map[string]time.Time{}, now: time.Now}
}

func (s *TokenStore) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return s.now().Add(ttl)
}

func (s *TokenStore) alive(exp time.Time) bool {
	return exp.IsZero() || s.now().Before(exp)
}

func (s *TokenStore) SaveRefresh(_ context.Context, jti, _ string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh[jti] = s.expiry(ttl)
	return nil
}

func (s *TokenStore) ConsumeRefresh(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.refresh[jti]
	if !ok {
		return false, nil
	}
	delete(s.refresh, jti)
	return s.alive(exp), nil
}

func (s *TokenStore) RevokeAccess(_ context.Context, jti string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[jti] = s.expiry(ttl)
	return nil
}

func (s *TokenStore) IsAccessRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.revoked[jti]
	if !ok {
		return false, nil
	}
	if !s.alive(exp) {
		delete(s.revoked, jti)
		return false, nil
	}
	return true, nil
}
