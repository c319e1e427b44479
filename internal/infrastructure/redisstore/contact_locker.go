package redisstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/hospital-api/internal/application/billing"
)

var _ billing.ContactLocker = (*ContactLocker)(nil)

const contactLockTTL = 30 * time.Second

// ContactLocker lock distribuido por contacto para la reconciliación de pacientes.
// Reintenta durante ~2s antes de rendirse; el llamador decide si sigue sin lock.
type ContactLocker struct {
	locker *redislock.Client
	retry  redislock.RetryStrategy
}

// NewContactLocker construye el locker sobre el cliente Redis.
func NewContactLocker(rdb *redis.Client) *ContactLocker {
	return &ContactLocker{
		locker: redislock.New(rdb),
		retry:  redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 20),
	}
}

// Lock obtiene lock:patient:<contacto>. El unlock devuelto libera con un contexto propio.
func (l *ContactLocker) Lock(ctx context.Context, contact string) (func(), error) {
	key := "lock:patient:" + strings.ToLower(strings.TrimSpace(contact))
	lock, err := l.locker.Obtain(ctx, key, contactLockTTL, &redislock.Options{RetryStrategy: l.retry})
	if err != nil {
		return nil, fmt.Errorf("obtener lock %s: %w", key, err)
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = lock.Release(ctx)
	}, nil
}
