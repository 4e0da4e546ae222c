package persistence

import (
	"context"
	"errors"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/pos-pro/internal/domain"
)

// RedisStore almacén de blobs sobre Redis: un GET/SET por clave lógica, sin
// expiración (los snapshots son el estado durable del motor).
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore construye el cliente.
func NewRedisStore(addr, password string, db int) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStore{client: client}
}

// Ping verifica la conexión.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close cierra el cliente.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Save guarda el blob bajo la clave.
func (s *RedisStore) Save(ctx context.Context, key string, blob []byte) error {
	if err := s.client.Set(ctx, key, blob, 0).Err(); err != nil {
		return fmt.Errorf("%w: SET %s: %v", domain.ErrPersistence, key, err)
	}
	return nil
}

// Load lee el blob; redis.Nil se interpreta como clave ausente.
func (s *RedisStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	blob, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: GET %s: %v", domain.ErrPersistence, key, err)
	}
	return blob, true, nil
}
