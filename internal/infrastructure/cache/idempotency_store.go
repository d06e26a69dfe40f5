package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/cafe-ledger-api/internal/application/ports"
	"github.com/redis/go-redis/v9"
)

const idempotencyPrefix = "idemp:"

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore registros Idempotency-Key en redis, serializados como JSON.
type IdempotencyStore struct {
	rdb *redis.Client
}

// NewIdempotencyStore construye el store.
func NewIdempotencyStore(rdb *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb}
}

// Reserve SETNX de la clave como "en curso".
func (s *IdempotencyStore) Reserve(ctx context.Context, key string, rec ports.IdempotencyRecord, ttl time.Duration) (bool, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return false, fmt.Errorf("idempotencia: serializar: %w", err)
	}
	ok, err := s.rdb.SetNX(ctx, idempotencyPrefix+key, payload, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("idempotencia: reservar: %w", err)
	}
	return ok, nil
}

// Load devuelve (nil, nil) si la clave no existe.
func (s *IdempotencyStore) Load(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	v, err := s.rdb.Get(ctx, idempotencyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("idempotencia: leer: %w", err)
	}
	var rec ports.IdempotencyRecord
	if err := json.Unmarshal(v, &rec); err != nil {
		return nil, fmt.Errorf("idempotencia: registro corrupto: %w", err)
	}
	return &rec, nil
}

// Save guarda la respuesta final.
func (s *IdempotencyStore) Save(ctx context.Context, key string, rec ports.IdempotencyRecord, ttl time.Duration) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("idempotencia: serializar: %w", err)
	}
	if err := s.rdb.Set(ctx, idempotencyPrefix+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("idempotencia: guardar: %w", err)
	}
	return nil
}

// Release libera una reserva cuyo handler no produjo respuesta.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, idempotencyPrefix+key).Err()
}
