package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/cafe-ledger-api/internal/application/ports"
	"github.com/redis/go-redis/v9"
)

var _ ports.ReceiptStore = (*ReceiptStore)(nil)

// ReceiptStore comprobantes PDF en redis con expiración.
type ReceiptStore struct {
	rdb *redis.Client
}

// NewReceiptStore construye el store.
func NewReceiptStore(rdb *redis.Client) *ReceiptStore {
	return &ReceiptStore{rdb: rdb}
}

// Put guarda el PDF bajo key.
func (s *ReceiptStore) Put(ctx context.Context, key string, pdf []byte, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, key, pdf, ttl).Err(); err != nil {
		return fmt.Errorf("comprobante: redis set: %w", err)
	}
	return nil
}

// Get devuelve (nil, nil) si no existe o expiró.
func (s *ReceiptStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("comprobante: redis get: %w", err)
	}
	return b, nil
}
