package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/cafe-ledger-api/internal/application/ports"
)

var (
	_ ports.IdempotencyStore = (*IdempotencyStore)(nil)
	_ ports.ReceiptStore     = (*ReceiptStore)(nil)
)

type expiring[T any] struct {
	value     T
	expiresAt time.Time
}

// IdempotencyStore reemplazo de redis cuando REDIS_ADDR está vacío.
type IdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]expiring[ports.IdempotencyRecord]
	now     func() time.Time
}

// NewIdempotencyStore construye el store.
func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{entries: map[string]expiring[ports.IdempotencyRecord]{}, now: time.Now}
}

func (s *IdempotencyStore) live(key string) (expiring[ports.IdempotencyRecord], bool) {
	e, ok := s.entries[key]
	if ok && s.now().After(e.expiresAt) {
		delete(s.entries, key)
		return e, false
	}
	return e, ok
}

func (s *IdempotencyStore) Reserve(_ context.Context, key string, rec ports.IdempotencyRecord, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.live(key); ok {
		return false, nil
	}
	s.entries[key] = expiring[ports.IdempotencyRecord]{value: rec, expiresAt: s.now().Add(ttl)}
	return true, nil
}

func (s *IdempotencyStore) Load(_ context.Context, key string) (*ports.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live(key)
	if !ok {
		return nil, nil
	}
	rec := e.value
	return &rec, nil
}

func (s *IdempotencyStore) Save(_ context.Context, key string, rec ports.IdempotencyRecord, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = expiring[ports.IdempotencyRecord]{value: rec, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *IdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// ReceiptStore guarda comprobantes en memoria.
type ReceiptStore struct {
	mu      sync.RWMutex
	entries map[string]expiring[[]byte]
	now     func() time.Time
}

// NewReceiptStore construye el store.
func NewReceiptStore() *ReceiptStore {
	return &ReceiptStore{entries: map[string]expiring[[]byte]{}, now: time.Now}
}

func (s *ReceiptStore) Put(_ context.Context, key string, pdf []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = expiring[[]byte]{value: pdf, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *ReceiptStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok || s.now().After(e.expiresAt) {
		return nil, nil
	}
	return e.value, nil
}
