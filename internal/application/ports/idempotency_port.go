package ports

import (
	"context"
	"time"
)

// IdempotencyRecord respuesta registrada para una clave Idempotency-Key.
type IdempotencyRecord struct {
	InProgress  bool      `json:"in_progress"`
	BodyHash    string    `json:"body_sha256"`
	Status      int       `json:"status"`
	Body        []byte    `json:"body"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// IdempotencyStore almacena reservas y respuestas de peticiones mutantes.
type IdempotencyStore interface {
	// Reserve registra la clave como "en curso". Devuelve false si ya existía.
	Reserve(ctx context.Context, key string, rec IdempotencyRecord, ttl time.Duration) (bool, error)
	// Load devuelve (nil, nil) si la clave no existe.
	Load(ctx context.Context, key string) (*IdempotencyRecord, error)
	Save(ctx context.Context, key string, rec IdempotencyRecord, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}
