package ports

import (
	"context"
	"time"
)

// ReceiptStore guarda los comprobantes PDF emitidos después del commit.
type ReceiptStore interface {
	Put(ctx context.Context, key string, pdf []byte, ttl time.Duration) error
	// Get devuelve (nil, nil) si el comprobante no existe o expiró.
	Get(ctx context.Context, key string) ([]byte, error)
}
