package http

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/cafe-ledger-api/internal/application/dto"
	"github.com/jhoicas/cafe-ledger-api/internal/application/ports"
	"github.com/rs/zerolog"
)

const (
	// HeaderIdempotencyKey clave opcional que el cliente envía en las mutaciones.
	HeaderIdempotencyKey = "Idempotency-Key"
	// HeaderIdempotentReplay marca las respuestas servidas desde el store.
	HeaderIdempotentReplay = "Idempotent-Replayed"

	provisionalLockTTL = 60 * time.Second
	storeTimeout       = 2 * time.Second
	maxKeyLength       = 128
)

// Idempotency registra la respuesta de cada mutación con Idempotency-Key.
// Misma clave y mismo cuerpo: se reenvía la respuesta guardada sin tocar el libro.
// Misma clave con otro cuerpo, o la primera petición aún en curso: 409.
// Las respuestas 5xx no se guardan (la transacción se revirtió y el cliente puede reintentar).
func Idempotency(store ports.IdempotencyStore, ttl time.Duration, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}
		idemKey := strings.TrimSpace(c.Get(HeaderIdempotencyKey))
		if idemKey == "" {
			return c.Next()
		}
		if len(idemKey) > maxKeyLength {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "Idempotency-Key demasiado larga"})
		}

		sum := sha256.Sum256(c.Body())
		bodyHash := hex.EncodeToString(sum[:])
		key := strings.Join([]string{GetUserID(c), c.Method(), c.Path(), idemKey}, "|")

		ctx, cancel := context.WithTimeout(c.UserContext(), storeTimeout)
		defer cancel()
		reserved, err := store.Reserve(ctx, key, ports.IdempotencyRecord{
			InProgress: true,
			BodyHash:   bodyHash,
			CreatedAt:  time.Now().UTC(),
		}, provisionalLockTTL)
		if err != nil {
			log.Error().Err(err).Msg("idempotencia: store no disponible")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_UNAVAILABLE", Message: "no se pudo verificar Idempotency-Key, intente más tarde"})
		}
		if !reserved {
			cur, err := store.Load(ctx, key)
			if err != nil {
				log.Warn().Err(err).Str("key", idemKey).Msg("idempotencia: no se pudo leer la clave")
			}
			if cur != nil && cur.BodyHash != bodyHash {
				return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_MISMATCH", Message: "Idempotency-Key reutilizada con otro cuerpo"})
			}
			if cur != nil && !cur.InProgress && cur.Status != 0 {
				c.Set(HeaderIdempotentReplay, "true")
				c.Set(fiber.HeaderContentType, cur.ContentType)
				return c.Status(cur.Status).Send(cur.Body)
			}
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_IN_PROGRESS", Message: "la petición original sigue en curso"})
		}

		if err := c.Next(); err != nil {
			if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
				_ = store.Release(context.Background(), key)
				return herr
			}
		}

		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError {
			if err := store.Release(context.Background(), key); err != nil {
				log.Warn().Err(err).Str("key", idemKey).Msg("idempotencia: no se pudo liberar la clave")
			}
			return nil
		}
		final := ports.IdempotencyRecord{
			BodyHash:    bodyHash,
			Status:      status,
			Body:        append([]byte(nil), c.Response().Body()...),
			ContentType: string(c.Response().Header.ContentType()),
			CreatedAt:   time.Now().UTC(),
		}
		if err := store.Save(context.Background(), key, final, ttl); err != nil {
			log.Warn().Err(err).Str("key", idemKey).Msg("idempotencia: no se pudo guardar la respuesta")
		}
		return nil
	}
}
