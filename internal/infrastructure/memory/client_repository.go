package memory

import (
	"context"

	"github.com/jhoicas/cafe-ledger-api/internal/domain/entity"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo lectura de clientes sembrados con AddClient.
type ClientRepo struct{ s *Store }

// Clients devuelve el repositorio de clientes del store.
func (s *Store) Clients() *ClientRepo { return &ClientRepo{s: s} }

// GetByID devuelve (nil, nil) si no existe.
func (r *ClientRepo) GetByID(_ context.Context, id int64) (*entity.Client, error) {
	r.s.auxMu.RLock()
	defer r.s.auxMu.RUnlock()
	if c, ok := r.s.clients[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}
