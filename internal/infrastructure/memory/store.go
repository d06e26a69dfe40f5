// Package memory implementa los repositorios y el TxRunner en memoria. Cada transacción toma el
// candado global (aislamiento serializable) y trabaja sobre el estado vivo; si la función falla se
// restaura la copia tomada al inicio, de modo que ningún cambio parcial sobrevive.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/cafe-ledger-api/internal/domain/entity"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/repository"
)

type state struct {
	seq           map[string]int64
	contracts     map[int64]*entity.Contract
	deliveries    map[int64]*entity.ContractDelivery
	lots          map[int64]*entity.InventoryLot
	movements     []*entity.InventoryMovement
	loans         map[string]map[int64]*entity.Loan
	loanMovements map[string]map[int64]*entity.LoanMovement
	deposits      map[int64]*entity.Deposit
	liquidations  map[int64]*entity.DepositLiquidation
}

func newState() *state {
	return &state{
		seq:        map[string]int64{},
		contracts:  map[int64]*entity.Contract{},
		deliveries: map[int64]*entity.ContractDelivery{},
		lots:       map[int64]*entity.InventoryLot{},
		loans: map[string]map[int64]*entity.Loan{
			entity.LedgerKindLoan:    {},
			entity.LedgerKindAdvance: {},
		},
		loanMovements: map[string]map[int64]*entity.LoanMovement{
			entity.LedgerKindLoan:    {},
			entity.LedgerKindAdvance: {},
		},
		deposits:     map[int64]*entity.Deposit{},
		liquidations: map[int64]*entity.DepositLiquidation{},
	}
}

func (s *state) next(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.seq {
		c.seq[k] = v
	}
	for id, v := range s.contracts {
		c.contracts[id] = copyContract(v)
	}
	for id, v := range s.deliveries {
		c.deliveries[id] = copyDelivery(v)
	}
	for id, v := range s.lots {
		c.lots[id] = copyLot(v)
	}
	c.movements = make([]*entity.InventoryMovement, len(s.movements))
	for i, v := range s.movements {
		c.movements[i] = copyMovement(v)
	}
	for kind, m := range s.loans {
		for id, v := range m {
			c.loans[kind][id] = copyLoan(v)
		}
	}
	for kind, m := range s.loanMovements {
		for id, v := range m {
			c.loanMovements[kind][id] = copyLoanMovement(v)
		}
	}
	for id, v := range s.deposits {
		c.deposits[id] = copyDeposit(v)
	}
	for id, v := range s.liquidations {
		c.liquidations[id] = copyLiquidation(v)
	}
	return c
}

// Store base de datos en memoria.
type Store struct {
	mu     sync.Mutex
	st     *state
	faults map[string]error

	auxMu   sync.RWMutex
	clients map[int64]*entity.Client
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{st: newState(), faults: map[string]error{}, clients: map[int64]*entity.Client{}}
}

// FailOnce hace que la próxima operación op (p.ej. "deliveries.create") devuelva err.
// Sirve para simular fallas a mitad de transacción.
func (s *Store) FailOnce(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = err
}

// fault se llama con s.mu tomado.
func (s *Store) fault(op string) error {
	if err, ok := s.faults[op]; ok {
		delete(s.faults, op)
		return err
	}
	return nil
}

func (s *Store) run(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.st.clone()
	if err := fn(); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// RunContract transacción del motor de cumplimiento.
func (s *Store) RunContract(ctx context.Context, fn func(
	contracts repository.ContractRepository,
	deliveries repository.ContractDeliveryRepository,
	lots repository.InventoryLotRepository,
	movements repository.InventoryMovementRepository,
) error) error {
	return s.run(func() error {
		return fn(&contractRepo{s}, &deliveryRepo{s}, &lotRepo{s}, &movementRepo{s})
	})
}

// RunInventory transacción de ingresos al pool.
func (s *Store) RunInventory(ctx context.Context, fn func(
	lots repository.InventoryLotRepository,
	movements repository.InventoryMovementRepository,
) error) error {
	return s.run(func() error {
		return fn(&lotRepo{s}, &movementRepo{s})
	})
}

// RunLoan transacción del libro de préstamos/anticipos.
func (s *Store) RunLoan(ctx context.Context, fn func(
	loans repository.LoanRepository,
	movements repository.LoanMovementRepository,
) error) error {
	return s.run(func() error {
		return fn(&loanRepo{s}, &loanMovementRepo{s})
	})
}

// RunDeposit transacción del libro de depósitos.
func (s *Store) RunDeposit(ctx context.Context, fn func(
	deposits repository.DepositRepository,
	liquidations repository.DepositLiquidationRepository,
) error) error {
	return s.run(func() error {
		return fn(&depositRepo{s}, &liquidationRepo{s})
	})
}

// ── Siembra y lectura directa (registro de contratos/clientes fuera del motor, pruebas) ──

// AddContract registra un contrato; asigna ID si viene en cero.
func (s *Store) AddContract(c *entity.Contract) *entity.Contract {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.st.next("contracts")
	} else if c.ID > s.st.seq["contracts"] {
		s.st.seq["contracts"] = c.ID
	}
	if c.Status == "" {
		c.Status = entity.ContractStatusPending
	}
	s.st.contracts[c.ID] = copyContract(c)
	return copyContract(c)
}

// SetContractStatus cambia el estado de un contrato (anulación a nivel contrato, fuera del motor).
func (s *Store) SetContractStatus(id int64, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.st.contracts[id]; ok {
		c.Status = status
	}
}

// SetLoanState cambia el estado de un préstamo/anticipo (absorción o anulación, fuera del libro).
func (s *Store) SetLoanState(kind string, id int64, state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.st.loans[kind][id]; ok {
		l.State = state
	}
}

// AddClient registra un cliente.
func (s *Store) AddClient(c *entity.Client) {
	s.auxMu.Lock()
	defer s.auxMu.Unlock()
	cp := *c
	s.clients[c.ID] = &cp
}

// Contract copia del contrato o nil.
func (s *Store) Contract(id int64) *entity.Contract {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.st.contracts[id]; ok {
		return copyContract(c)
	}
	return nil
}

// Delivery copia de la entrega o nil.
func (s *Store) Delivery(id int64) *entity.ContractDelivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.st.deliveries[id]; ok {
		return copyDelivery(d)
	}
	return nil
}

// Lots copia de los lotes por id ascendente.
func (s *Store) Lots() []*entity.InventoryLot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedLots(s.st.lots)
}

// InventoryMovements copia de todos los movimientos de inventario en orden de escritura.
func (s *Store) InventoryMovements() []*entity.InventoryMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.InventoryMovement, len(s.st.movements))
	for i, m := range s.st.movements {
		out[i] = copyMovement(m)
	}
	return out
}

func sortedLots(m map[int64]*entity.InventoryLot) []*entity.InventoryLot {
	out := make([]*entity.InventoryLot, 0, len(m))
	for _, l := range m {
		out = append(out, copyLot(l))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
