// Package memory implementa los puertos de persistencia en memoria. Se usa en tests
// y en demos (APP_STORAGE=memory). Las unidades de trabajo se serializan con un mutex
// y trabajan sobre una copia del estado que solo se publica si fn no devuelve error.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/pyme-erp/internal/domain/entity"
	"github.com/jhoicas/pyme-erp/internal/domain/repository"
)

type state struct {
	products  map[string]*entity.Product
	orders    map[entity.OrderKind]map[string]*entity.Order
	items     map[entity.OrderKind]map[string]*entity.OrderItem
	movements []*entity.StockMovement
}

func newState() *state {
	return &state{
		products: map[string]*entity.Product{},
		orders: map[entity.OrderKind]map[string]*entity.Order{
			entity.KindSales:    {},
			entity.KindPurchase: {},
		},
		items: map[entity.OrderKind]map[string]*entity.OrderItem{
			entity.KindSales:    {},
			entity.KindPurchase: {},
		},
	}
}

func (s *state) clone() *state {
	out := newState()
	for id, p := range s.products {
		cp := *p
		out.products[id] = &cp
	}
	for kind, orders := range s.orders {
		for id, o := range orders {
			cp := *o
			out.orders[kind][id] = &cp
		}
	}
	for kind, items := range s.items {
		for id, it := range items {
			cp := *it
			out.items[kind][id] = &cp
		}
	}
	// los movimientos son inmutables: basta con copiar el slice
	out.movements = append([]*entity.StockMovement(nil), s.movements...)
	return out
}

// Store almacén en memoria. Implementa repository.TxRunner.
type Store struct {
	mu    sync.Mutex
	state *state

	users   *userRepo
	catalog *catalogRepo
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		state:   newState(),
		users:   &userRepo{byName: map[string]*entity.User{}},
		catalog: &catalogRepo{sets: map[string]map[string]entity.Record{}},
	}
}

var _ repository.TxRunner = (*Store)(nil)

// Run ejecuta fn sobre una copia del estado. Si fn devuelve nil la copia pasa a ser
// el estado vigente; en otro caso se descarta (rollback).
func (s *Store) Run(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.state.clone()
	if err := fn(&unitOfWork{st: work}); err != nil {
		return err
	}
	s.state = work
	return nil
}

// Users repositorio de usuarios.
func (s *Store) Users() repository.UserRepository { return s.users }

// Catalog repositorio de conjuntos genéricos.
func (s *Store) Catalog() repository.CatalogRepository { return s.catalog }

type unitOfWork struct {
	st *state
}

func (u *unitOfWork) Products() repository.ProductRepository { return &productRepo{st: u.st} }

func (u *unitOfWork) Orders(kind entity.OrderKind) repository.OrderRepository {
	return &orderRepo{st: u.st, kind: kind}
}

func (u *unitOfWork) Movements() repository.StockMovementRepository { return &movementRepo{st: u.st} }
