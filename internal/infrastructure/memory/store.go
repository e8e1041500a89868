// Package memory implementa los repositorios en memoria. Sirve para desarrollo
// (STORE_DRIVER=memory) y como doble de persistencia en tests.
package memory

import (
	"sync"

	"github.com/sakura-shop/backoffice/internal/domain/entity"
)

// Store guarda todo el estado detrás de un único mutex. Las transacciones lo retienen
// durante todo el callback y trabajan sobre una copia que se publica al hacer commit.
type Store struct {
	mu    sync.Mutex
	state *state
}

type state struct {
	products  map[string]*entity.Product // por id
	customers map[string]*entity.Customer
	sales     map[string]*entity.Sale
	users     map[string]*entity.User
	adSpend   map[string]*entity.AdSpend // por fecha|plataforma|campaña
}

// New crea un store vacío.
func New() *Store {
	return &Store{state: newState()}
}

func newState() *state {
	return &state{
		products:  make(map[string]*entity.Product),
		customers: make(map[string]*entity.Customer),
		sales:     make(map[string]*entity.Sale),
		users:     make(map[string]*entity.User),
		adSpend:   make(map[string]*entity.AdSpend),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = cloneProduct(v)
	}
	for k, v := range s.customers {
		c.customers[k] = cloneCustomer(v)
	}
	for k, v := range s.sales {
		c.sales[k] = cloneSale(v)
	}
	for k, v := range s.users {
		u := *v
		c.users[k] = &u
	}
	for k, v := range s.adSpend {
		a := *v
		c.adSpend[k] = &a
	}
	return c
}

// accessor da acceso al estado: con lock (fuera de tx) o directo (dentro de una tx que ya lo tiene).
type accessor interface {
	with(fn func(st *state) error) error
}

type lockedAccess struct{ s *Store }

func (a lockedAccess) with(fn func(st *state) error) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	return fn(a.s.state)
}

type txAccess struct{ st *state }

func (a txAccess) with(fn func(st *state) error) error { return fn(a.st) }

func cloneProduct(p *entity.Product) *entity.Product {
	c := *p
	return &c
}

func cloneCustomer(cu *entity.Customer) *entity.Customer {
	c := *cu
	c.Tags = append([]string(nil), cu.Tags...)
	return &c
}

func cloneSale(s *entity.Sale) *entity.Sale {
	c := *s
	c.Items = append([]entity.SaleItem(nil), s.Items...)
	if s.CustomerID != nil {
		id := *s.CustomerID
		c.CustomerID = &id
	}
	if s.DeletedAt != nil {
		at := *s.DeletedAt
		c.DeletedAt = &at
	}
	if s.DeletedBy != nil {
		by := *s.DeletedBy
		c.DeletedBy = &by
	}
	return &c
}

// Repositorios atados al store (fuera de transacción).

// Products devuelve el repositorio de productos.
func (s *Store) Products() *ProductRepo { return &ProductRepo{a: lockedAccess{s}} }

// Customers devuelve el repositorio de clientes.
func (s *Store) Customers() *CustomerRepo { return &CustomerRepo{a: lockedAccess{s}} }

// Sales devuelve el repositorio de ventas.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{a: lockedAccess{s}} }

// Users devuelve el repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{a: lockedAccess{s}} }

// AdSpend devuelve el repositorio de gasto publicitario.
func (s *Store) AdSpend() *AdSpendRepo { return &AdSpendRepo{a: lockedAccess{s}} }

// Analytics devuelve el repositorio de consultas de reportes.
func (s *Store) Analytics() *AnalyticsRepo { return &AnalyticsRepo{a: lockedAccess{s}} }
