package memory

import (
	"context"

	"github.com/sakura-shop/backoffice/internal/application/sales"
	"github.com/sakura-shop/backoffice/internal/application/usecase"
	"github.com/sakura-shop/backoffice/internal/domain/repository"
)

var (
	_ sales.SalesTxRunner     = (*Store)(nil)
	_ usecase.ProductTxRunner = (*Store)(nil)
)

// RunSales ejecuta fn en exclusión mutua sobre una copia del estado; si fn devuelve error la
// copia se descarta.
func (s *Store) RunSales(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
) error) error {
	return s.run(ctx, func(a accessor) error {
		return fn(&SaleRepo{a: a}, &ProductRepo{a: a})
	})
}

// RunProducts igual que RunSales con solo el repo de productos.
func (s *Store) RunProducts(ctx context.Context, fn func(productRepo repository.ProductRepository) error) error {
	return s.run(ctx, func(a accessor) error {
		return fn(&ProductRepo{a: a})
	})
}

func (s *Store) run(ctx context.Context, fn func(a accessor) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(txAccess{st: work}); err != nil {
		return err
	}
	s.state = work
	return nil
}
