package main

import (
	"context"
	"fmt"

	"github.com/sakura-shop/backoffice/internal/application/sales"
	"github.com/sakura-shop/backoffice/internal/application/usecase"
	"github.com/sakura-shop/backoffice/internal/domain/repository"
	"github.com/sakura-shop/backoffice/internal/infrastructure/memory"
	"github.com/sakura-shop/backoffice/internal/infrastructure/postgres"
	"github.com/sakura-shop/backoffice/pkg/config"
	"github.com/sakura-shop/backoffice/pkg/logger"
)

// txRunner transacciones de ventas y de recepción de mercadería.
type txRunner interface {
	sales.SalesTxRunner
	usecase.ProductTxRunner
}

// repositories backend de persistencia elegido por STORE_DRIVER.
type repositories struct {
	products  repository.ProductRepository
	customers repository.CustomerRepository
	sales     repository.SaleRepository
	users     repository.UserRepository
	adSpend   repository.AdSpendRepository
	analytics repository.AnalyticsRepository
	tx        txRunner
	close     func()
}

// openStore abre PostgreSQL (y aplica el esquema) o crea el store en memoria.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (*repositories, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		log.Warn().Msg("STORE_DRIVER=memory: los datos se pierden al reiniciar")
		st := memory.New()
		return &repositories{
			products:  st.Products(),
			customers: st.Customers(),
			sales:     st.Sales(),
			users:     st.Users(),
			adSpend:   st.AdSpend(),
			analytics: st.Analytics(),
			tx:        st,
			close:     func() {},
		}, nil
	case config.StoreDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("aplicar esquema: %w", err)
		}
		return &repositories{
			products:  postgres.NewProductRepository(pool),
			customers: postgres.NewCustomerRepository(pool),
			sales:     postgres.NewSaleRepository(pool),
			users:     postgres.NewUserRepository(pool),
			adSpend:   postgres.NewAdSpendRepository(pool),
			analytics: postgres.NewAnalyticsRepository(pool),
			tx:        postgres.NewTxRunner(pool),
			close:     pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("STORE_DRIVER desconocido: %q", cfg.Store.Driver)
}
