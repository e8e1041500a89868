package repository

import (
	"context"

	"github.com/sakura-shop/backoffice/internal/domain/entity"
)

// AdSpendRepository persistencia del gasto publicitario importado.
type AdSpendRepository interface {
	// Upsert inserta o reemplaza por (fecha, plataforma, campaña).
	Upsert(ctx context.Context, rows []*entity.AdSpend) error
}
