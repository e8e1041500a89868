package sales

import (
	"context"

	"github.com/sakura-shop/backoffice/internal/domain/repository"
)

// SalesTxRunner ejecuta fn dentro de una transacción con repositorios atados a ella.
// Si fn devuelve error se hace rollback; si no, commit.
type SalesTxRunner interface {
	RunSales(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// SequenceAllocator entrega el siguiente consecutivo diario para un prefijo de doc_no.
// No reserva nada: la unicidad la garantiza el índice único y el reintento del caller.
type SequenceAllocator interface {
	NextSequence(ctx context.Context, dayPrefix string) (int, error)
}

// Actor identidad del usuario que ejecuta la operación (auditoría y autorización).
type Actor struct {
	UserID string
	Role   string
}
