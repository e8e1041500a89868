package repository

import (
	"context"
	"time"

	"github.com/sakura-shop/backoffice/internal/domain/entity"
)

// SaleFilter filtros para el listado de ventas.
type SaleFilter struct {
	From           *time.Time // doc_date >= From
	To             *time.Time // doc_date <= To
	Channel        string
	Status         string
	Search         string // doc_no o nombre del cliente
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// SaleRepository define el puerto de persistencia para Sale y sus líneas.
type SaleRepository interface {
	// Create inserta cabecera y líneas en un solo lote. Si doc_no ya existe devuelve
	// domain.ErrDocNoCollision.
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID y GetByDocNo devuelven la venta con sus líneas, o (nil, nil).
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetByDocNo(ctx context.Context, docNo string) (*entity.Sale, error)
	// LastDocNoWithPrefix devuelve el doc_no lexicográficamente mayor con ese prefijo, o "".
	LastDocNoWithPrefix(ctx context.Context, prefix string) (string, error)
	UpdateStatus(ctx context.Context, id, status string, at time.Time) error
	SoftDelete(ctx context.Context, id, actorID string, at time.Time) error
	ClearDeleted(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context, filter SaleFilter) ([]*entity.Sale, int, error)
}
