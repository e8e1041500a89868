package repository

import (
	"context"

	"github.com/sakura-shop/backoffice/internal/domain/entity"
)

// CustomerFilter filtros para el listado del CRM.
type CustomerFilter struct {
	Search string // nombre, teléfono o email
	Tag    string
	Limit  int
	Offset int
}

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	// FindByPhoneOrEmail busca un cliente cuyo teléfono o email coincida (vacíos se ignoran).
	FindByPhoneOrEmail(ctx context.Context, phone, email string) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	List(ctx context.Context, filter CustomerFilter) ([]*entity.Customer, int, error)
}
