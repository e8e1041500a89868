package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sakura-shop/backoffice/internal/application/dto"
	"github.com/sakura-shop/backoffice/internal/domain/entity"
	"github.com/sakura-shop/backoffice/internal/domain/repository"
)

// CustomerResolver resuelve o crea el cliente de un pedido. Corre fuera de la transacción
// de la venta: sus efectos no se deshacen si la venta falla, y repetirlo es seguro porque
// las búsquedas son por id, teléfono o email.
type CustomerResolver struct {
	repo repository.CustomerRepository
	now  func() time.Time
}

// NewCustomerResolver construye el resolvedor.
func NewCustomerResolver(repo repository.CustomerRepository) *CustomerResolver {
	return &CustomerResolver{repo: repo, now: time.Now}
}

// Resolve devuelve el cliente a enlazar, o nil si el pedido no trae ninguna identidad.
//
// Orden: id explícito → coincidencia por teléfono/email → alta nueva. En los dos primeros
// casos solo se completa la dirección si estaba vacía. El nombre de un alta nueva cae a
// teléfono y luego a email; nunca se inventa un nombre.
func (r *CustomerResolver) Resolve(ctx context.Context, ref dto.CustomerRef) (*entity.Customer, error) {
	id := strings.TrimSpace(ref.ID)
	name := strings.TrimSpace(ref.Name)
	phone := strings.TrimSpace(ref.Phone)
	email := strings.ToLower(strings.TrimSpace(ref.Email))
	address := strings.TrimSpace(ref.Address)

	if id != "" {
		c, err := r.repo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("buscar cliente por id: %w", err)
		}
		if c != nil {
			return c, r.backfillAddress(ctx, c, address)
		}
	}

	if phone != "" || email != "" {
		c, err := r.repo.FindByPhoneOrEmail(ctx, phone, email)
		if err != nil {
			return nil, fmt.Errorf("buscar cliente por teléfono/email: %w", err)
		}
		if c != nil {
			return c, r.backfillAddress(ctx, c, address)
		}
	}

	if name == "" {
		name = phone
	}
	if name == "" {
		name = email
	}
	if name == "" {
		return nil, nil
	}

	now := r.now()
	c := &entity.Customer{
		ID:        uuid.New().String(),
		Name:      name,
		Phone:     phone,
		Email:     email,
		Address:   address,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("crear cliente: %w", err)
	}
	return c, nil
}

func (r *CustomerResolver) backfillAddress(ctx context.Context, c *entity.Customer, address string) error {
	if address == "" || c.Address != "" {
		return nil
	}
	c.Address = address
	c.UpdatedAt = r.now()
	if err := r.repo.Update(ctx, c); err != nil {
		return fmt.Errorf("actualizar dirección del cliente: %w", err)
	}
	return nil
}
