package memory

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/sakura-shop/backoffice/internal/domain"
	"github.com/sakura-shop/backoffice/internal/domain/entity"
	"github.com/sakura-shop/backoffice/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo clientes en memoria.
type CustomerRepo struct {
	a accessor
}

// Create inserta el cliente.
func (r *CustomerRepo) Create(_ context.Context, customer *entity.Customer) error {
	return r.a.with(func(st *state) error {
		if _, ok := st.customers[customer.ID]; ok {
			return domain.ErrDuplicate
		}
		st.customers[customer.ID] = cloneCustomer(customer)
		return nil
	})
}

// GetByID devuelve una copia del cliente o (nil, nil).
func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.a.with(func(st *state) error {
		if c, ok := st.customers[id]; ok {
			out = cloneCustomer(c)
		}
		return nil
	})
	return out, err
}

// FindByPhoneOrEmail prioriza coincidencia por teléfono; a igualdad, el más antiguo.
func (r *CustomerRepo) FindByPhoneOrEmail(_ context.Context, phone, email string) (*entity.Customer, error) {
	if phone == "" && email == "" {
		return nil, nil
	}
	var out *entity.Customer
	err := r.a.with(func(st *state) error {
		var byPhone, byEmail *entity.Customer
		for _, c := range st.customers {
			if phone != "" && c.Phone == phone && olderThan(c, byPhone) {
				byPhone = c
			}
			if email != "" && strings.EqualFold(c.Email, email) && olderThan(c, byEmail) {
				byEmail = c
			}
		}
		switch {
		case byPhone != nil:
			out = cloneCustomer(byPhone)
		case byEmail != nil:
			out = cloneCustomer(byEmail)
		}
		return nil
	})
	return out, err
}

func olderThan(c, current *entity.Customer) bool {
	return current == nil || c.CreatedAt.Before(current.CreatedAt)
}

// Update reemplaza los datos del cliente.
func (r *CustomerRepo) Update(_ context.Context, customer *entity.Customer) error {
	return r.a.with(func(st *state) error {
		existing, ok := st.customers[customer.ID]
		if !ok {
			return domain.ErrNotFound
		}
		c := cloneCustomer(customer)
		c.CreatedAt = existing.CreatedAt
		st.customers[customer.ID] = c
		return nil
	})
}

// List filtra por nombre/teléfono/email y etiqueta, ordenado por nombre.
func (r *CustomerRepo) List(_ context.Context, filter repository.CustomerFilter) ([]*entity.Customer, int, error) {
	var all []*entity.Customer
	err := r.a.with(func(st *state) error {
		search := strings.ToLower(strings.TrimSpace(filter.Search))
		for _, c := range st.customers {
			if search != "" && !strings.Contains(strings.ToLower(c.Name), search) &&
				!strings.Contains(c.Phone, search) &&
				!strings.Contains(strings.ToLower(c.Email), search) {
				continue
			}
			if filter.Tag != "" && !slices.Contains(c.Tags, filter.Tag) {
				continue
			}
			all = append(all, cloneCustomer(c))
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	return paginate(all, filter.Limit, filter.Offset), len(all), nil
}
