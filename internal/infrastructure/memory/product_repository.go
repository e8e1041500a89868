package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sakura-shop/backoffice/internal/domain"
	"github.com/sakura-shop/backoffice/internal/domain/entity"
	"github.com/sakura-shop/backoffice/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria.
type ProductRepo struct {
	a accessor
}

// Create inserta el producto; código repetido es domain.ErrDuplicate.
func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.a.with(func(st *state) error {
		if _, ok := st.products[product.ID]; ok {
			return domain.ErrDuplicate
		}
		if findProductByCode(st, product.Code) != nil {
			return domain.ErrDuplicate
		}
		st.products[product.ID] = cloneProduct(product)
		return nil
	})
}

// GetByID devuelve una copia del producto o (nil, nil).
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.a.with(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = cloneProduct(p)
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: la transacción ya es exclusiva.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// GetByCode devuelve una copia del producto o (nil, nil).
func (r *ProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	var out *entity.Product
	err := r.a.with(func(st *state) error {
		if p := findProductByCode(st, code); p != nil {
			out = cloneProduct(p)
		}
		return nil
	})
	return out, err
}

// GetByCodes devuelve los productos existentes indexados por código.
func (r *ProductRepo) GetByCodes(_ context.Context, codes []string) (map[string]*entity.Product, error) {
	out := make(map[string]*entity.Product, len(codes))
	err := r.a.with(func(st *state) error {
		want := make(map[string]bool, len(codes))
		for _, c := range codes {
			want[c] = true
		}
		for _, p := range st.products {
			if want[p.Code] {
				out[p.Code] = cloneProduct(p)
			}
		}
		return nil
	})
	return out, err
}

// Update actualiza nombre, precio y stock de seguridad.
func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	return r.a.with(func(st *state) error {
		p, ok := st.products[product.ID]
		if !ok {
			return domain.ErrNotFound
		}
		p.Name = product.Name
		p.Price = product.Price
		p.SafetyStock = product.SafetyStock
		p.UpdatedAt = product.UpdatedAt
		return nil
	})
}

// UpdateCost actualiza el costo promedio.
func (r *ProductRepo) UpdateCost(_ context.Context, productID string, cost decimal.Decimal) error {
	return r.mutate(productID, func(p *entity.Product) {
		p.Cost = cost
	})
}

// AddStock suma qty al stock.
func (r *ProductRepo) AddStock(_ context.Context, productID string, qty int) error {
	return r.mutate(productID, func(p *entity.Product) {
		p.Stock += qty
	})
}

// DecrementStock resta qty solo si stock >= qty.
func (r *ProductRepo) DecrementStock(_ context.Context, productID string, qty int) (bool, error) {
	applied := false
	err := r.a.with(func(st *state) error {
		p, ok := st.products[productID]
		if !ok || p.Stock < qty {
			return nil
		}
		p.Stock -= qty
		applied = true
		return nil
	})
	return applied, err
}

// ForceDecrementStock resta qty sin condición.
func (r *ProductRepo) ForceDecrementStock(_ context.Context, productID string, qty int) error {
	return r.mutate(productID, func(p *entity.Product) {
		p.Stock -= qty
	})
}

func (r *ProductRepo) mutate(productID string, fn func(p *entity.Product)) error {
	return r.a.with(func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return domain.ErrNotFound
		}
		fn(p)
		return nil
	})
}

// List filtra por código/nombre y stock bajo, ordenado por código.
func (r *ProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, int, error) {
	var all []*entity.Product
	err := r.a.with(func(st *state) error {
		search := strings.ToLower(strings.TrimSpace(filter.Search))
		for _, p := range st.products {
			if search != "" && !strings.Contains(strings.ToLower(p.Code), search) &&
				!strings.Contains(strings.ToLower(p.Name), search) {
				continue
			}
			if filter.LowStock && !p.IsLowStock() {
				continue
			}
			all = append(all, cloneProduct(p))
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	return paginate(all, filter.Limit, filter.Offset), len(all), nil
}

// CountLowStock cuenta productos con stock <= stock de seguridad.
func (r *ProductRepo) CountLowStock(_ context.Context) (int, error) {
	n := 0
	err := r.a.with(func(st *state) error {
		for _, p := range st.products {
			if p.IsLowStock() {
				n++
			}
		}
		return nil
	})
	return n, err
}

func findProductByCode(st *state, code string) *entity.Product {
	for _, p := range st.products {
		if p.Code == code {
			return p
		}
	}
	return nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
