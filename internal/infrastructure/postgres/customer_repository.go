package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/sakura-shop/backoffice/internal/domain"
	"github.com/sakura-shop/backoffice/internal/domain/entity"
	"github.com/sakura-shop/backoffice/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customerColumns = "id, name, phone, email, address, tags, created_at, updated_at"

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	query := `
		INSERT INTO customers (id, name, phone, email, address, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		customer.ID, customer.Name, customer.Phone, customer.Email, customer.Address,
		nonNilTags(customer.Tags), customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	var c entity.Customer
	query := "SELECT " + customerColumns + " FROM customers WHERE id = $1"
	if err := pgxscan.Get(ctx, r.q, &c, query, id); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

// FindByPhoneOrEmail busca por teléfono exacto o email (sin distinguir mayúsculas).
// Si ambos coinciden con clientes distintos gana el del teléfono; a igualdad, el más antiguo.
func (r *CustomerRepo) FindByPhoneOrEmail(ctx context.Context, phone, email string) (*entity.Customer, error) {
	if phone == "" && email == "" {
		return nil, nil
	}
	query := "SELECT " + customerColumns + ` FROM customers
		WHERE ($1 <> '' AND phone = $1) OR ($2 <> '' AND lower(email) = lower($2))
		ORDER BY (phone = $1) DESC, created_at ASC
		LIMIT 1`
	var c entity.Customer
	if err := pgxscan.Get(ctx, r.q, &c, query, phone, email); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find customer by phone/email: %w", err)
	}
	return &c, nil
}

// Update actualiza los datos de contacto y las etiquetas.
func (r *CustomerRepo) Update(ctx context.Context, customer *entity.Customer) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE customers SET name = $2, phone = $3, email = $4, address = $5, tags = $6, updated_at = $7
		WHERE id = $1`,
		customer.ID, customer.Name, customer.Phone, customer.Email, customer.Address,
		nonNilTags(customer.Tags), customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista clientes con búsqueda por nombre/teléfono/email y filtro por etiqueta.
func (r *CustomerRepo) List(ctx context.Context, filter repository.CustomerFilter) ([]*entity.Customer, int, error) {
	q := psql.Select(customerColumns).From("customers")
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"phone": pattern},
			squirrel.ILike{"email": pattern},
		})
	}
	if filter.Tag != "" {
		q = q.Where("? = ANY(tags)", filter.Tag)
	}

	countSQL, countArgs, err := psql.Select("COUNT(*)").FromSelect(q, "sub").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}
	var total int
	if err := r.q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	q = q.OrderBy("name ASC", "created_at ASC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}
	var list []*entity.Customer
	if err := pgxscan.Select(ctx, r.q, &list, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	return list, total, nil
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
