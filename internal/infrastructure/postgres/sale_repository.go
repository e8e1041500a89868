package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/sakura-shop/backoffice/internal/domain"
	"github.com/sakura-shop/backoffice/internal/domain/entity"
	"github.com/sakura-shop/backoffice/internal/domain/repository"
	"github.com/sakura-shop/backoffice/internal/domain/sales"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// docNoConstraint índice único cuya violación se reintenta con otro número.
const docNoConstraint = "sales_doc_no_key"

const saleColumns = `id, doc_no, doc_date, list_date, channel, customer_id, customer_name, total, vat,
	grand_total, total_cost, status, deleted_at, deleted_by, created_by, created_at, updated_at`

// lastDocNoQuery $1 = prefijo LIKE escapado, $2 = posición del primer carácter tras el prefijo.
const lastDocNoQuery = `
	SELECT doc_no FROM sales
	WHERE doc_no LIKE $1 AND substring(doc_no from $2::int) ~ '^[0-9]+$'
	ORDER BY length(doc_no) DESC, doc_no DESC LIMIT 1`

const saleItemColumns = "id, sale_id, product_id, code, name, qty, price, discount, amount, cost_each, cogs"

// SaleRepo persistencia de ventas (cabecera + líneas). Usable con pool o tx.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta la cabecera y todas sus líneas en un solo batch.
// La violación de sales_doc_no_key se devuelve como domain.ErrDocNoCollision; cualquier
// otro error sale envuelto tal cual.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO sales (id, doc_no, doc_date, list_date, channel, customer_id, customer_name, total, vat,
			grand_total, total_cost, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		sale.ID, sale.DocNo, sale.DocDate, sale.ListDate, sale.Channel, sale.CustomerID, sale.CustomerName,
		sale.Total, sale.VAT, sale.GrandTotal, sale.TotalCost, sale.Status, sale.CreatedBy,
		sale.CreatedAt, sale.UpdatedAt,
	)
	for i, it := range sale.Items {
		batch.Queue(`
			INSERT INTO sale_items (id, sale_id, product_id, line_no, code, name, qty, price, discount, amount, cost_each, cogs)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			it.ID, sale.ID, it.ProductID, i+1, it.Code, it.Name, it.Qty, it.Price, it.Discount,
			it.Amount, it.CostEach, it.COGS,
		)
	}

	br := r.q.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			if isUniqueViolation(err) && violatedConstraint(err) == docNoConstraint {
				return domain.ErrDocNoCollision
			}
			return fmt.Errorf("insert sale (stmt %d): %w", i, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// GetByID devuelve la venta con sus líneas, o (nil, nil).
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getOne(ctx, "id", id)
}

// GetByDocNo devuelve la venta con sus líneas, o (nil, nil).
func (r *SaleRepo) GetByDocNo(ctx context.Context, docNo string) (*entity.Sale, error) {
	return r.getOne(ctx, "doc_no", docNo)
}

func (r *SaleRepo) getOne(ctx context.Context, column, value string) (*entity.Sale, error) {
	var s entity.Sale
	if err := pgxscan.Get(ctx, r.q, &s, "SELECT "+saleColumns+" FROM sales WHERE "+column+" = $1", value); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale by %s: %w", column, err)
	}
	s.DocDate = localDate(s.DocDate)

	var items []entity.SaleItem
	query := "SELECT " + saleItemColumns + " FROM sale_items WHERE sale_id = $1 ORDER BY line_no"
	if err := pgxscan.Select(ctx, r.q, &items, query, s.ID); err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}
	s.Items = items
	return &s, nil
}

// LastDocNoWithPrefix devuelve el mayor doc_no automático del día (prefijo + solo dígitos),
// comparando primero por longitud para que ...1000 quede por encima de ...999.
// Los números manuales con otro formato no cuentan para el consecutivo.
func (r *SaleRepo) LastDocNoWithPrefix(ctx context.Context, prefix string) (string, error) {
	var docNo string
	err := r.q.QueryRow(ctx, lastDocNoQuery, escapeLike(prefix)+"%", len(prefix)+1).Scan(&docNo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last doc_no: %w", err)
	}
	return docNo, nil
}

// UpdateStatus cambia el estado de la venta.
func (r *SaleRepo) UpdateStatus(ctx context.Context, id, status string, at time.Time) error {
	return r.execOne(ctx, "update sale status",
		`UPDATE sales SET status = $2, updated_at = $3 WHERE id = $1`, id, status, at)
}

// SoftDelete marca la venta como eliminada por actorID.
func (r *SaleRepo) SoftDelete(ctx context.Context, id, actorID string, at time.Time) error {
	return r.execOne(ctx, "soft delete sale",
		`UPDATE sales SET deleted_at = $3, deleted_by = $2, updated_at = $3 WHERE id = $1`, id, actorID, at)
}

// ClearDeleted quita la marca de eliminación.
func (r *SaleRepo) ClearDeleted(ctx context.Context, id string, at time.Time) error {
	return r.execOne(ctx, "restore sale",
		`UPDATE sales SET deleted_at = NULL, deleted_by = NULL, updated_at = $2 WHERE id = $1`, id, at)
}

func (r *SaleRepo) execOne(ctx context.Context, op, query string, args ...any) error {
	cmd, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve las cabeceras (sin líneas) ordenadas por list_date descendente y el total.
func (r *SaleRepo) List(ctx context.Context, filter repository.SaleFilter) ([]*entity.Sale, int, error) {
	q := psql.Select(saleColumns).From("sales")
	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deleted_at": nil})
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"doc_date": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.LtOrEq{"doc_date": *filter.To})
	}
	if filter.Channel != "" {
		q = q.Where("lower(channel) = lower(?)", filter.Channel)
	}
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		q = q.Where(squirrel.Or{
			squirrel.ILike{"doc_no": pattern},
			squirrel.ILike{"customer_name": pattern},
		})
	}

	countSQL, countArgs, err := psql.Select("COUNT(*)").FromSelect(q, "sub").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}
	var total int
	if err := r.q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	q = q.OrderBy("list_date DESC", "doc_no DESC")
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
	var list []*entity.Sale
	if err := pgxscan.Select(ctx, r.q, &list, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	for _, s := range list {
		s.DocDate = localDate(s.DocDate)
	}
	return list, total, nil
}

// localDate reinterpreta una columna DATE (medianoche UTC) en la zona de la tienda.
func localDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, sales.Location)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
