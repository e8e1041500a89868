package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakura-shop/backoffice/internal/domain"
	"github.com/sakura-shop/backoffice/internal/domain/entity"
)

// fakeBatchResults devuelve errs[i] en el i-ésimo Exec.
type fakeBatchResults struct {
	errs   []error
	execs  int
	closed bool
}

func (b *fakeBatchResults) Exec() (pgconn.CommandTag, error) {
	i := b.execs
	b.execs++
	if i < len(b.errs) && b.errs[i] != nil {
		return pgconn.CommandTag{}, b.errs[i]
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (b *fakeBatchResults) Query() (pgx.Rows, error) { return nil, errors.New("not used") }
func (b *fakeBatchResults) QueryRow() pgx.Row        { return fakeRow{err: errors.New("not used")} }
func (b *fakeBatchResults) Close() error             { b.closed = true; return nil }

type fakeRow struct {
	value string
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*string) = r.value
	return nil
}

// fakeQuerier solo implementa lo que usa SaleRepo en estas pruebas.
type fakeQuerier struct {
	Querier
	batch  *fakeBatchResults
	queued int
	row    fakeRow
	sql    string
	args   []any
}

func (q *fakeQuerier) SendBatch(_ context.Context, b *pgx.Batch) pgx.BatchResults {
	q.queued = b.Len()
	return q.batch
}

func (q *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.sql, q.args = sql, args
	return q.row
}

func saleWithItems(n int) *entity.Sale {
	s := &entity.Sale{ID: "s1", DocNo: "SO-25691016001", Status: entity.SaleStatusNew}
	for i := 0; i < n; i++ {
		s.Items = append(s.Items, entity.SaleItem{ID: "it", SaleID: "s1", ProductID: "p1", Code: "A1", Qty: 1})
	}
	return s
}

func TestSaleRepo_Create_MapeaColisionDeDocNo(t *testing.T) {
	docNoDup := &pgconn.PgError{Code: "23505", ConstraintName: docNoConstraint}
	otherDup := &pgconn.PgError{Code: "23505", ConstraintName: "sale_items_pkey"}
	fkErr := &pgconn.PgError{Code: "23503", ConstraintName: "sale_items_product_id_fkey"}

	cases := []struct {
		name        string
		errs        []error
		collision   bool
		wantErr     bool
		wantPgError bool
	}{
		{name: "ok", errs: nil},
		{name: "doc_no duplicado en la cabecera", errs: []error{docNoDup}, collision: true, wantErr: true},
		{name: "otro unique en una línea", errs: []error{nil, otherDup}, wantErr: true, wantPgError: true},
		{name: "foreign key", errs: []error{nil, nil, fkErr}, wantErr: true, wantPgError: true},
		{name: "error de red", errs: []error{errors.New("conn reset")}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := &fakeQuerier{batch: &fakeBatchResults{errs: tc.errs}}
			err := NewSaleRepository(q).Create(context.Background(), saleWithItems(2))

			assert.Equal(t, 3, q.queued, "cabecera + 2 líneas en un solo batch")
			assert.True(t, q.batch.closed)
			if !tc.wantErr {
				require.NoError(t, err)
				assert.Equal(t, 3, q.batch.execs)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.collision, errors.Is(err, domain.ErrDocNoCollision))
			var pgErr *pgconn.PgError
			assert.Equal(t, tc.wantPgError, errors.As(err, &pgErr))
		})
	}
}

func TestSaleRepo_LastDocNoWithPrefix_SoloConsecutivosNumericos(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{value: "SO-25691016007"}}
	last, err := NewSaleRepository(q).LastDocNoWithPrefix(context.Background(), "SO-25691016")
	require.NoError(t, err)
	assert.Equal(t, "SO-25691016007", last)

	assert.Contains(t, q.sql, "~ '^[0-9]+$'")
	require.Len(t, q.args, 2)
	assert.Equal(t, "SO-25691016%", q.args[0])
	assert.Equal(t, len("SO-25691016")+1, q.args[1])

	q = &fakeQuerier{row: fakeRow{err: pgx.ErrNoRows}}
	last, err = NewSaleRepository(q).LastDocNoWithPrefix(context.Background(), "SO-25691017")
	require.NoError(t, err)
	assert.Empty(t, last)
}
