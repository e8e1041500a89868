package sales_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakura-shop/backoffice/internal/application/dto"
	"github.com/sakura-shop/backoffice/internal/application/sales"
	"github.com/sakura-shop/backoffice/internal/domain"
	"github.com/sakura-shop/backoffice/internal/domain/entity"
	"github.com/sakura-shop/backoffice/internal/domain/repository"
	domainsales "github.com/sakura-shop/backoffice/internal/domain/sales"
	"github.com/sakura-shop/backoffice/internal/infrastructure/memory"
	"github.com/sakura-shop/backoffice/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// 16/10/2026 10:30 en Bangkok → año budista 2569.
var testNow = time.Date(2026, 10, 16, 10, 30, 0, 0, domainsales.Location)

const todayPrefix = "SO-25691016"

var (
	admin = sales.Actor{UserID: "u-admin", Role: entity.RoleAdmin}
	staff = sales.Actor{UserID: "u-staff", Role: entity.RoleStaff}
)

type fixture struct {
	store   *memory.Store
	create  *sales.CreateOrderUseCase
	restore *sales.RestoreUseCase
	query   *sales.QueryUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithAllocator(t, nil)
}

func newFixtureWithAllocator(t *testing.T, alloc sales.SequenceAllocator) *fixture {
	t.Helper()
	store := memory.New()
	if alloc == nil {
		alloc = sales.NewLastRowAllocator(store.Sales())
	}
	create := sales.NewCreateOrderUseCase(
		store,
		alloc,
		sales.NewCustomerResolver(store.Customers()),
		store.Products(),
		logger.Nop(),
	)
	create.SetClock(func() time.Time { return testNow })
	restore := sales.NewRestoreUseCase(store, logger.Nop())
	restore.SetClock(func() time.Time { return testNow })
	return &fixture{store: store, create: create, restore: restore, query: sales.NewQueryUseCase(store.Sales())}
}

func (f *fixture) seedProduct(t *testing.T, code string, stock int, cost string) *entity.Product {
	t.Helper()
	p := &entity.Product{
		ID:        uuid.New().String(),
		Code:      code,
		Name:      "Producto " + code,
		Cost:      decimal.RequireFromString(cost),
		Price:     decimal.NewFromInt(100),
		Stock:     stock,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
	require.NoError(t, f.store.Products().Create(context.Background(), p))
	return p
}

func (f *fixture) stockOf(t *testing.T, code string) int {
	t.Helper()
	p, err := f.store.Products().GetByCode(context.Background(), code)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

func item(code string, qty, price, discount int64) dto.SaleItemRequest {
	return dto.SaleItemRequest{
		Code:     code,
		Qty:      decimal.NewFromInt(qty),
		Price:    decimal.NewFromInt(price),
		Discount: decimal.NewFromInt(discount),
	}
}

func order(items ...dto.SaleItemRequest) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{Channel: "line", Items: items}
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_TotalesYDescuentoDeStock(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "A1", 5, "60")

	res, err := f.create.Create(context.Background(), staff, order(item("A1", 2, 100, 0)))
	require.NoError(t, err)

	assert.True(t, res.OK)
	assert.Equal(t, todayPrefix+"001", res.DocNo)
	assert.Equal(t, "200.00", res.Totals.Subtotal.StringFixed(2))
	assert.Equal(t, "14.00", res.Totals.VAT.StringFixed(2))
	assert.Equal(t, "214.00", res.Totals.Grand.StringFixed(2))
	assert.Equal(t, "120.00", res.Totals.TotalCogs.StringFixed(2))
	assert.Equal(t, "94.00", res.Totals.Gross.StringFixed(2))
	assert.Equal(t, 3, f.stockOf(t, "A1"))

	sale, err := f.query.Get(context.Background(), res.SaleID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusNew, sale.Status)
	assert.Equal(t, staff.UserID, sale.CreatedBy)
	assert.Equal(t, "line", sale.Channel)
}

func TestCreate_StockInsuficienteNoCreaVenta(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "A1", 1, "60")

	_, err := f.create.Create(context.Background(), staff, order(item("A1", 2, 100, 0)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	require.Len(t, stockErr.Problems, 1)
	assert.Equal(t, domain.StockProblem{Code: "A1", Name: "Producto A1", Remain: 1, Need: 2}, stockErr.Problems[0])

	assert.Equal(t, 1, f.stockOf(t, "A1"))
	list, err := f.query.List(context.Background(), dto.SaleListQuery{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Equal(t, 0, list.Page.Total, "no debe quedar ninguna venta creada")
}

func TestCreate_ConsecutivosDelMismoDia(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "A1", 10, "60")

	first, err := f.create.Create(context.Background(), staff, order(item("A1", 1, 100, 0)))
	require.NoError(t, err)
	second, err := f.create.Create(context.Background(), staff, order(item("A1", 1, 100, 0)))
	require.NoError(t, err)

	assert.Equal(t, todayPrefix+"001", first.DocNo)
	assert.Equal(t, todayPrefix+"002", second.DocNo)
}

func TestCreate_DocNoDuplicadoSeRegenera(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "A1", 10, "60")

	in := order(item("A1", 1, 100, 0))
	in.DocNo = "SO-DUPLICATE"
	first, err := f.create.Create(context.Background(), staff, in)
	require.NoError(t, err)
	require.Equal(t, "SO-DUPLICATE", first.DocNo)

	second, err := f.create.Create(context.Background(), staff, in)
	require.NoError(t, err, "la colisión debe resolverse reintentando, no devolver error")
	assert.Equal(t, todayPrefix+"001", second.DocNo)
	assert.Equal(t, 8, f.stockOf(t, "A1"))
}

func TestRestore_StockConsumidoTrasAnularYForzado(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "A1", 5, "60")
	ctx := context.Background()

	res, err := f.create.Create(ctx, staff, order(item("A1", 3, 100, 0)))
	require.NoError(t, err)
	require.Equal(t, 2, f.stockOf(t, "A1"))

	require.NoError(t, f.restore.Delete(ctx, admin, res.DocNo))
	require.Equal(t, 5, f.stockOf(t, "A1"), "anular devuelve el stock")

	// Otro pedido consume stock mientras la venta está anulada.
	require.NoError(t, f.store.Products().ForceDecrementStock(ctx, p.ID, 4))
	require.Equal(t, 1, f.stockOf(t, "A1"))

	err = f.restore.Restore(ctx, admin, res.DocNo, false)
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, []domain.StockProblem{{Code: "A1", Name: "Producto A1", Remain: 1, Need: 3}}, stockErr.Problems)
	assert.Equal(t, 1, f.stockOf(t, "A1"), "sin force no se modifica nada")
	sale, err := f.query.Get(ctx, res.SaleID)
	require.NoError(t, err)
	assert.True(t, sale.IsDeleted())

	require.NoError(t, f.restore.Restore(ctx, admin, res.DocNo, true))
	assert.Equal(t, -2, f.stockOf(t, "A1"), "force permite stock negativo")
	sale, err = f.query.Get(ctx, res.SaleID)
	require.NoError(t, err)
	assert.False(t, sale.IsDeleted())
	assert.Nil(t, sale.DeletedBy)
}

// ──────────────────────────────────────────────────────────────────────────────
// Invariantes
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_TotalsMatchLineSums(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "A1", 50, "33.3333")
	f.seedProduct(t, "B2", 50, "12.5")

	in := order(
		dto.SaleItemRequest{Code: "A1", Qty: decimal.NewFromInt(3), Price: decimal.RequireFromString("99.99"), Discount: decimal.RequireFromString("10.005")},
		dto.SaleItemRequest{Code: "B2", Qty: decimal.RequireFromString("2.7"), Price: decimal.RequireFromString("45.5")},
	)
	res, err := f.create.Create(context.Background(), staff, in)
	require.NoError(t, err)

	sale, err := f.query.Get(context.Background(), res.SaleID)
	require.NoError(t, err)
	require.Len(t, sale.Items, 2)

	sumAmount := decimal.Zero
	sumCOGS := decimal.Zero
	for _, it := range sale.Items {
		assert.False(t, it.Amount.IsNegative())
		sumAmount = sumAmount.Add(it.Amount)
		sumCOGS = sumCOGS.Add(it.COGS)
	}
	assert.True(t, sale.Total.Equal(domainsales.Round2(sumAmount)), "total %s vs Σ %s", sale.Total, sumAmount)
	assert.True(t, sale.TotalCost.Equal(domainsales.Round2(sumCOGS)))
	assert.Equal(t, 2, sale.Items[1].Qty, "la cantidad fraccionaria se trunca")
	// 3×99.99 − 10.01 + 2×45.50
	assert.Equal(t, "380.96", sale.Total.StringFixed(2))
	assert.Equal(t, "125.00", sale.TotalCost.StringFixed(2))
}

func TestCreate_AggregatesQtyPerProduct(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "A1", 3, "10")

	// 2 + 2 = 4 > 3 aunque cada línea por separado alcance.
	_, err := f.create.Create(context.Background(), staff, order(item("A1", 2, 50, 0), item("A1", 2, 50, 0)))
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 4, stockErr.Problems[0].Need)
	assert.Equal(t, 3, f.stockOf(t, "A1"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Validaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		in   dto.CreateSaleRequest
	}{
		{"descuento mayor al importe", order(item("A1", 1, 100, 150))},
		{"sin líneas", order()},
		{"solo líneas vacías o qty cero", order(dto.SaleItemRequest{}, item("A1", 0, 100, 0))},
		{"fecha inválida", func() dto.CreateSaleRequest {
			in := order(item("A1", 1, 100, 0))
			in.DocDate = "31/02/2569"
			return in
		}()},
		{"cantidad fuera de rango", order(item("A1", 2_000_000, 1, 0))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.seedProduct(t, "A1", 10, "10")

			_, err := f.create.Create(context.Background(), staff, tc.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput), "err = %v", err)
			assert.Equal(t, 10, f.stockOf(t, "A1"))
		})
	}
}

func TestCreate_NegativePriceAndDiscountClampToZero(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "A1", 10, "10")

	res, err := f.create.Create(context.Background(), staff, order(item("A1", 2, -5, -3)))
	require.NoError(t, err)
	assert.Equal(t, "0.00", res.Totals.Subtotal.StringFixed(2))
	assert.Equal(t, "-20.00", res.Totals.Gross.StringFixed(2))
}

func TestCreate_BuddhistDocDate(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "A1", 10, "10")

	in := order(item("A1", 1, 100, 0))
	in.DocDate = "01/02/2569"
	res, err := f.create.Create(context.Background(), staff, in)
	require.NoError(t, err)
	assert.Equal(t, "SO-25690201001", res.DocNo)

	sale, err := f.query.Get(context.Background(), res.DocNo)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-01", sale.DocDate.Format("2006-01-02"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos y clientes
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_UnknownProductIsCreatedAndKeptOnStockFailure(t *testing.T) {
	f := newFixture(t)

	_, err := f.create.Create(context.Background(), staff, order(item("NEW-1", 1, 100, 0)))
	require.True(t, errors.Is(err, domain.ErrInsufficientStock))

	p, err := f.store.Products().GetByCode(context.Background(), "NEW-1")
	require.NoError(t, err)
	require.NotNil(t, p, "el producto creado no se revierte")
	assert.Equal(t, "NEW-1", p.Name)
	assert.Equal(t, 0, p.Stock)
	assert.True(t, p.Cost.IsZero())
	assert.True(t, p.Price.IsZero())
}

// staleCodesRepo simula que otro pedido creó los productos entre la lectura y el alta.
type staleCodesRepo struct {
	repository.ProductRepository
}

func (staleCodesRepo) GetByCodes(context.Context, []string) (map[string]*entity.Product, error) {
	return map[string]*entity.Product{}, nil
}

func TestCreate_LogDeProductoCreadoSoloSiSeCrea(t *testing.T) {
	newUseCase := func(f *fixture, repo repository.ProductRepository, buf *bytes.Buffer) *sales.CreateOrderUseCase {
		log := logger.New(logger.Config{Env: "production", Level: "info", Output: buf})
		uc := sales.NewCreateOrderUseCase(f.store, sales.NewLastRowAllocator(f.store.Sales()),
			sales.NewCustomerResolver(f.store.Customers()), repo, log)
		uc.SetClock(func() time.Time { return testNow })
		return uc
	}

	t.Run("alta real", func(t *testing.T) {
		f := newFixture(t)
		var buf bytes.Buffer
		uc := newUseCase(f, f.store.Products(), &buf)

		_, err := uc.Create(context.Background(), staff, order(item("NEW-1", 1, 100, 0)))
		require.ErrorIs(t, err, domain.ErrInsufficientStock)
		assert.Equal(t, 1, strings.Count(buf.String(), "producto creado desde pedido"))
	})

	t.Run("creado en paralelo", func(t *testing.T) {
		f := newFixture(t)
		f.seedProduct(t, "A1", 5, "10")
		var buf bytes.Buffer
		uc := newUseCase(f, staleCodesRepo{f.store.Products()}, &buf)

		res, err := uc.Create(context.Background(), staff, order(item("A1", 1, 100, 0)))
		require.NoError(t, err)
		assert.True(t, res.OK)
		assert.NotContains(t, buf.String(), "producto creado desde pedido")
		assert.Equal(t, 4, f.stockOf(t, "A1"))
	})
}

func TestCreate_ReusesCustomerByPhone(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "A1", 10, "10")
	ctx := context.Background()

	in := order(item("A1", 1, 100, 0))
	in.Customer = dto.CustomerRef{Name: "Somchai", Phone: "0812345678"}
	first, err := f.create.Create(ctx, staff, in)
	require.NoError(t, err)

	in.Customer = dto.CustomerRef{Phone: "0812345678", Address: "Bangkok"}
	second, err := f.create.Create(ctx, staff, in)
	require.NoError(t, err)

	s1, err := f.query.Get(ctx, first.SaleID)
	require.NoError(t, err)
	s2, err := f.query.Get(ctx, second.SaleID)
	require.NoError(t, err)
	require.NotNil(t, s1.CustomerID)
	require.NotNil(t, s2.CustomerID)
	assert.Equal(t, *s1.CustomerID, *s2.CustomerID)
	assert.Equal(t, "Somchai", s2.CustomerName)

	customers, total, err := f.store.Customers().List(ctx, repository.CustomerFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Bangkok", customers[0].Address, "completa la dirección vacía")
}

func TestCreate_CustomerNameFallsBackToPhone(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "A1", 10, "10")

	in := order(item("A1", 1, 100, 0))
	in.Customer = dto.CustomerRef{Phone: "0899999999"}
	res, err := f.create.Create(context.Background(), staff, in)
	require.NoError(t, err)

	sale, err := f.query.Get(context.Background(), res.SaleID)
	require.NoError(t, err)
	require.NotNil(t, sale.CustomerID)
	assert.Equal(t, "0899999999", sale.CustomerName)
}

func TestCreate_WithoutCustomer(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "A1", 10, "10")

	res, err := f.create.Create(context.Background(), staff, order(item("A1", 1, 100, 0)))
	require.NoError(t, err)

	sale, err := f.query.Get(context.Background(), res.SaleID)
	require.NoError(t, err)
	assert.Nil(t, sale.CustomerID)
	assert.Empty(t, sale.CustomerName)
}

// ──────────────────────────────────────────────────────────────────────────────
// Numeración
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_ExplicitDocNoIsHonoredWhenFree(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "A1", 10, "10")

	in := order(item("A1", 1, 100, 0))
	in.DocNo = " SO-MANUAL-7 "
	res, err := f.create.Create(context.Background(), staff, in)
	require.NoError(t, err)
	assert.Equal(t, "SO-MANUAL-7", res.DocNo)
}

func TestCreate_DocNoManualDelDiaNoRompeElConsecutivo(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "A1", 10, "10")
	ctx := context.Background()

	first, err := f.create.Create(ctx, staff, order(item("A1", 1, 100, 0)))
	require.NoError(t, err)
	require.Equal(t, todayPrefix+"001", first.DocNo)

	manual := order(item("A1", 1, 100, 0))
	manual.DocNo = todayPrefix + "-MANUAL"
	res, err := f.create.Create(ctx, staff, manual)
	require.NoError(t, err)
	require.Equal(t, todayPrefix+"-MANUAL", res.DocNo)

	for _, want := range []string{"002", "003", "004"} {
		res, err := f.create.Create(ctx, staff, order(item("A1", 1, 100, 0)))
		require.NoError(t, err)
		assert.Equal(t, todayPrefix+want, res.DocNo)
	}
	assert.Equal(t, 5, f.stockOf(t, "A1"))
}

// fixedAllocator siempre devuelve el mismo consecutivo: fuerza colisiones.
type fixedAllocator struct{ seq int }

func (a fixedAllocator) NextSequence(context.Context, string) (int, error) { return a.seq, nil }

func TestCreate_ExhaustsAttemptsOnPersistentCollision(t *testing.T) {
	f := newFixtureWithAllocator(t, fixedAllocator{seq: 1})
	f.seedProduct(t, "A1", 10, "10")

	first, err := f.create.Create(context.Background(), staff, order(item("A1", 1, 100, 0)))
	require.NoError(t, err)
	require.Equal(t, todayPrefix+"001", first.DocNo)

	_, err = f.create.Create(context.Background(), staff, order(item("A1", 1, 100, 0)))
	assert.True(t, errors.Is(err, domain.ErrDocNoExhausted))
	assert.Equal(t, 9, f.stockOf(t, "A1"), "los intentos fallidos no descuentan stock")
}

func TestCreate_ConcurrentOrdersGetDistinctDocNos(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "A1", 100, "10")

	const workers = 10
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		docNos = make(map[string]bool)
		errs   []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := order(item("A1", 1, 100, 0))
			in.Customer = dto.CustomerRef{Name: fmt.Sprintf("cliente %d", i)}
			res, err := f.create.Create(context.Background(), staff, in)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			assert.False(t, docNos[res.DocNo], "doc_no repetido: %s", res.DocNo)
			docNos[res.DocNo] = true
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.True(t, errors.Is(err, domain.ErrDocNoExhausted), "error inesperado: %v", err)
	}
	assert.Equal(t, workers, len(docNos)+len(errs))
	assert.Equal(t, 100-len(docNos), f.stockOf(t, "A1"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Anulación, restauración y estado
// ──────────────────────────────────────────────────────────────────────────────

func TestDelete_RequiresManagerRole(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "A1", 10, "10")
	res, err := f.create.Create(context.Background(), staff, order(item("A1", 2, 100, 0)))
	require.NoError(t, err)

	err = f.restore.Delete(context.Background(), staff, res.SaleID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	err = f.restore.Restore(context.Background(), staff, res.SaleID, true)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, 8, f.stockOf(t, "A1"))
}

func TestDeleteAndRestore_RoundTrip(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "A1", 10, "10")
	f.seedProduct(t, "B2", 10, "10")
	ctx := context.Background()
	manager := sales.Actor{UserID: "u-mgr", Role: entity.RoleManager}

	res, err := f.create.Create(ctx, staff, order(item("A1", 2, 100, 0), item("B2", 3, 100, 0)))
	require.NoError(t, err)

	require.NoError(t, f.restore.Delete(ctx, manager, res.SaleID))
	assert.Equal(t, 10, f.stockOf(t, "A1"))
	assert.Equal(t, 10, f.stockOf(t, "B2"))

	sale, err := f.query.Get(ctx, res.DocNo)
	require.NoError(t, err)
	require.NotNil(t, sale.DeletedBy)
	assert.Equal(t, manager.UserID, *sale.DeletedBy)

	err = f.restore.Delete(ctx, manager, res.SaleID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "no se puede anular dos veces")

	list, err := f.query.List(ctx, dto.SaleListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0, list.Page.Total, "las anuladas no aparecen por defecto")

	require.NoError(t, f.restore.Restore(ctx, manager, res.DocNo, false))
	assert.Equal(t, 8, f.stockOf(t, "A1"))
	assert.Equal(t, 7, f.stockOf(t, "B2"))

	err = f.restore.Restore(ctx, manager, res.DocNo, false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "solo se restaura una venta anulada")
}

func TestRestore_SameProductOnTwoLinesIsCheckedCumulatively(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "A1", 10, "10")
	ctx := context.Background()

	res, err := f.create.Create(ctx, staff, order(item("A1", 2, 100, 0), item("A1", 2, 100, 0)))
	require.NoError(t, err)
	require.NoError(t, f.restore.Delete(ctx, admin, res.SaleID))
	require.NoError(t, f.store.Products().ForceDecrementStock(ctx, p.ID, 7)) // queda 3

	err = f.restore.Restore(ctx, admin, res.SaleID, false)
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	require.Len(t, stockErr.Problems, 1)
	assert.Equal(t, domain.StockProblem{Code: "A1", Name: "Producto A1", Remain: 1, Need: 2}, stockErr.Problems[0])
	assert.Equal(t, 3, f.stockOf(t, "A1"))
}

// racingTxRunner consume stock justo antes de cada descuento condicional, como haría
// otro pedido confirmado entre la verificación previa y el descuento.
type racingTxRunner struct {
	inner sales.SalesTxRunner
	steal int
}

func (r racingTxRunner) RunSales(ctx context.Context, fn func(repository.SaleRepository, repository.ProductRepository) error) error {
	return r.inner.RunSales(ctx, func(saleRepo repository.SaleRepository, productRepo repository.ProductRepository) error {
		return fn(saleRepo, racingProducts{ProductRepository: productRepo, steal: r.steal})
	})
}

type racingProducts struct {
	repository.ProductRepository
	steal int
}

func (p racingProducts) DecrementStock(ctx context.Context, productID string, qty int) (bool, error) {
	if err := p.ProductRepository.ForceDecrementStock(ctx, productID, p.steal); err != nil {
		return false, err
	}
	return p.ProductRepository.DecrementStock(ctx, productID, qty)
}

func TestRestore_DescuentoFallidoInformaStockActual(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "A1", 5, "60")
	ctx := context.Background()

	res, err := f.create.Create(ctx, staff, order(item("A1", 3, 100, 0)))
	require.NoError(t, err)
	require.NoError(t, f.restore.Delete(ctx, admin, res.DocNo))
	require.Equal(t, 5, f.stockOf(t, "A1"))

	restore := sales.NewRestoreUseCase(racingTxRunner{inner: f.store, steal: 4}, logger.Nop())
	restore.SetClock(func() time.Time { return testNow })

	err = restore.Restore(ctx, admin, res.DocNo, false)
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, []domain.StockProblem{{Code: "A1", Name: "Producto A1", Remain: 1, Need: 3}}, stockErr.Problems)
	assert.Equal(t, 5, f.stockOf(t, "A1"), "el rollback deshace el consumo simulado")

	sale, err := f.query.Get(ctx, res.SaleID)
	require.NoError(t, err)
	assert.True(t, sale.IsDeleted())
}

func TestGet_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.query.Get(context.Background(), "SO-NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.query.Get(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChangeStatus(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "A1", 10, "10")
	ctx := context.Background()
	res, err := f.create.Create(ctx, staff, order(item("A1", 1, 100, 0)))
	require.NoError(t, err)

	require.NoError(t, f.restore.ChangeStatus(ctx, staff, res.DocNo, "confirmed"))
	sale, err := f.query.Get(ctx, res.SaleID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusConfirmed, sale.Status)

	// Sin orden forzado: se puede volver a NEW.
	require.NoError(t, f.restore.ChangeStatus(ctx, staff, res.DocNo, entity.SaleStatusNew))

	err = f.restore.ChangeStatus(ctx, staff, res.DocNo, "SHIPPED")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, f.restore.Delete(ctx, admin, res.DocNo))
	err = f.restore.ChangeStatus(ctx, staff, res.DocNo, entity.SaleStatusPending)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestList_FiltersAndResponseMapping(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "A1", 10, "60")
	ctx := context.Background()

	in := order(item("A1", 2, 100, 0))
	in.Channel = "shopee"
	_, err := f.create.Create(ctx, staff, in)
	require.NoError(t, err)
	_, err = f.create.Create(ctx, staff, order(item("A1", 1, 100, 0)))
	require.NoError(t, err)

	list, err := f.query.List(ctx, dto.SaleListQuery{Channel: "shopee"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	got := list.Items[0]
	assert.Equal(t, "2026-10-16", got.DocDate)
	assert.Equal(t, "214.00", got.GrandTotal.StringFixed(2))
	assert.Equal(t, "94.00", got.Gross.StringFixed(2))

	_, err = f.query.List(ctx, dto.SaleListQuery{Status: "bogus"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err = f.query.List(ctx, dto.SaleListQuery{From: "2026-10-17"})
	require.NoError(t, err)
	assert.Equal(t, 0, list.Page.Total)
}
