// Package sales contiene el motor transaccional de órdenes de venta: alta con descuento de
// stock y numeración diaria, anulación (soft delete), restauración y consultas.
package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sakura-shop/backoffice/internal/application/dto"
	"github.com/sakura-shop/backoffice/internal/domain"
	"github.com/sakura-shop/backoffice/internal/domain/entity"
	"github.com/sakura-shop/backoffice/internal/domain/repository"
	domainsales "github.com/sakura-shop/backoffice/internal/domain/sales"
	"github.com/sakura-shop/backoffice/pkg/logger"
)

// MaxDocNoAttempts intentos totales de commit ante colisiones de doc_no.
const MaxDocNoAttempts = 5

// CreateOrderUseCase crea una venta y descuenta el inventario en una sola transacción.
type CreateOrderUseCase struct {
	txRunner    SalesTxRunner
	sequence    SequenceAllocator
	customers   *CustomerResolver
	productRepo repository.ProductRepository
	log         *logger.Logger
	now         func() time.Time
}

// NewCreateOrderUseCase construye el caso de uso.
func NewCreateOrderUseCase(
	txRunner SalesTxRunner,
	sequence SequenceAllocator,
	customers *CustomerResolver,
	productRepo repository.ProductRepository,
	log *logger.Logger,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		txRunner:    txRunner,
		sequence:    sequence,
		customers:   customers,
		productRepo: productRepo,
		log:         log,
		now:         time.Now,
	}
}

// SetClock reemplaza el reloj (fecha por defecto del documento y timestamps).
func (uc *CreateOrderUseCase) SetClock(now func() time.Time) {
	uc.now = now
	uc.customers.now = now
}

// orderLine línea ya normalizada (cantidades enteras, montos a 2 decimales).
type orderLine struct {
	Code     string
	Name     string
	Qty      int
	Price    decimal.Decimal
	Discount decimal.Decimal
	Amount   decimal.Decimal
}

// Create ejecuta el flujo completo de alta:
//  1. normaliza la fecha del documento y las líneas (sin I/O),
//  2. resuelve o crea el cliente,
//  3. crea los productos que no existan (costo/precio/stock en cero),
//  4. valida stock suficiente por producto,
//  5. calcula montos (subtotal, IVA 7%, total, COGS, margen),
//  6. asigna doc_no SO-{año budista}{MM}{DD}{NNN},
//  7. inserta cabecera + líneas y descuenta stock de forma atómica, reintentando con un
//     doc_no nuevo si el índice único lo rechaza (hasta MaxDocNoAttempts).
//
// Los pasos 2 y 3 no se deshacen si la venta falla después.
func (uc *CreateOrderUseCase) Create(ctx context.Context, actor Actor, in dto.CreateSaleRequest) (*dto.CreateSaleResult, error) {
	now := uc.now()

	docDate, ok := domainsales.ParseDocDate(in.DocDate, now)
	if !ok {
		return nil, domain.NewValidationError("fecha de documento inválida: %q", in.DocDate)
	}
	lines, err := normalizeLines(in.Items)
	if err != nil {
		return nil, err
	}

	customer, err := uc.customers.Resolve(ctx, in.Customer)
	if err != nil {
		return nil, err
	}

	products, err := uc.ensureProducts(ctx, lines)
	if err != nil {
		return nil, err
	}

	needs := aggregateNeeds(lines)
	if problems := stockProblems(needs, products); len(problems) > 0 {
		return nil, &domain.InsufficientStockError{Problems: problems}
	}

	items := make([]entity.SaleItem, 0, len(lines))
	for _, l := range lines {
		p := products[l.Code]
		items = append(items, entity.SaleItem{
			ProductID: p.ID,
			Code:      p.Code,
			Name:      lineName(l, p),
			Qty:       l.Qty,
			Price:     l.Price,
			Discount:  l.Discount,
			Amount:    l.Amount,
			CostEach:  p.Cost,
			COGS:      p.Cost.Mul(decimal.NewFromInt(int64(l.Qty))),
		})
	}
	totals := domainsales.ComputeTotals(items)

	dayPrefix := domainsales.DocNoDayPrefix(docDate)
	requested := strings.TrimSpace(in.DocNo)
	clock := now.In(domainsales.Location)
	listDate := time.Date(docDate.Year(), docDate.Month(), docDate.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), clock.Nanosecond(), domainsales.Location)

	for attempt := 1; attempt <= MaxDocNoAttempts; attempt++ {
		docNo := requested
		if attempt > 1 || docNo == "" {
			seq, err := uc.sequence.NextSequence(ctx, dayPrefix)
			if err != nil {
				return nil, err
			}
			docNo = domainsales.FormatDocNo(dayPrefix, seq)
		}

		sale := newSale(docNo, docDate, listDate, in.Channel, customer, in.Customer.Name, actor.UserID, items, totals, now)
		err := uc.txRunner.RunSales(ctx, func(saleRepo repository.SaleRepository, productRepo repository.ProductRepository) error {
			if err := saleRepo.Create(ctx, sale); err != nil {
				return err
			}
			return decrementAll(ctx, productRepo, needs, products)
		})
		if err == nil {
			uc.log.Info().
				Str("sale_id", sale.ID).
				Str("doc_no", sale.DocNo).
				Str("grand_total", totals.Grand.StringFixed(2)).
				Int("attempt", attempt).
				Msg("venta creada")
			return &dto.CreateSaleResult{
				OK:     true,
				SaleID: sale.ID,
				DocNo:  sale.DocNo,
				Totals: dto.SaleTotalsDTO{
					Subtotal:  dto.NewMoney(totals.Subtotal),
					VAT:       dto.NewMoney(totals.VAT),
					Grand:     dto.NewMoney(totals.Grand),
					TotalCogs: dto.NewMoney(totals.TotalCOGS),
					Gross:     dto.NewMoney(totals.Gross),
				},
			}, nil
		}
		if !errors.Is(err, domain.ErrDocNoCollision) {
			return nil, err
		}
		uc.log.Warn().
			Str("doc_no", docNo).
			Int("attempt", attempt).
			Msg("doc_no ocupado, reintentando con uno nuevo")
	}
	return nil, domain.ErrDocNoExhausted
}

// normalizeLines descarta filas sin código ni nombre o con qty <= 0 y valida montos.
// Precio y descuento negativos se llevan a cero; la qty fraccionaria se trunca.
func normalizeLines(in []dto.SaleItemRequest) ([]orderLine, error) {
	lines := make([]orderLine, 0, len(in))
	for _, it := range in {
		code := strings.TrimSpace(it.Code)
		name := strings.TrimSpace(it.Name)
		if code == "" && name == "" {
			continue
		}
		if code == "" {
			code = name
		}
		qty := it.Qty.Floor()
		if !qty.IsPositive() {
			continue
		}
		if !qty.LessThanOrEqual(decimal.NewFromInt(maxLineQty)) {
			return nil, domain.NewValidationError("cantidad fuera de rango en %s", code)
		}
		price := nonNegative(it.Price)
		discount := nonNegative(it.Discount)
		l := orderLine{
			Code:     code,
			Name:     name,
			Qty:      int(qty.IntPart()),
			Price:    price,
			Discount: discount,
		}
		l.Amount = domainsales.LineAmount(l.Qty, l.Price, l.Discount)
		if l.Amount.IsNegative() {
			return nil, domain.NewValidationError("el descuento de %s supera el importe de la línea", code)
		}
		lines = append(lines, l)
	}
	if len(lines) == 0 {
		return nil, domain.NewValidationError("el pedido no tiene líneas válidas")
	}
	return lines, nil
}

const maxLineQty = 1_000_000

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return domainsales.Round2(d)
}

func lineName(l orderLine, p *entity.Product) string {
	if l.Name != "" {
		return l.Name
	}
	return p.Name
}

// ensureProducts carga los productos del pedido y da de alta los códigos desconocidos.
func (uc *CreateOrderUseCase) ensureProducts(ctx context.Context, lines []orderLine) (map[string]*entity.Product, error) {
	codes := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, l := range lines {
		if !seen[l.Code] {
			seen[l.Code] = true
			codes = append(codes, l.Code)
		}
	}
	products, err := uc.productRepo.GetByCodes(ctx, codes)
	if err != nil {
		return nil, fmt.Errorf("cargar productos: %w", err)
	}
	for _, code := range codes {
		if _, ok := products[code]; ok {
			continue
		}
		now := uc.now()
		p := &entity.Product{
			ID:        uuid.New().String(),
			Code:      code,
			Name:      code,
			Cost:      decimal.Zero,
			Price:     decimal.Zero,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := uc.productRepo.Create(ctx, p); err != nil {
			if !errors.Is(err, domain.ErrDuplicate) {
				return nil, fmt.Errorf("crear producto %s: %w", code, err)
			}
			// Otro pedido lo creó en paralelo.
			p, err = uc.productRepo.GetByCode(ctx, code)
			if err != nil || p == nil {
				return nil, fmt.Errorf("releer producto %s: %w", code, err)
			}
		} else {
			uc.log.Info().Str("code", code).Msg("producto creado desde pedido")
		}
		products[code] = p
	}
	return products, nil
}

// stockNeed cantidad total pedida de un producto (suma de sus líneas).
type stockNeed struct {
	Code string
	Qty  int
}

func aggregateNeeds(lines []orderLine) []stockNeed {
	idx := make(map[string]int, len(lines))
	var needs []stockNeed
	for _, l := range lines {
		if i, ok := idx[l.Code]; ok {
			needs[i].Qty += l.Qty
			continue
		}
		idx[l.Code] = len(needs)
		needs = append(needs, stockNeed{Code: l.Code, Qty: l.Qty})
	}
	return needs
}

func stockProblems(needs []stockNeed, products map[string]*entity.Product) []domain.StockProblem {
	var problems []domain.StockProblem
	for _, n := range needs {
		p := products[n.Code]
		if p.Stock-n.Qty < 0 {
			problems = append(problems, domain.StockProblem{Code: p.Code, Name: p.Name, Remain: p.Stock, Need: n.Qty})
		}
	}
	return problems
}

// decrementAll descuenta el stock con la condición stock >= qty dentro de la transacción.
// Si otro pedido consumió el stock después de la validación previa, aborta la venta.
// Se recorre por id para bloquear filas siempre en el mismo orden.
func decrementAll(ctx context.Context, productRepo repository.ProductRepository, needs []stockNeed, products map[string]*entity.Product) error {
	ordered := make([]stockNeed, len(needs))
	copy(ordered, needs)
	sort.Slice(ordered, func(i, j int) bool { return products[ordered[i].Code].ID < products[ordered[j].Code].ID })

	for _, n := range ordered {
		p := products[n.Code]
		ok, err := productRepo.DecrementStock(ctx, p.ID, n.Qty)
		if err != nil {
			return err
		}
		if !ok {
			current, err := productRepo.GetByID(ctx, p.ID)
			if err != nil {
				return err
			}
			remain := 0
			if current != nil {
				remain = current.Stock
			}
			return &domain.InsufficientStockError{Problems: []domain.StockProblem{
				{Code: p.Code, Name: p.Name, Remain: remain, Need: n.Qty},
			}}
		}
	}
	return nil
}

func newSale(
	docNo string,
	docDate, listDate time.Time,
	channel string,
	customer *entity.Customer,
	fallbackName, createdBy string,
	items []entity.SaleItem,
	totals domainsales.Totals,
	now time.Time,
) *entity.Sale {
	sale := &entity.Sale{
		ID:         uuid.New().String(),
		DocNo:      docNo,
		DocDate:    docDate,
		ListDate:   listDate,
		Channel:    strings.TrimSpace(channel),
		Total:      totals.Subtotal,
		VAT:        totals.VAT,
		GrandTotal: totals.Grand,
		TotalCost:  totals.TotalCOGS,
		Status:     entity.SaleStatusNew,
		CreatedBy:  createdBy,
		CreatedAt:  now,
		UpdatedAt:  now,
		Items:      make([]entity.SaleItem, len(items)),
	}
	if customer != nil {
		id := customer.ID
		sale.CustomerID = &id
		sale.CustomerName = customer.Name
	} else {
		sale.CustomerName = strings.TrimSpace(fallbackName)
	}
	for i, it := range items {
		it.ID = uuid.New().String()
		it.SaleID = sale.ID
		sale.Items[i] = it
	}
	return sale
}
