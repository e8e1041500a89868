package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sakura-shop/backoffice/internal/application/dto"
	"github.com/sakura-shop/backoffice/internal/domain"
	"github.com/sakura-shop/backoffice/internal/domain/entity"
	"github.com/sakura-shop/backoffice/internal/domain/inventory"
	"github.com/sakura-shop/backoffice/internal/domain/repository"
	"github.com/sakura-shop/backoffice/internal/domain/sales"
	"github.com/sakura-shop/backoffice/pkg/logger"
)

// ProductTxRunner ejecuta fn dentro de una transacción con el repo de productos atado a ella.
type ProductTxRunner interface {
	RunProducts(ctx context.Context, fn func(productRepo repository.ProductRepository) error) error
}

// ProductUseCase casos de uso CRUD para productos. Cost y Stock solo cambian por recepciones y ventas.
type ProductUseCase struct {
	repo     repository.ProductRepository
	txRunner ProductTxRunner
	log      *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, txRunner ProductTxRunner, log *logger.Logger) *ProductUseCase {
	return &ProductUseCase{repo: repo, txRunner: txRunner, log: log}
}

// Create crea un nuevo producto con stock y costo iniciales.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return nil, domain.NewValidationError("el código es obligatorio")
	}
	if in.Price.IsNegative() || in.Cost.IsNegative() || in.Stock < 0 || in.SafetyStock < 0 {
		return nil, domain.NewValidationError("precio, costo y stock no pueden ser negativos")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = code
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Code:        code,
		Name:        name,
		Cost:        in.Cost,
		Price:       sales.Round2(in.Price),
		Stock:       in.Stock,
		SafetyStock: in.SafetyStock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByCode obtiene un producto por código.
func (uc *ProductUseCase) GetByCode(ctx context.Context, code string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza nombre, precio y stock de seguridad.
func (uc *ProductUseCase) Update(ctx context.Context, code string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if name := strings.TrimSpace(*in.Name); name != "" {
			product.Name = name
		}
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.NewValidationError("el precio no puede ser negativo")
		}
		product.Price = sales.Round2(*in.Price)
	}
	if in.SafetyStock != nil {
		if *in.SafetyStock < 0 {
			return nil, domain.NewValidationError("el stock de seguridad no puede ser negativo")
		}
		product.SafetyStock = *in.SafetyStock
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con búsqueda y filtro de stock bajo.
func (uc *ProductUseCase) List(ctx context.Context, search string, lowStock bool, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.repo.List(ctx, repository.ProductFilter{
		Search:   strings.TrimSpace(search),
		LowStock: lowStock,
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Receive registra una compra: recalcula el costo promedio ponderado y suma el stock,
// todo con la fila bloqueada dentro de una transacción.
func (uc *ProductUseCase) Receive(ctx context.Context, code string, in dto.ReceiveStockRequest) (*dto.ProductResponse, error) {
	if in.Qty <= 0 {
		return nil, domain.NewValidationError("la cantidad recibida debe ser mayor que cero")
	}
	if in.UnitCost.IsNegative() {
		return nil, domain.NewValidationError("el costo unitario no puede ser negativo")
	}
	product, err := uc.repo.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	var updated *entity.Product
	err = uc.txRunner.RunProducts(ctx, func(productRepo repository.ProductRepository) error {
		locked, err := productRepo.GetForUpdate(ctx, product.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		newCost := inventory.CostCalculator(locked.Stock, locked.Cost, in.Qty, in.UnitCost)
		if err := productRepo.UpdateCost(ctx, locked.ID, newCost); err != nil {
			return err
		}
		if err := productRepo.AddStock(ctx, locked.ID, in.Qty); err != nil {
			return err
		}
		locked.Cost = newCost
		locked.Stock += in.Qty
		locked.UpdatedAt = time.Now()
		updated = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("code", updated.Code).
		Int("qty", in.Qty).
		Str("unit_cost", in.UnitCost.String()).
		Str("new_cost", updated.Cost.StringFixed(4)).
		Msg("recepción registrada")
	return toProductResponse(updated), nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Price:       dto.NewMoney(p.Price),
		Cost:        dto.NewMoney(p.Cost),
		Stock:       p.Stock,
		SafetyStock: p.SafetyStock,
		LowStock:    p.IsLowStock(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
