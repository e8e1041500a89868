package sales

import (
	"context"
	"strings"
	"time"

	"github.com/sakura-shop/backoffice/internal/domain"
	"github.com/sakura-shop/backoffice/internal/domain/entity"
	"github.com/sakura-shop/backoffice/internal/domain/repository"
	"github.com/sakura-shop/backoffice/pkg/logger"
)

// RestoreUseCase agrupa las transiciones de ciclo de vida de una venta ya creada:
// anulación (soft delete), restauración y cambio de estado.
type RestoreUseCase struct {
	txRunner SalesTxRunner
	log      *logger.Logger
	now      func() time.Time
}

// NewRestoreUseCase construye el caso de uso.
func NewRestoreUseCase(txRunner SalesTxRunner, log *logger.Logger) *RestoreUseCase {
	return &RestoreUseCase{txRunner: txRunner, log: log, now: time.Now}
}

// SetClock reemplaza el reloj usado para deleted_at/updated_at.
func (uc *RestoreUseCase) SetClock(now func() time.Time) { uc.now = now }

// Delete marca la venta como eliminada y devuelve al inventario la cantidad de cada línea.
func (uc *RestoreUseCase) Delete(ctx context.Context, actor Actor, idOrDocNo string) error {
	if !entity.CanManageSales(actor.Role) {
		return domain.ErrForbidden
	}
	var docNo string
	err := uc.txRunner.RunSales(ctx, func(saleRepo repository.SaleRepository, productRepo repository.ProductRepository) error {
		sale, err := findSale(ctx, saleRepo, idOrDocNo)
		if err != nil {
			return err
		}
		if sale.IsDeleted() {
			return domain.NewValidationError("la venta %s ya está eliminada", sale.DocNo)
		}
		docNo = sale.DocNo
		if err := saleRepo.SoftDelete(ctx, sale.ID, actor.UserID, uc.now()); err != nil {
			return err
		}
		for _, it := range sale.Items {
			if err := productRepo.AddStock(ctx, it.ProductID, it.Qty); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("doc_no", docNo).Str("user_id", actor.UserID).Msg("venta eliminada")
	return nil
}

// Restore revierte un soft delete volviendo a descontar el stock de cada línea.
// Sin force, valida el stock actual de todas las líneas y rechaza con el detalle de las que
// quedarían en negativo, sin modificar nada. Con force descuenta sin condición.
func (uc *RestoreUseCase) Restore(ctx context.Context, actor Actor, idOrDocNo string, force bool) error {
	if !entity.CanManageSales(actor.Role) {
		return domain.ErrForbidden
	}
	var docNo string
	err := uc.txRunner.RunSales(ctx, func(saleRepo repository.SaleRepository, productRepo repository.ProductRepository) error {
		sale, err := findSale(ctx, saleRepo, idOrDocNo)
		if err != nil {
			return err
		}
		if !sale.IsDeleted() {
			return domain.NewValidationError("la venta %s no está eliminada", sale.DocNo)
		}
		docNo = sale.DocNo

		if force {
			for _, it := range sale.Items {
				if err := productRepo.ForceDecrementStock(ctx, it.ProductID, it.Qty); err != nil {
					return err
				}
			}
			return saleRepo.ClearDeleted(ctx, sale.ID, uc.now())
		}

		problems, err := restoreProblems(ctx, productRepo, sale.Items)
		if err != nil {
			return err
		}
		if len(problems) > 0 {
			return &domain.InsufficientStockError{Problems: problems}
		}
		for _, it := range sale.Items {
			ok, err := productRepo.DecrementStock(ctx, it.ProductID, it.Qty)
			if err != nil {
				return err
			}
			if !ok {
				// Otro pedido consumió el stock entre la verificación y el descuento.
				remain := 0
				current, err := productRepo.GetByID(ctx, it.ProductID)
				if err != nil {
					return err
				}
				if current != nil {
					remain = current.Stock
				}
				return &domain.InsufficientStockError{Problems: []domain.StockProblem{
					{Code: it.Code, Name: it.Name, Remain: remain, Need: it.Qty},
				}}
			}
		}
		return saleRepo.ClearDeleted(ctx, sale.ID, uc.now())
	})
	if err != nil {
		return err
	}
	uc.log.Info().
		Str("doc_no", docNo).
		Str("user_id", actor.UserID).
		Bool("force", force).
		Msg("venta restaurada")
	return nil
}

// restoreProblems compara el stock actual con lo que pide cada línea. Las líneas de un
// mismo producto se acumulan: la segunda ve el stock que dejaría la primera.
func restoreProblems(ctx context.Context, productRepo repository.ProductRepository, items []entity.SaleItem) ([]domain.StockProblem, error) {
	remaining := make(map[string]int)
	var problems []domain.StockProblem
	for _, it := range items {
		stock, ok := remaining[it.ProductID]
		if !ok {
			p, err := productRepo.GetByID(ctx, it.ProductID)
			if err != nil {
				return nil, err
			}
			if p != nil {
				stock = p.Stock
			}
		}
		if stock-it.Qty < 0 {
			problems = append(problems, domain.StockProblem{Code: it.Code, Name: it.Name, Remain: stock, Need: it.Qty})
		}
		remaining[it.ProductID] = stock - it.Qty
	}
	return problems, nil
}

// ChangeStatus mueve la venta a cualquiera de los estados válidos (sin orden forzado).
func (uc *RestoreUseCase) ChangeStatus(ctx context.Context, actor Actor, idOrDocNo, status string) error {
	status = strings.ToUpper(strings.TrimSpace(status))
	if !entity.ValidSaleStatus(status) {
		return domain.NewValidationError("estado inválido: %q", status)
	}
	return uc.txRunner.RunSales(ctx, func(saleRepo repository.SaleRepository, _ repository.ProductRepository) error {
		sale, err := findSale(ctx, saleRepo, idOrDocNo)
		if err != nil {
			return err
		}
		if sale.IsDeleted() {
			return domain.NewValidationError("la venta %s está eliminada", sale.DocNo)
		}
		if err := saleRepo.UpdateStatus(ctx, sale.ID, status, uc.now()); err != nil {
			return err
		}
		uc.log.Info().
			Str("doc_no", sale.DocNo).
			Str("from", sale.Status).
			Str("to", status).
			Str("user_id", actor.UserID).
			Msg("estado de venta actualizado")
		return nil
	})
}

// findSale busca por id y, si no existe, por doc_no.
func findSale(ctx context.Context, saleRepo repository.SaleRepository, idOrDocNo string) (*entity.Sale, error) {
	key := strings.TrimSpace(idOrDocNo)
	if key == "" {
		return nil, domain.NewValidationError("falta el id o doc_no de la venta")
	}
	sale, err := saleRepo.GetByID(ctx, key)
	if err != nil {
		return nil, err
	}
	if sale != nil {
		return sale, nil
	}
	sale, err = saleRepo.GetByDocNo(ctx, key)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return sale, nil
}
