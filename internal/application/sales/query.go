package sales

import (
	"context"
	"strings"
	"time"

	"github.com/sakura-shop/backoffice/internal/application/dto"
	"github.com/sakura-shop/backoffice/internal/domain"
	"github.com/sakura-shop/backoffice/internal/domain/entity"
	"github.com/sakura-shop/backoffice/internal/domain/repository"
	domainsales "github.com/sakura-shop/backoffice/internal/domain/sales"
)

// QueryUseCase lecturas de ventas (detalle y listado).
type QueryUseCase struct {
	saleRepo repository.SaleRepository
	now      func() time.Time
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(saleRepo repository.SaleRepository) *QueryUseCase {
	return &QueryUseCase{saleRepo: saleRepo, now: time.Now}
}

// Get devuelve la venta con sus líneas, buscando primero por id y luego por doc_no.
func (uc *QueryUseCase) Get(ctx context.Context, idOrDocNo string) (*entity.Sale, error) {
	return findSale(ctx, uc.saleRepo, idOrDocNo)
}

// GetResponse igual que Get pero ya mapeado al DTO.
func (uc *QueryUseCase) GetResponse(ctx context.Context, idOrDocNo string) (*dto.SaleResponse, error) {
	sale, err := uc.Get(ctx, idOrDocNo)
	if err != nil {
		return nil, err
	}
	out := ToSaleResponse(sale)
	return &out, nil
}

// List devuelve las ventas filtradas, más recientes primero. Las fechas aceptan los mismos
// formatos que docDate.
func (uc *QueryUseCase) List(ctx context.Context, q dto.SaleListQuery) (*dto.SaleListResponse, error) {
	q.DefaultPage()
	filter := repository.SaleFilter{
		Channel:        strings.TrimSpace(q.Channel),
		Status:         strings.ToUpper(strings.TrimSpace(q.Status)),
		Search:         strings.TrimSpace(q.Search),
		IncludeDeleted: q.IncludeDeleted,
		Limit:          q.Limit,
		Offset:         q.Offset,
	}
	if filter.Status != "" && !entity.ValidSaleStatus(filter.Status) {
		return nil, domain.NewValidationError("estado inválido: %q", q.Status)
	}
	now := uc.now()
	if strings.TrimSpace(q.From) != "" {
		from, ok := domainsales.ParseDocDate(q.From, now)
		if !ok {
			return nil, domain.NewValidationError("fecha 'from' inválida: %q", q.From)
		}
		filter.From = &from
	}
	if strings.TrimSpace(q.To) != "" {
		to, ok := domainsales.ParseDocDate(q.To, now)
		if !ok {
			return nil, domain.NewValidationError("fecha 'to' inválida: %q", q.To)
		}
		filter.To = &to
	}

	sales, total, err := uc.saleRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(sales))
	for _, s := range sales {
		items = append(items, ToSaleResponse(s))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// ToSaleResponse mapea la entidad al DTO de salida.
func ToSaleResponse(s *entity.Sale) dto.SaleResponse {
	out := dto.SaleResponse{
		ID:           s.ID,
		DocNo:        s.DocNo,
		DocDate:      s.DocDate.Format("2006-01-02"),
		Channel:      s.Channel,
		CustomerName: s.CustomerName,
		Total:        dto.NewMoney(s.Total),
		VAT:          dto.NewMoney(s.VAT),
		GrandTotal:   dto.NewMoney(s.GrandTotal),
		TotalCost:    dto.NewMoney(s.TotalCost),
		Gross:        dto.NewMoney(s.GrandTotal.Sub(s.TotalCost)),
		Status:       s.Status,
		DeletedAt:    s.DeletedAt,
		CreatedBy:    s.CreatedBy,
		CreatedAt:    s.CreatedAt,
	}
	if s.CustomerID != nil {
		out.CustomerID = *s.CustomerID
	}
	if s.DeletedBy != nil {
		out.DeletedBy = *s.DeletedBy
	}
	if len(s.Items) > 0 {
		out.Items = make([]dto.SaleItemResponse, 0, len(s.Items))
		for _, it := range s.Items {
			out.Items = append(out.Items, dto.SaleItemResponse{
				ID:        it.ID,
				ProductID: it.ProductID,
				Code:      it.Code,
				Name:      it.Name,
				Qty:       it.Qty,
				Price:     dto.NewMoney(it.Price),
				Discount:  dto.NewMoney(it.Discount),
				Amount:    dto.NewMoney(it.Amount),
				CostEach:  dto.NewMoney(it.CostEach),
				COGS:      dto.NewMoney(it.COGS),
			})
		}
	}
	return out
}
