package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/sakura-shop/backoffice/internal/domain"
	"github.com/sakura-shop/backoffice/internal/domain/entity"
	"github.com/sakura-shop/backoffice/internal/domain/repository"
	domainsales "github.com/sakura-shop/backoffice/internal/domain/sales"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas en memoria. Replica el índice único sobre doc_no.
type SaleRepo struct {
	a accessor
}

// Create inserta la venta; un doc_no existente es domain.ErrDocNoCollision.
func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	return r.a.with(func(st *state) error {
		if findSaleByDocNo(st, sale.DocNo) != nil {
			return domain.ErrDocNoCollision
		}
		if _, ok := st.sales[sale.ID]; ok {
			return domain.ErrDuplicate
		}
		st.sales[sale.ID] = cloneSale(sale)
		return nil
	})
}

// GetByID devuelve una copia de la venta o (nil, nil).
func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.a.with(func(st *state) error {
		if s, ok := st.sales[id]; ok {
			out = cloneSale(s)
		}
		return nil
	})
	return out, err
}

// GetByDocNo devuelve una copia de la venta o (nil, nil).
func (r *SaleRepo) GetByDocNo(_ context.Context, docNo string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.a.with(func(st *state) error {
		if s := findSaleByDocNo(st, docNo); s != nil {
			out = cloneSale(s)
		}
		return nil
	})
	return out, err
}

// LastDocNoWithPrefix mayor doc_no automático del día (prefijo + solo dígitos), primero por
// longitud y luego lexicográfico. Los números manuales con otro formato se ignoran.
func (r *SaleRepo) LastDocNoWithPrefix(_ context.Context, prefix string) (string, error) {
	last := ""
	err := r.a.with(func(st *state) error {
		for _, s := range st.sales {
			if _, ok := domainsales.SequenceOf(s.DocNo, prefix); !ok {
				continue
			}
			if len(s.DocNo) > len(last) || (len(s.DocNo) == len(last) && s.DocNo > last) {
				last = s.DocNo
			}
		}
		return nil
	})
	return last, err
}

// UpdateStatus cambia el estado.
func (r *SaleRepo) UpdateStatus(_ context.Context, id, status string, at time.Time) error {
	return r.mutate(id, func(s *entity.Sale) {
		s.Status = status
		s.UpdatedAt = at
	})
}

// SoftDelete marca la venta como eliminada.
func (r *SaleRepo) SoftDelete(_ context.Context, id, actorID string, at time.Time) error {
	return r.mutate(id, func(s *entity.Sale) {
		deletedAt, deletedBy := at, actorID
		s.DeletedAt = &deletedAt
		s.DeletedBy = &deletedBy
		s.UpdatedAt = at
	})
}

// ClearDeleted quita la marca de eliminación.
func (r *SaleRepo) ClearDeleted(_ context.Context, id string, at time.Time) error {
	return r.mutate(id, func(s *entity.Sale) {
		s.DeletedAt = nil
		s.DeletedBy = nil
		s.UpdatedAt = at
	})
}

func (r *SaleRepo) mutate(id string, fn func(s *entity.Sale)) error {
	return r.a.with(func(st *state) error {
		s, ok := st.sales[id]
		if !ok {
			return domain.ErrNotFound
		}
		fn(s)
		return nil
	})
}

// List devuelve cabeceras sin líneas, más recientes primero.
func (r *SaleRepo) List(_ context.Context, filter repository.SaleFilter) ([]*entity.Sale, int, error) {
	var all []*entity.Sale
	err := r.a.with(func(st *state) error {
		search := strings.ToLower(strings.TrimSpace(filter.Search))
		for _, s := range st.sales {
			if !filter.IncludeDeleted && s.IsDeleted() {
				continue
			}
			if filter.From != nil && s.DocDate.Before(*filter.From) {
				continue
			}
			if filter.To != nil && s.DocDate.After(*filter.To) {
				continue
			}
			if filter.Channel != "" && !strings.EqualFold(s.Channel, filter.Channel) {
				continue
			}
			if filter.Status != "" && s.Status != filter.Status {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(s.DocNo), search) &&
				!strings.Contains(strings.ToLower(s.CustomerName), search) {
				continue
			}
			c := cloneSale(s)
			c.Items = nil
			all = append(all, c)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].ListDate.Equal(all[j].ListDate) {
			return all[i].ListDate.After(all[j].ListDate)
		}
		return all[i].DocNo > all[j].DocNo
	})
	return paginate(all, filter.Limit, filter.Offset), len(all), nil
}

func findSaleByDocNo(st *state, docNo string) *entity.Sale {
	for _, s := range st.sales {
		if s.DocNo == docNo {
			return s
		}
	}
	return nil
}
