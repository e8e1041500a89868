package memory

import (
	"context"

	"github.com/sakura-shop/backoffice/internal/domain/entity"
	"github.com/sakura-shop/backoffice/internal/domain/repository"
)

var _ repository.AdSpendRepository = (*AdSpendRepo)(nil)

// AdSpendRepo gasto publicitario en memoria.
type AdSpendRepo struct {
	a accessor
}

// Upsert reemplaza por (fecha, plataforma, campaña) conservando el id original.
func (r *AdSpendRepo) Upsert(_ context.Context, rows []*entity.AdSpend) error {
	return r.a.with(func(st *state) error {
		for _, row := range rows {
			key := adSpendKey(row)
			a := *row
			if existing, ok := st.adSpend[key]; ok {
				a.ID = existing.ID
				a.CreatedAt = existing.CreatedAt
			}
			st.adSpend[key] = &a
		}
		return nil
	})
}

func adSpendKey(a *entity.AdSpend) string {
	return a.Date.Format("2006-01-02") + "|" + a.Platform + "|" + a.Campaign
}
