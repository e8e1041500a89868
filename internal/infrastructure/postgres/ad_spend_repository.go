package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sakura-shop/backoffice/internal/domain/entity"
	"github.com/sakura-shop/backoffice/internal/domain/repository"
)

var _ repository.AdSpendRepository = (*AdSpendRepo)(nil)

// AdSpendRepo persistencia del gasto publicitario.
type AdSpendRepo struct {
	q Querier
}

// NewAdSpendRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdSpendRepository(q Querier) *AdSpendRepo {
	return &AdSpendRepo{q: q}
}

// Upsert inserta o reemplaza cada fila por (date, platform, campaign) en un solo batch.
func (r *AdSpendRepo) Upsert(ctx context.Context, rows []*entity.AdSpend) error {
	if len(rows) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, a := range rows {
		batch.Queue(`
			INSERT INTO ad_spend (id, date, platform, campaign, spend, impressions, clicks, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (date, platform, campaign)
			DO UPDATE SET spend = EXCLUDED.spend, impressions = EXCLUDED.impressions, clicks = EXCLUDED.clicks`,
			a.ID, a.Date, a.Platform, a.Campaign, a.Spend, a.Impressions, a.Clicks, a.CreatedAt,
		)
	}
	br := r.q.SendBatch(ctx, batch)
	for i := range rows {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("upsert ad_spend (fila %d): %w", i+1, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("upsert ad_spend: %w", err)
	}
	return nil
}
