package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdSpend gasto publicitario diario por plataforma y campaña (importado desde CSV).
type AdSpend struct {
	ID          string
	Date        time.Time
	Platform    string
	Campaign    string
	Spend       decimal.Decimal
	Impressions int64
	Clicks      int64
	CreatedAt   time.Time
}
