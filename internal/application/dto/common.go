package dto

import (
	"github.com/shopspring/decimal"

	"github.com/sakura-shop/backoffice/internal/domain/sales"
)

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 200 {
		p.Limit = 200
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Money monto expuesto con exactamente 2 decimales como número JSON (ej. 214.00).
type Money struct {
	decimal.Decimal
}

// NewMoney redondea a 2 decimales (half-up) antes de exponer.
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: sales.Round2(d)}
}

// MarshalJSON emite el monto sin comillas y con 2 decimales fijos.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.StringFixed(2)), nil
}

// UnmarshalJSON acepta número o string numérico.
func (m *Money) UnmarshalJSON(b []byte) error {
	return m.Decimal.UnmarshalJSON(b)
}
