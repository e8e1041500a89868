package sales

import (
	"github.com/shopspring/decimal"

	"github.com/sakura-shop/backoffice/internal/domain/entity"
)

// VATRate IVA fijo (7%), siempre aplicado.
var VATRate = decimal.RequireFromString("0.07")

var half = decimal.RequireFromString("0.5")

// Round2 redondea a 2 decimales con semántica half-up (0.005 → 0.01, −0.005 → 0.00).
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Shift(2).Add(half).Floor().Shift(-2)
}

// LineAmount = qty × price − discount. No recorta negativos; el caller valida.
func LineAmount(qty int, price, discount decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(qty)).Mul(price).Sub(discount)
}

// Totals resumen monetario de una venta.
type Totals struct {
	Subtotal  decimal.Decimal
	VAT       decimal.Decimal
	Grand     decimal.Decimal
	TotalCOGS decimal.Decimal
	Gross     decimal.Decimal
}

// ComputeTotals agrega las líneas: subtotal = Σamount, vat = subtotal × 7%,
// grand = subtotal + vat, totalCogs = Σcogs, gross = grand − totalCogs.
func ComputeTotals(items []entity.SaleItem) Totals {
	subtotal := decimal.Zero
	cogs := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Amount)
		cogs = cogs.Add(it.COGS)
	}
	subtotal = Round2(subtotal)
	cogs = Round2(cogs)
	vat := Round2(subtotal.Mul(VATRate))
	grand := subtotal.Add(vat)
	return Totals{
		Subtotal:  subtotal,
		VAT:       vat,
		Grand:     grand,
		TotalCOGS: cogs,
		Gross:     grand.Sub(cogs),
	}
}
