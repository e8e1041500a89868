package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sakura-shop/backoffice/internal/domain/inventory"
)

func TestCostCalculator(t *testing.T) {
	cases := []struct {
		name         string
		stock        int
		cost         string
		entrada      int
		costoEntrada string
		want         string
	}{
		{"primera recepción", 0, "0", 10, "50", "50"},
		{"promedio ponderado", 10, "50", 10, "70", "60"},
		{"redondeo a 4 decimales", 3, "10", 4, "11", "10.5714"},
		{"stock negativo usa costo de entrada", -2, "40", 5, "55", "55"},
		{"sin unidades", 0, "30", 0, "20", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := inventory.CostCalculator(tc.stock, decimal.RequireFromString(tc.cost), tc.entrada, decimal.RequireFromString(tc.costoEntrada))
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "got %s, want %s", got, tc.want)
		})
	}
}
