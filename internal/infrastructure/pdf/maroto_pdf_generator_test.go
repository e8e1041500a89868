package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakura-shop/backoffice/internal/domain/entity"
	"github.com/sakura-shop/backoffice/internal/domain/sales"
	"github.com/sakura-shop/backoffice/internal/infrastructure/pdf"
)

func TestFormatBaht(t *testing.T) {
	cases := map[string]string{
		"0":          "฿0.00",
		"214":        "฿214.00",
		"1234.5":     "฿1,234.50",
		"1000000":    "฿1,000,000.00",
		"-2500.005":  "-฿2,500.00",
		"999999.995": "฿1,000,000.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, pdf.FormatBaht(decimal.RequireFromString(in)), in)
	}
}

func TestGenerateSalePDF(t *testing.T) {
	gen := pdf.NewMarotoPDFGenerator(entity.Shop{Name: "Sakura Shop", Address: "Bangkok", TaxID: "0105555000000"})
	sale := &entity.Sale{
		ID:           "s1",
		DocNo:        "SO-25691016001",
		DocDate:      time.Date(2026, 10, 16, 0, 0, 0, 0, sales.Location),
		Channel:      "line",
		CustomerName: "Somchai",
		Total:        decimal.NewFromInt(200),
		VAT:          decimal.NewFromInt(14),
		GrandTotal:   decimal.NewFromInt(214),
		Status:       entity.SaleStatusNew,
		Items: []entity.SaleItem{
			{Code: "A1", Name: "Taza", Qty: 2, Price: decimal.NewFromInt(100), Amount: decimal.NewFromInt(200)},
		},
	}

	out, err := gen.GenerateSalePDF(context.Background(), sale)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un PDF")

	_, err = gen.GenerateSalePDF(context.Background(), nil)
	assert.Error(t, err)
}
