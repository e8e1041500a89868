// Package export serializa ventas para sistemas externos (contabilidad).
package export

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/sakura-shop/backoffice/internal/domain/entity"
	"github.com/sakura-shop/backoffice/internal/domain/sales"
)

// SaleXMLVersion versión del formato; el importador contable la valida.
const SaleXMLVersion = "1.0"

// SaleXMLExporter arma el XML de una venta con etree.
//
//	<SalesOrder version="1.0">
//	  <Seller>…</Seller>
//	  <Header>docNo, docDate, docDateBE, channel, status</Header>
//	  <Customer id="…">nombre</Customer>
//	  <Lines><Line no="1">…</Line></Lines>
//	  <Totals>subtotal, vat, grandTotal, totalCost</Totals>
//	</SalesOrder>
type SaleXMLExporter struct {
	shop entity.Shop
}

// NewSaleXMLExporter construye el exportador.
func NewSaleXMLExporter(shop entity.Shop) *SaleXMLExporter {
	return &SaleXMLExporter{shop: shop}
}

// Export devuelve el documento indentado con declaración XML UTF-8.
func (e *SaleXMLExporter) Export(sale *entity.Sale) ([]byte, error) {
	if sale == nil {
		return nil, fmt.Errorf("export: venta nil")
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("SalesOrder")
	root.CreateAttr("version", SaleXMLVersion)
	root.CreateAttr("id", sale.ID)

	seller := root.CreateElement("Seller")
	seller.CreateElement("Name").SetText(e.shop.Name)
	seller.CreateElement("TaxID").SetText(e.shop.TaxID)
	seller.CreateElement("Address").SetText(e.shop.Address)

	header := root.CreateElement("Header")
	header.CreateElement("DocNo").SetText(sale.DocNo)
	header.CreateElement("DocDate").SetText(sale.DocDate.Format("2006-01-02"))
	header.CreateElement("DocDateBE").SetText(sales.FormatThaiDate(sale.DocDate))
	header.CreateElement("Channel").SetText(sale.Channel)
	header.CreateElement("Status").SetText(sale.Status)
	if sale.IsDeleted() {
		header.CreateElement("Deleted").SetText("true")
	}
	header.CreateElement("CreatedBy").SetText(sale.CreatedBy)

	customer := root.CreateElement("Customer")
	if sale.CustomerID != nil {
		customer.CreateAttr("id", *sale.CustomerID)
	}
	customer.SetText(sale.CustomerName)

	lines := root.CreateElement("Lines")
	for i, it := range sale.Items {
		l := lines.CreateElement("Line")
		l.CreateAttr("no", strconv.Itoa(i+1))
		l.CreateElement("Code").SetText(it.Code)
		l.CreateElement("Name").SetText(it.Name)
		l.CreateElement("Qty").SetText(strconv.Itoa(it.Qty))
		l.CreateElement("UnitPrice").SetText(amount(it.Price))
		l.CreateElement("Discount").SetText(amount(it.Discount))
		l.CreateElement("Amount").SetText(amount(it.Amount))
		l.CreateElement("CostEach").SetText(it.CostEach.StringFixed(4))
		l.CreateElement("COGS").SetText(amount(it.COGS))
	}

	totals := root.CreateElement("Totals")
	totals.CreateElement("Subtotal").SetText(amount(sale.Total))
	vat := totals.CreateElement("VAT")
	vat.CreateAttr("rate", sales.VATRate.String())
	vat.SetText(amount(sale.VAT))
	totals.CreateElement("GrandTotal").SetText(amount(sale.GrandTotal))
	totals.CreateElement("TotalCost").SetText(amount(sale.TotalCost))

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("export: serializar XML: %w", err)
	}
	return out, nil
}

func amount(d decimal.Decimal) string {
	return sales.Round2(d).StringFixed(2)
}
