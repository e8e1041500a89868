package dto

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// Contiene los KPIs principales del día y del mes en curso, más el Top-5 SKUs del mes.
type DashboardSummaryDTO struct {
	// Métricas del día actual
	TodaySales  Money `json:"today_sales"`  // grand total de hoy
	TodayMargin Money `json:"today_margin"` // grand total - COGS

	// Métricas del mes en curso (día 1 – hoy)
	MonthlySales   Money `json:"monthly_sales"`
	MonthlyMargin  Money `json:"monthly_margin"`
	MonthlyAdSpend Money `json:"monthly_ad_spend"`
	MonthlyROAS    Money `json:"monthly_roas"` // ventas / gasto publicitario (0 sin gasto)

	// Top 5 SKUs por ingreso del mes (ordenados de mayor a menor revenue)
	TopSKUs []TopSKUDTO `json:"top_skus"`

	LowStockCount int `json:"low_stock_count"`

	// Metadatos del período
	DateLabel string `json:"date_label"` // ej: "ตุลาคม 2569"
}

// TopSKUDTO resumen de un SKU para el widget del dashboard.
type TopSKUDTO struct {
	Code             string `json:"code"`
	Name             string `json:"name"`
	QuantitySold     int    `json:"quantity_sold"`
	TotalRevenue     Money  `json:"total_revenue"`
	MarginPercentage Money  `json:"margin_percentage"` // (revenue - cogs) / revenue * 100
}

// ChannelReportDTO fila del reporte de ventas por canal.
type ChannelReportDTO struct {
	Channel   string `json:"channel"`
	SaleCount int    `json:"sale_count"`
	Revenue   Money  `json:"revenue"`
	TotalCOGS Money  `json:"total_cogs"`
	Margin    Money  `json:"margin"`
	AdSpend   Money  `json:"ad_spend"`
	ROAS      Money  `json:"roas"`
}

// SalesByChannelDTO respuesta de GET /api/reports/sales-by-channel.
type SalesByChannelDTO struct {
	From     string             `json:"from"`
	To       string             `json:"to"`
	Channels []ChannelReportDTO `json:"channels"`
}
