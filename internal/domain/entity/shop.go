package entity

// Shop datos de la tienda emisora impresos en los documentos de venta (vienen de config).
type Shop struct {
	Name    string
	Address string
	TaxID   string
}
