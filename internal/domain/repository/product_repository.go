package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sakura-shop/backoffice/internal/domain/entity"
)

// ProductFilter filtros para el listado de productos.
type ProductFilter struct {
	Search   string // código o nombre (contiene, sin distinguir mayúsculas)
	LowStock bool   // solo stock <= safety_stock
	Limit    int
	Offset   int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los métodos de lectura devuelven (nil, nil) cuando no existe el registro.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// GetForUpdate lee el producto bloqueando la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// GetByCodes devuelve los productos existentes indexados por código.
	GetByCodes(ctx context.Context, codes []string) (map[string]*entity.Product, error)
	// Update actualiza nombre, precio y stock de seguridad. Cost y Stock se manejan aparte.
	Update(ctx context.Context, product *entity.Product) error
	UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error
	// AddStock suma qty al stock (recepciones, anulación de ventas).
	AddStock(ctx context.Context, productID string, qty int) error
	// DecrementStock resta qty solo si stock >= qty, en una única sentencia atómica.
	// Devuelve false si el stock no alcanzaba (sin modificar nada).
	DecrementStock(ctx context.Context, productID string, qty int) (bool, error)
	// ForceDecrementStock resta qty sin condición; el stock puede quedar negativo.
	ForceDecrementStock(ctx context.Context, productID string, qty int) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, int, error)
	CountLowStock(ctx context.Context) (int, error)
}
