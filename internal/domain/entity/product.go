package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product unidad de inventario (SKU). El catálogo es CRUD simple; los lotes y
// movimientos lo referencian por ID.
type Product struct {
	ID        string
	Name      string
	BrandID   *string
	CreatedAt time.Time
}

// ProductStock resumen de existencias de un producto: suma de RemainingQty de sus
// lotes abiertos y su valor FIFO (RemainingQty * UnitCost por lote).
type ProductStock struct {
	ProductID   string
	ProductName string
	Quantity    decimal.Decimal
	Value       decimal.Decimal
}
