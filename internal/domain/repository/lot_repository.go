package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// LotRepository acceso al almacén de lotes.
type LotRepository interface {
	Create(lot *entity.Lot) error
	GetByID(id string) (*entity.Lot, error)
	// GetByMovementID devuelve el lote originado por un movimiento de carga (nil si no existe).
	GetByMovementID(movementID string) (*entity.Lot, error)
	// ListOpenByProduct lotes con RemainingQty > 0 en orden FIFO (load_date, registered_at, id).
	// Si asOf no es nil, solo lotes con load_date <= asOf (corte temporal de las descargas).
	ListOpenByProduct(productID string, asOf *time.Time) ([]*entity.Lot, error)
	// ListByProduct todos los lotes del producto (incluidos agotados) en orden FIFO.
	ListByProduct(productID string) ([]*entity.Lot, error)
	// SetRemaining fija la cantidad restante de un lote.
	SetRemaining(id string, remaining decimal.Decimal) error
	Update(lot *entity.Lot) error
	Delete(id string) error
	DeleteByProduct(productID string) error
	// SumRemaining giacencia total del producto (suma de RemainingQty).
	SumRemaining(productID string) (decimal.Decimal, error)
}
