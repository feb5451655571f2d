package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot representa un lote de stock originado por un único movimiento de carga (1:1).
// InitialQty y UnitCost son inmutables tras la creación (salvo edición explícita de la
// carga); RemainingQty baja con cada descarga FIFO y sube al anular/editar descargas.
// Invariante: 0 <= RemainingQty <= InitialQty.
type Lot struct {
	ID              string
	ProductID       string
	MovementID      string // movimiento de carga que lo originó; vacío solo en lotes sintéticos de restauración
	InitialQty      decimal.Decimal
	RemainingQty    decimal.Decimal
	UnitCost        decimal.Decimal
	LoadDate        time.Time // fecha de negocio declarada por el usuario; gobierna la elegibilidad FIFO
	RegisteredAt    time.Time // timestamp de sistema; desempata el orden FIFO cuando LoadDate coincide
	DocumentRef     *string
	CounterpartyRef *string
}

// ConsumedQty unidades ya descargadas de este lote.
func (l *Lot) ConsumedQty() decimal.Decimal {
	return l.InitialQty.Sub(l.RemainingQty)
}

// IsOpen indica si el lote aún tiene unidades disponibles.
func (l *Lot) IsOpen() bool {
	return l.RemainingQty.GreaterThan(decimal.Zero)
}

// IsUntouched indica que nada se ha consumido del lote (condición para anular su carga).
func (l *Lot) IsUntouched() bool {
	return l.RemainingQty.Equal(l.InitialQty)
}
