package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de inventario.
const (
	MovementKindLoad   = "load"   // carga: entrada de mercancía, crea un lote
	MovementKindUnload = "unload" // descarga: salida de mercancía, consume lotes FIFO
)

// Movement representa un evento de inventario visible al usuario (la unidad del
// historial auditable). Para cargas TotalValue = UnitPrice * Quantity; para descargas
// TotalValue es el costo FIFO calculado al momento de registrarla.
type Movement struct {
	ID              string
	ProductID       string
	ProductName     string // denormalizado; solo se llena en listados
	Kind            string
	Quantity        decimal.Decimal
	UnitPrice       *decimal.Decimal // solo cargas; nil para descargas
	TotalValue      decimal.Decimal
	BusinessDate    time.Time // fecha de negocio declarada por el usuario
	RegisteredAt    time.Time // timestamp de sistema (orden del historial)
	DocumentRef     *string
	CounterpartyRef *string
}

// UnloadUnitCost costo unitario promedio de una descarga (TotalValue / Quantity).
// Devuelve cero si el movimiento no es una descarga o la cantidad es cero.
func (m *Movement) UnloadUnitCost() decimal.Decimal {
	if m.Kind != MovementKindUnload || !m.Quantity.IsPositive() {
		return decimal.Zero
	}
	return m.TotalValue.Div(m.Quantity).Round(2)
}

// LotConsumption detalle persistido de cuánto tomó una descarga de cada lote.
// Registrarlo al momento de la descarga hace la anulación exacta, sin heurísticas.
type LotConsumption struct {
	MovementID string
	LotID      string
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
}
