package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de evento para la reconstrucción histórica de giacencia.
const (
	ReplayKindLot    = "lot"    // una carga: aporta un lote con su cantidad inicial
	ReplayKindUnload = "unload" // una descarga: consume lotes activos en orden FIFO
)

// ReplayEvent evento de la línea de tiempo de un producto hasta una fecha dada,
// en orden de registro. La valoración histórica se reconstruye simulando FIFO sobre
// estos eventos en memoria, porque RemainingQty persistido refleja "ahora", no el pasado.
type ReplayEvent struct {
	Kind            string
	ID              string
	Quantity        decimal.Decimal // cantidad inicial del lote o cantidad descargada
	UnitCost        decimal.Decimal // cero para descargas
	Date            time.Time       // fecha de negocio del evento
	RegisteredAt    time.Time
	DocumentRef     *string
	CounterpartyRef *string
}
