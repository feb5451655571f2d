package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// Allocation cantidad tomada de un lote concreto dentro de un plan de consumo.
type Allocation struct {
	LotID    string
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
	Cost     decimal.Decimal // Quantity * UnitCost, redondeado a 2 decimales
}

// Plan resultado de la asignación FIFO: qué tomar de cada lote, el costo total y
// cuánto faltó. Si Shortfall > 0 el caller debe rechazar el movimiento completo;
// un plan nunca se aplica parcialmente.
type Plan struct {
	Allocations []Allocation
	TotalCost   decimal.Decimal
	Shortfall   decimal.Decimal
}

// Satisfied indica si el plan cubre toda la cantidad solicitada.
func (p Plan) Satisfied() bool {
	return !p.Shortfall.IsPositive()
}

// Allocate recorre los lotes y arma el plan de consumo FIFO para la cantidad pedida.
// Los lotes deben venir YA ordenados ascendente por (fecha de carga, timestamp de
// registro, id): el orden es responsabilidad del caller, no de esta función.
//
// Función pura: no muta los lotes ni tiene efectos secundarios. Toda la aritmética
// se redondea a 2 decimales tras cada acumulación para evitar deriva numérica.
func Allocate(lots []*entity.Lot, required decimal.Decimal) Plan {
	plan := Plan{
		TotalCost: decimal.Zero,
		Shortfall: decimal.Zero,
	}
	remaining := required.Round(2)

	for _, lot := range lots {
		if !remaining.IsPositive() {
			break
		}
		if !lot.IsOpen() {
			continue
		}
		take := decimal.Min(remaining, lot.RemainingQty).Round(2)
		cost := take.Mul(lot.UnitCost).Round(2)

		plan.Allocations = append(plan.Allocations, Allocation{
			LotID:    lot.ID,
			Quantity: take,
			UnitCost: lot.UnitCost,
			Cost:     cost,
		})
		plan.TotalCost = plan.TotalCost.Add(cost).Round(2)
		remaining = remaining.Sub(take).Round(2)
	}

	if remaining.IsPositive() {
		plan.Shortfall = remaining
	}
	return plan
}
