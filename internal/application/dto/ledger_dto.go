package dto

import "github.com/shopspring/decimal"

// RecordMovementRequest body unificado para POST /api/movements; kind decide la rama.
// Para cargas, document_ref es obligatorio: es la clave de detección de duplicados.
type RecordMovementRequest struct {
	Kind            string           `json:"kind"` // load | unload
	ProductID       string           `json:"product_id"`
	Quantity        decimal.Decimal  `json:"quantity"`
	UnitPrice       *decimal.Decimal `json:"unit_price,omitempty"` // solo cargas
	BusinessDate    string           `json:"business_date"`
	DocumentRef     string           `json:"document_ref,omitempty"`
	CounterpartyRef string           `json:"counterparty_ref,omitempty"`
}

// EditMovementRequest body para PUT /api/movements/:id.
type EditMovementRequest struct {
	Quantity        decimal.Decimal  `json:"quantity"`
	UnitPrice       *decimal.Decimal `json:"unit_price,omitempty"` // obligatorio al editar cargas
	BusinessDate    string           `json:"business_date"`
	DocumentRef     string           `json:"document_ref,omitempty"` // obligatorio al editar cargas
	CounterpartyRef string           `json:"counterparty_ref,omitempty"`
}

// MovementResponse respuesta de registro/edición de movimiento.
type MovementResponse struct {
	MovementID string `json:"movement_id"`
	LotID      string `json:"lot_id,omitempty"`     // solo cargas
	TotalCost  string `json:"total_cost,omitempty"` // solo descargas (costo FIFO)
}

// MovementDTO ítem del historial de movimientos.
type MovementDTO struct {
	ID              string  `json:"id"`
	ProductID       string  `json:"product_id"`
	ProductName     string  `json:"product_name"`
	Kind            string  `json:"kind"`
	Quantity        string  `json:"quantity"`
	UnitPrice       *string `json:"unit_price,omitempty"`
	TotalValue      string  `json:"total_value"`
	UnloadUnitCost  *string `json:"unload_unit_cost,omitempty"` // total/cantidad, solo descargas
	BusinessDate    string  `json:"business_date"`
	RegisteredAt    string  `json:"registered_at"`
	DocumentRef     *string `json:"document_ref,omitempty"`
	CounterpartyRef *string `json:"counterparty_ref,omitempty"`
}
