package dto

// LotDTO lote abierto en la respuesta de detalle por producto (orden FIFO).
type LotDTO struct {
	ID              string  `json:"id"`
	RemainingQty    string  `json:"remaining_qty"`
	UnitCost        string  `json:"unit_cost"`
	LoadDate        string  `json:"load_date"`
	DocumentRef     *string `json:"document_ref,omitempty"`
	CounterpartyRef *string `json:"counterparty_ref,omitempty"`
}

// ProductValuationDTO giacencia y valor FIFO de un producto.
type ProductValuationDTO struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    string `json:"quantity"`
	Value       string `json:"value"`
	// Lots lotes supervivientes; solo en la valoración histórica.
	Lots []LotDTO `json:"lots,omitempty"`
}

// ValuationReportDTO resumen del almacén (actual o a una fecha).
type ValuationReportDTO struct {
	Products   []ProductValuationDTO `json:"products"`
	TotalValue string                `json:"total_value"`
	AsOf       string                `json:"as_of,omitempty"` // solo valoración histórica
}
