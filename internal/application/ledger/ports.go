package ledger

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Todos los escritos del motor (movimiento + lote(s) + plan de consumo)
// se confirman o se revierten juntos; cualquier error en fn hace rollback completo.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		lotRepo repository.LotRepository,
		consRepo repository.ConsumptionRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// Tipos de evento de cambio emitidos tras el commit.
const (
	EventMovementRecorded = "movement_recorded"
	EventMovementUpdated  = "movement_updated"
	EventMovementDeleted  = "movement_deleted"
	EventProductChanged   = "product_changed"
	EventBrandChanged     = "brand_changed"
)

// Event notificación de cambio para los listeners en tiempo real.
type Event struct {
	Kind      string `json:"kind"`
	ProductID string `json:"product_id,omitempty"`
}

// EventPublisher canal de salida de notificaciones. Se invoca solo después de un
// commit exitoso; la entrega es best-effort y su fallo nunca revierte la transacción.
type EventPublisher interface {
	Publish(event Event)
}
