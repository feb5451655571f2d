package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// MovementRepository acceso al historial de movimientos (cargas y descargas).
type MovementRepository interface {
	Create(m *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	Update(m *entity.Movement) error
	Delete(id string) error
	DeleteByProduct(productID string) error
	// List historial completo con nombre de producto, más reciente primero
	// (registered_at DESC, id DESC).
	List(limit, offset int) ([]*entity.Movement, error)
	// ListUpTo movimientos con fecha de negocio <= date, más reciente primero.
	ListUpTo(date time.Time, limit, offset int) ([]*entity.Movement, error)
	// ExistsDuplicateLoad detecta la doble importación del mismo documento: otra carga
	// del mismo producto con igual cantidad, fecha de negocio y referencia de documento.
	ExistsDuplicateLoad(productID string, quantity decimal.Decimal, businessDate time.Time, documentRef string) (bool, error)
}

// ConsumptionRepository acceso al plan de consumo persistido de cada descarga.
type ConsumptionRepository interface {
	CreateBatch(items []*entity.LotConsumption) error
	ListByMovement(movementID string) ([]*entity.LotConsumption, error)
	DeleteByMovement(movementID string) error
	DeleteByProduct(productID string) error
}
