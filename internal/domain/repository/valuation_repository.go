package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ValuationRepository consultas de solo lectura para valoración de inventario.
type ValuationRepository interface {
	// TotalValue valor FIFO total del almacén (sum RemainingQty * UnitCost, lotes abiertos).
	TotalValue() (decimal.Decimal, error)
	// ProductSummary giacencia y valor por producto, ordenado por nombre.
	ProductSummary() ([]*entity.ProductStock, error)
	// ReplayEvents línea de tiempo de un producto hasta una fecha: lotes con
	// load_date <= asOf y descargas con business_date <= asOf, en orden de registro.
	ReplayEvents(productID string, asOf time.Time) ([]*entity.ReplayEvent, error)
}

// UserRepository usuarios de la aplicación.
type UserRepository interface {
	Create(u *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
}
