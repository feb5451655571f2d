package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
)

// InsufficientStockError indica que los lotes elegibles a la fecha del movimiento
// no cubren la cantidad solicitada. Shortfall es lo que faltó; el handler lo expone
// para que el usuario sepa cuánto no alcanzó.
type InsufficientStockError struct {
	ProductID string
	Requested decimal.Decimal
	Available decimal.Decimal
	Shortfall decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para el producto %s: faltan %s unidades", e.ProductID, e.Shortfall.String())
}

// Unwrap permite errors.Is(err, ErrInsufficientStock) en los handlers.
func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// ConflictError indica que la operación violaría los invariantes de consumo de lotes
// (p. ej. anular una carga ya consumida parcialmente, o reducir una carga por debajo
// de lo ya consumido).
type ConflictError struct {
	Reason   string
	Consumed decimal.Decimal
}

func (e *ConflictError) Error() string {
	if e.Consumed.IsPositive() {
		return fmt.Sprintf("%s (%s unidades ya consumidas)", e.Reason, e.Consumed.String())
	}
	return e.Reason
}

// Unwrap permite errors.Is(err, ErrConflict) en los handlers.
func (e *ConflictError) Unwrap() error { return ErrConflict }
