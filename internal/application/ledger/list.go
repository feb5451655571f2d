package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ListMovements historial completo, más reciente primero. Lectura sin lock: el
// historial es append-mostly y una foto ligeramente desfasada es aceptable.
func (uc *LedgerUseCase) ListMovements(_ context.Context, limit, offset int) ([]*entity.Movement, error) {
	return uc.movements.List(limit, offset)
}

// ListMovementsUpTo historial con fecha de negocio <= date (YYYY-MM-DD).
func (uc *LedgerUseCase) ListMovementsUpTo(_ context.Context, date string, limit, offset int) ([]*entity.Movement, error) {
	d, err := time.Parse(businessDateLayout, date)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	return uc.movements.ListUpTo(d, limit, offset)
}
