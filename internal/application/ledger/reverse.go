package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// DeleteMovement anula un movimiento y revierte sus efectos sobre los lotes, todo en
// una transacción.
//
// Carga: solo se anula si su lote sigue intacto (RemainingQty == InitialQty); si ya
// se consumió algo devuelve ConflictError con la cantidad consumida. Se elimina el
// lote y el movimiento, dejando el almacén exactamente como antes de la carga.
//
// Descarga: restaura la cantidad consumida en los lotes. Si la descarga tiene plan
// de consumo persistido la restauración es exacta (cada lote recupera lo que dio);
// si no (movimientos importados antes del tracking) se usa la heurística FIFO del
// sistema de origen: ver restoreUnload.
func (uc *LedgerUseCase) DeleteMovement(ctx context.Context, movementID string) error {
	if movementID == "" {
		return domain.ErrInvalidInput
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	var productID string
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		lotRepo repository.LotRepository,
		consRepo repository.ConsumptionRepository,
		_ repository.ProductRepository,
	) error {
		mov, err := movRepo.GetByID(movementID)
		if err != nil {
			return err
		}
		if mov == nil {
			return domain.ErrNotFound
		}
		productID = mov.ProductID

		switch mov.Kind {
		case entity.MovementKindLoad:
			if err := uc.deleteLoad(movRepo, lotRepo, mov); err != nil {
				return err
			}
		case entity.MovementKindUnload:
			if err := restoreUnload(lotRepo, consRepo, mov); err != nil {
				return err
			}
			if err := consRepo.DeleteByMovement(mov.ID); err != nil {
				return err
			}
			if err := movRepo.Delete(mov.ID); err != nil {
				return err
			}
		default:
			return domain.ErrInvalidInput
		}
		return nil
	})
	if err != nil {
		return err
	}

	uc.publish(EventMovementDeleted, productID)
	return nil
}

// deleteLoad elimina una carga y su lote; exige el lote intacto.
func (uc *LedgerUseCase) deleteLoad(
	movRepo repository.MovementRepository,
	lotRepo repository.LotRepository,
	mov *entity.Movement,
) error {
	lot, err := lotRepo.GetByMovementID(mov.ID)
	if err != nil {
		return err
	}
	if lot != nil {
		if !lot.IsUntouched() {
			return &domain.ConflictError{
				Reason:   "no se puede anular la carga: el lote ya fue consumido parcialmente",
				Consumed: lot.ConsumedQty(),
			}
		}
		if err := lotRepo.Delete(lot.ID); err != nil {
			return err
		}
	}
	return movRepo.Delete(mov.ID)
}

// restoreUnload devuelve a los lotes la cantidad que la descarga consumió.
//
// Con plan persistido la operación es exacta y siempre cabe: el decremento original
// garantiza RemainingQty + restaurado <= InitialQty, y los lotes consumidos no pueden
// haberse borrado (anular su carga exige el lote intacto).
//
// Sin plan (datos anteriores al tracking) se aplica la heurística del sistema de
// origen: recorrer los lotes en orden FIFO restaurando hasta el espacio consumido de
// cada uno (InitialQty - RemainingQty); si al final queda cantidad sin ubicar, se crea
// un lote sintético fechado en la fecha de negocio de la descarga con costo unitario
// promedio (TotalValue / Quantity). La procedencia es aproximada pero el valor total
// del almacén se conserva.
func restoreUnload(
	lotRepo repository.LotRepository,
	consRepo repository.ConsumptionRepository,
	mov *entity.Movement,
) error {
	plan, err := consRepo.ListByMovement(mov.ID)
	if err != nil {
		return err
	}
	if len(plan) > 0 {
		for _, c := range plan {
			lot, err := lotRepo.GetByID(c.LotID)
			if err != nil {
				return err
			}
			if lot == nil {
				return &domain.ConflictError{Reason: "lote del plan de consumo no encontrado"}
			}
			if err := lotRepo.SetRemaining(lot.ID, lot.RemainingQty.Add(c.Quantity)); err != nil {
				return err
			}
		}
		return nil
	}
	return restoreUnloadHeuristic(lotRepo, mov)
}

// restoreUnloadHeuristic restauración FIFO acotada por el espacio consumido de cada
// lote, con lote sintético para el remanente.
func restoreUnloadHeuristic(lotRepo repository.LotRepository, mov *entity.Movement) error {
	lots, err := lotRepo.ListByProduct(mov.ProductID)
	if err != nil {
		return err
	}
	toRestore := mov.Quantity
	for _, lot := range lots {
		if !toRestore.IsPositive() {
			break
		}
		space := lot.ConsumedQty()
		if !space.IsPositive() {
			continue
		}
		add := decimal.Min(toRestore, space)
		if err := lotRepo.SetRemaining(lot.ID, lot.RemainingQty.Add(add)); err != nil {
			return err
		}
		toRestore = toRestore.Sub(add).Round(2)
	}
	if !toRestore.IsPositive() {
		return nil
	}

	// El espacio consumido ya fue reutilizado por descargas más nuevas: absorber el
	// resto en un lote sintético al costo promedio de la descarga anulada.
	avgCost := mov.TotalValue.Div(mov.Quantity).Round(2)
	return lotRepo.Create(&entity.Lot{
		ID:           uuid.New().String(),
		ProductID:    mov.ProductID,
		InitialQty:   toRestore,
		RemainingQty: toRestore,
		UnitCost:     avgCost,
		LoadDate:     mov.BusinessDate,
		RegisteredAt: time.Now(),
	})
}
