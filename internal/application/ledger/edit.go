package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// EditInput entrada para editar un movimiento existente.
type EditInput struct {
	MovementID      string
	Quantity        decimal.Decimal
	UnitPrice       *decimal.Decimal // obligatorio al editar cargas; ignorado en descargas
	BusinessDate    string           // YYYY-MM-DD
	DocumentRef     string // obligatorio al editar cargas: clave de detección de duplicados
	CounterpartyRef string
}

// EditResult resultado de la edición. TotalCost solo aplica a descargas (costo FIFO
// de la reasignación).
type EditResult struct {
	TotalCost *decimal.Decimal
}

// EditMovement edita un movimiento como revertir-y-reaplicar dentro de una única
// transacción.
//
// Carga: la nueva cantidad no puede bajar de lo ya consumido del lote (ConflictError);
// el lote y el movimiento se actualizan en sitio.
//
// Descarga: se restaura la cantidad original completa en los lotes, se borra el plan
// de consumo viejo y se reasigna FIFO la nueva cantidad contra los lotes elegibles a
// la *nueva* fecha. Un lote tocado por la restauración y el reconsumo queda con el
// neto de ambos. Si la nueva asignación no alcanza, se devuelve
// InsufficientStockError y el rollback deja todo el estado previo intacto.
func (uc *LedgerUseCase) EditMovement(ctx context.Context, in EditInput) (*EditResult, error) {
	if in.MovementID == "" || !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	businessDate, err := parseBusinessDate(in.BusinessDate)
	if err != nil {
		return nil, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	var productID string
	result := &EditResult{}
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		lotRepo repository.LotRepository,
		consRepo repository.ConsumptionRepository,
		_ repository.ProductRepository,
	) error {
		mov, err := movRepo.GetByID(in.MovementID)
		if err != nil {
			return err
		}
		if mov == nil {
			return domain.ErrNotFound
		}
		productID = mov.ProductID

		quantity := in.Quantity.Round(2)
		mov.Quantity = quantity
		mov.BusinessDate = businessDate
		mov.DocumentRef = optionalRef(in.DocumentRef)
		mov.CounterpartyRef = optionalRef(in.CounterpartyRef)

		switch mov.Kind {
		case entity.MovementKindLoad:
			return uc.editLoad(movRepo, lotRepo, mov, in.UnitPrice)
		case entity.MovementKindUnload:
			totalCost, err := uc.editUnload(movRepo, lotRepo, consRepo, mov)
			if err != nil {
				return err
			}
			result.TotalCost = &totalCost
			return nil
		default:
			return domain.ErrInvalidInput
		}
	})
	if err != nil {
		return nil, err
	}

	uc.publish(EventMovementUpdated, productID)
	return result, nil
}

// editLoad actualiza la carga y su lote en sitio. mov ya trae los campos nuevos.
func (uc *LedgerUseCase) editLoad(
	movRepo repository.MovementRepository,
	lotRepo repository.LotRepository,
	mov *entity.Movement,
	unitPrice *decimal.Decimal,
) error {
	if unitPrice == nil || !unitPrice.IsPositive() {
		return domain.ErrInvalidInput
	}
	// Igual que al registrar: sin referencia de documento no hay detección de duplicados.
	if mov.DocumentRef == nil {
		return domain.ErrInvalidInput
	}
	lot, err := lotRepo.GetByMovementID(mov.ID)
	if err != nil {
		return err
	}
	if lot == nil {
		return domain.ErrNotFound
	}

	consumed := lot.ConsumedQty()
	if mov.Quantity.LessThan(consumed) {
		return &domain.ConflictError{
			Reason:   "la nueva cantidad es menor que lo ya consumido del lote",
			Consumed: consumed,
		}
	}

	price := unitPrice.Round(2)
	mov.UnitPrice = &price
	mov.TotalValue = price.Mul(mov.Quantity).Round(2)
	if err := movRepo.Update(mov); err != nil {
		return err
	}

	lot.InitialQty = mov.Quantity
	lot.RemainingQty = mov.Quantity.Sub(consumed)
	lot.UnitCost = price
	lot.LoadDate = mov.BusinessDate
	lot.DocumentRef = mov.DocumentRef
	lot.CounterpartyRef = mov.CounterpartyRef
	return lotRepo.Update(lot)
}

// editUnload restaura el consumo original y reasigna la nueva cantidad a la nueva
// fecha. mov ya trae los campos nuevos salvo TotalValue. La cantidad original y su
// plan se leen del estado persistido antes de tocarlo.
func (uc *LedgerUseCase) editUnload(
	movRepo repository.MovementRepository,
	lotRepo repository.LotRepository,
	consRepo repository.ConsumptionRepository,
	mov *entity.Movement,
) (decimal.Decimal, error) {
	original, err := movRepo.GetByID(mov.ID)
	if err != nil {
		return decimal.Zero, err
	}
	if err := restoreUnload(lotRepo, consRepo, original); err != nil {
		return decimal.Zero, err
	}
	if err := consRepo.DeleteByMovement(mov.ID); err != nil {
		return decimal.Zero, err
	}

	lots, err := lotRepo.ListOpenByProduct(mov.ProductID, &mov.BusinessDate)
	if err != nil {
		return decimal.Zero, err
	}
	plan := inventory.Allocate(lots, mov.Quantity)
	if !plan.Satisfied() {
		// El rollback de la tx deshace la restauración: ninguna mutación sobrevive.
		return decimal.Zero, &domain.InsufficientStockError{
			ProductID: mov.ProductID,
			Requested: mov.Quantity,
			Available: mov.Quantity.Sub(plan.Shortfall),
			Shortfall: plan.Shortfall,
		}
	}

	if err := applyPlan(lotRepo, lots, plan); err != nil {
		return decimal.Zero, err
	}
	if err := consRepo.CreateBatch(consumptionsFromPlan(mov.ID, plan)); err != nil {
		return decimal.Zero, err
	}

	mov.UnitPrice = nil
	mov.TotalValue = plan.TotalCost
	if err := movRepo.Update(mov); err != nil {
		return decimal.Zero, err
	}
	return plan.TotalCost, nil
}
