package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// businessDateLayout formato de la fecha de negocio declarada por el usuario.
const businessDateLayout = "2006-01-02"

// LedgerUseCase orquesta el libro de lotes FIFO: registrar cargas y descargas,
// anular movimientos restaurando lotes, y editar movimientos (revertir + reaplicar).
// Cada operación corre en una única transacción vía TxRunner; además mu serializa
// todas las escrituras para que el chequeo de faltante no sea invalidado por una
// escritura concurrente (check-then-act).
type LedgerUseCase struct {
	mu        sync.Mutex
	txRunner  TxRunner
	products  repository.ProductRepository
	movements repository.MovementRepository // lecturas fuera de tx (listados)
	publisher EventPublisher
}

// NewLedgerUseCase construye el motor. publisher puede ser nil (sin notificaciones).
func NewLedgerUseCase(
	txRunner TxRunner,
	products repository.ProductRepository,
	movements repository.MovementRepository,
	publisher EventPublisher,
) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, products: products, movements: movements, publisher: publisher}
}

// LoadInput entrada para registrar una carga.
type LoadInput struct {
	ProductID       string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	BusinessDate    string // YYYY-MM-DD
	DocumentRef     string // obligatorio: clave de detección de duplicados
	CounterpartyRef string
}

// UnloadInput entrada para registrar una descarga.
type UnloadInput struct {
	ProductID       string
	Quantity        decimal.Decimal
	BusinessDate    string // YYYY-MM-DD
	DocumentRef     string
	CounterpartyRef string
}

// LoadResult ids creados por una carga.
type LoadResult struct {
	MovementID string
	LotID      string
}

// UnloadResult id y costo FIFO de una descarga.
type UnloadResult struct {
	MovementID string
	TotalCost  decimal.Decimal
}

// parseBusinessDate valida y parsea la fecha de negocio. Fecha malformada es un
// error de validación, nunca llega a persistencia.
func parseBusinessDate(s string) (time.Time, error) {
	d, err := time.Parse(businessDateLayout, s)
	if err != nil {
		return time.Time{}, domain.ErrInvalidInput
	}
	return d, nil
}

// publish emite el evento post-commit (best-effort, nil-safe).
func (uc *LedgerUseCase) publish(kind, productID string) {
	if uc.publisher != nil {
		uc.publisher.Publish(Event{Kind: kind, ProductID: productID})
	}
}

// RecordLoad registra una carga: inserta el movimiento y crea exactamente un lote
// nuevo (InitialQty = RemainingQty = cantidad) en la misma transacción. Rechaza con
// ErrDuplicate otra carga idéntica (producto, cantidad, fecha, documento): el guard
// existe para no importar dos veces el mismo documento fuente.
func (uc *LedgerUseCase) RecordLoad(ctx context.Context, in LoadInput) (*LoadResult, error) {
	if in.ProductID == "" || in.DocumentRef == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Quantity.IsPositive() || !in.UnitPrice.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	businessDate, err := parseBusinessDate(in.BusinessDate)
	if err != nil {
		return nil, err
	}
	product, err := uc.products.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	now := time.Now()
	quantity := in.Quantity.Round(2)
	unitPrice := in.UnitPrice.Round(2)
	result := &LoadResult{
		MovementID: uuid.New().String(),
		LotID:      uuid.New().String(),
	}

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		lotRepo repository.LotRepository,
		_ repository.ConsumptionRepository,
		_ repository.ProductRepository,
	) error {
		dup, err := movRepo.ExistsDuplicateLoad(in.ProductID, quantity, businessDate, in.DocumentRef)
		if err != nil {
			return err
		}
		if dup {
			return domain.ErrDuplicate
		}

		mov := &entity.Movement{
			ID:              result.MovementID,
			ProductID:       in.ProductID,
			Kind:            entity.MovementKindLoad,
			Quantity:        quantity,
			UnitPrice:       &unitPrice,
			TotalValue:      unitPrice.Mul(quantity).Round(2),
			BusinessDate:    businessDate,
			RegisteredAt:    now,
			DocumentRef:     &in.DocumentRef,
			CounterpartyRef: optionalRef(in.CounterpartyRef),
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}

		lot := &entity.Lot{
			ID:              result.LotID,
			ProductID:       in.ProductID,
			MovementID:      mov.ID,
			InitialQty:      quantity,
			RemainingQty:    quantity,
			UnitCost:        unitPrice,
			LoadDate:        businessDate,
			RegisteredAt:    now,
			DocumentRef:     &in.DocumentRef,
			CounterpartyRef: optionalRef(in.CounterpartyRef),
		}
		return lotRepo.Create(lot)
	})
	if err != nil {
		return nil, err
	}

	uc.publish(EventMovementRecorded, in.ProductID)
	return result, nil
}

// RecordUnload registra una descarga: asigna FIFO sobre los lotes abiertos con fecha
// de carga <= fecha de negocio de la descarga (el stock cargado después no puede
// satisfacerla: garantía de corrección histórica, no solo chequeo de inventario vivo),
// inserta el movimiento con el costo FIFO, decrementa cada lote del plan y persiste
// el plan de consumo para que una futura anulación sea exacta.
func (uc *LedgerUseCase) RecordUnload(ctx context.Context, in UnloadInput) (*UnloadResult, error) {
	if in.ProductID == "" || !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	businessDate, err := parseBusinessDate(in.BusinessDate)
	if err != nil {
		return nil, err
	}
	product, err := uc.products.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	now := time.Now()
	quantity := in.Quantity.Round(2)
	result := &UnloadResult{MovementID: uuid.New().String()}

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		lotRepo repository.LotRepository,
		consRepo repository.ConsumptionRepository,
		_ repository.ProductRepository,
	) error {
		lots, err := lotRepo.ListOpenByProduct(in.ProductID, &businessDate)
		if err != nil {
			return err
		}
		plan := inventory.Allocate(lots, quantity)
		if !plan.Satisfied() {
			return &domain.InsufficientStockError{
				ProductID: in.ProductID,
				Requested: quantity,
				Available: quantity.Sub(plan.Shortfall),
				Shortfall: plan.Shortfall,
			}
		}

		mov := &entity.Movement{
			ID:              result.MovementID,
			ProductID:       in.ProductID,
			Kind:            entity.MovementKindUnload,
			Quantity:        quantity,
			TotalValue:      plan.TotalCost,
			BusinessDate:    businessDate,
			RegisteredAt:    now,
			DocumentRef:     optionalRef(in.DocumentRef),
			CounterpartyRef: optionalRef(in.CounterpartyRef),
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		if err := applyPlan(lotRepo, lots, plan); err != nil {
			return err
		}
		if err := consRepo.CreateBatch(consumptionsFromPlan(mov.ID, plan)); err != nil {
			return err
		}
		result.TotalCost = plan.TotalCost
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publish(EventMovementRecorded, in.ProductID)
	return result, nil
}

// applyPlan decrementa RemainingQty de cada lote según el plan. lots es la misma
// lista que recibió el asignador, así que cada LotID del plan está presente.
func applyPlan(lotRepo repository.LotRepository, lots []*entity.Lot, plan inventory.Plan) error {
	byID := make(map[string]*entity.Lot, len(lots))
	for _, l := range lots {
		byID[l.ID] = l
	}
	for _, a := range plan.Allocations {
		lot := byID[a.LotID]
		if err := lotRepo.SetRemaining(lot.ID, lot.RemainingQty.Sub(a.Quantity)); err != nil {
			return err
		}
	}
	return nil
}

// consumptionsFromPlan convierte el plan en filas persistibles de lot_consumptions.
func consumptionsFromPlan(movementID string, plan inventory.Plan) []*entity.LotConsumption {
	items := make([]*entity.LotConsumption, 0, len(plan.Allocations))
	for _, a := range plan.Allocations {
		items = append(items, &entity.LotConsumption{
			MovementID: movementID,
			LotID:      a.LotID,
			Quantity:   a.Quantity,
			UnitCost:   a.UnitCost,
		})
	}
	return items
}

func optionalRef(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
