package valuation

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

const businessDateLayout = "2006-01-02"

// ValuationUseCase lecturas de valoración: giacencia y valor FIFO actuales, detalle
// de lotes abiertos y valoración histórica a una fecha. Solo lectura, sin locks.
type ValuationUseCase struct {
	valuations repository.ValuationRepository
	lots       repository.LotRepository
	products   repository.ProductRepository
}

// NewValuationUseCase construye el lector.
func NewValuationUseCase(
	valuations repository.ValuationRepository,
	lots repository.LotRepository,
	products repository.ProductRepository,
) *ValuationUseCase {
	return &ValuationUseCase{valuations: valuations, lots: lots, products: products}
}

// TotalValue valor FIFO total del almacén actual.
func (uc *ValuationUseCase) TotalValue(_ context.Context) (decimal.Decimal, error) {
	return uc.valuations.TotalValue()
}

// CurrentValuation giacencia y valor por producto; productID vacío = todos.
func (uc *ValuationUseCase) CurrentValuation(_ context.Context, productID string) (*dto.ValuationReportDTO, error) {
	summary, err := uc.valuations.ProductSummary()
	if err != nil {
		return nil, err
	}
	report := &dto.ValuationReportDTO{Products: []dto.ProductValuationDTO{}}
	total := decimal.Zero
	for _, s := range summary {
		if productID != "" && s.ProductID != productID {
			continue
		}
		report.Products = append(report.Products, dto.ProductValuationDTO{
			ProductID:   s.ProductID,
			ProductName: s.ProductName,
			Quantity:    s.Quantity.StringFixed(2),
			Value:       s.Value.StringFixed(2),
		})
		total = total.Add(s.Value)
	}
	report.TotalValue = total.Round(2).StringFixed(2)
	return report, nil
}

// ListOpenLots lotes abiertos de un producto en orden FIFO.
func (uc *ValuationUseCase) ListOpenLots(_ context.Context, productID string) ([]dto.LotDTO, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	lots, err := uc.lots.ListOpenByProduct(productID, nil)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LotDTO, 0, len(lots))
	for _, l := range lots {
		out = append(out, lotDTO(l))
	}
	return out, nil
}

// ValuationAsOf reconstruye la foto del almacén a una fecha pasada reproduciendo
// los movimientos de cada producto en orden de registro y simulando el consumo FIFO
// en memoria. No toca RemainingQty persistido: ese campo refleja "ahora", no la
// historia.
func (uc *ValuationUseCase) ValuationAsOf(_ context.Context, date string) (*dto.ValuationReportDTO, error) {
	asOf, err := time.Parse(businessDateLayout, date)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	products, err := uc.products.List()
	if err != nil {
		return nil, err
	}

	report := &dto.ValuationReportDTO{
		Products: []dto.ProductValuationDTO{},
		AsOf:     asOf.Format(businessDateLayout),
	}
	grandTotal := decimal.Zero

	for _, p := range products {
		events, err := uc.valuations.ReplayEvents(p.ID, asOf)
		if err != nil {
			return nil, err
		}
		survivors := replay(events)

		quantity := decimal.Zero
		value := decimal.Zero
		lotDTOs := make([]dto.LotDTO, 0, len(survivors))
		for _, l := range survivors {
			quantity = quantity.Add(l.RemainingQty)
			value = value.Add(l.RemainingQty.Mul(l.UnitCost))
			lotDTOs = append(lotDTOs, lotDTO(l))
		}
		// Misma política que el lector SQL: suma exacta por producto, un solo redondeo.
		value = value.Round(2)
		grandTotal = grandTotal.Add(value)

		report.Products = append(report.Products, dto.ProductValuationDTO{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    quantity.StringFixed(2),
			Value:       value.StringFixed(2),
			Lots:        lotDTOs,
		})
	}

	report.TotalValue = grandTotal.Round(2).StringFixed(2)
	return report, nil
}

// replay simula FIFO sobre la línea de tiempo de un producto: cada carga aporta un
// lote activo; cada descarga consume los lotes activos en orden de llegada. Devuelve
// los lotes que sobreviven con RemainingQty > 0.
func replay(events []*entity.ReplayEvent) []*entity.Lot {
	var active []*entity.Lot
	for _, ev := range events {
		switch ev.Kind {
		case entity.ReplayKindLot:
			active = append(active, &entity.Lot{
				ID:              ev.ID,
				InitialQty:      ev.Quantity,
				RemainingQty:    ev.Quantity,
				UnitCost:        ev.UnitCost,
				LoadDate:        ev.Date,
				RegisteredAt:    ev.RegisteredAt,
				DocumentRef:     ev.DocumentRef,
				CounterpartyRef: ev.CounterpartyRef,
			})
		case entity.ReplayKindUnload:
			toConsume := ev.Quantity
			for _, lot := range active {
				if !toConsume.IsPositive() {
					break
				}
				if !lot.IsOpen() {
					continue
				}
				take := decimal.Min(toConsume, lot.RemainingQty)
				lot.RemainingQty = lot.RemainingQty.Sub(take)
				toConsume = toConsume.Sub(take)
			}
		}
	}

	survivors := make([]*entity.Lot, 0, len(active))
	for _, lot := range active {
		if lot.IsOpen() {
			survivors = append(survivors, lot)
		}
	}
	return survivors
}

func lotDTO(l *entity.Lot) dto.LotDTO {
	return dto.LotDTO{
		ID:              l.ID,
		RemainingQty:    l.RemainingQty.StringFixed(2),
		UnitCost:        l.UnitCost.StringFixed(2),
		LoadDate:        l.LoadDate.Format(businessDateLayout),
		DocumentRef:     l.DocumentRef,
		CounterpartyRef: l.CounterpartyRef,
	}
}
