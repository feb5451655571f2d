package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.ValuationRepository = (*ValuationRepo)(nil)

// ValuationRepo consultas de solo lectura para valoración (pool o tx).
type ValuationRepo struct {
	q Querier
}

// NewValuationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewValuationRepository(q Querier) *ValuationRepo {
	return &ValuationRepo{q: q}
}

// TotalValue valor FIFO total del almacén.
func (r *ValuationRepo) TotalValue() (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(remaining_qty * unit_cost), 0) FROM lots WHERE remaining_qty > 0`,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total value: %w", err)
	}
	return total.Round(2), nil
}

// ProductSummary giacencia y valor FIFO por producto, ordenado por nombre.
func (r *ValuationRepo) ProductSummary() ([]*entity.ProductStock, error) {
	query := `
		SELECT p.id, p.name,
		       COALESCE(SUM(l.remaining_qty), 0) AS quantity,
		       COALESCE(SUM(l.remaining_qty * l.unit_cost), 0) AS value
		FROM products p
		LEFT JOIN lots l ON l.product_id = p.id AND l.remaining_qty > 0
		GROUP BY p.id, p.name
		ORDER BY p.name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("product summary: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductStock
	for rows.Next() {
		var s entity.ProductStock
		if err := rows.Scan(&s.ProductID, &s.ProductName, &s.Quantity, &s.Value); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		s.Value = s.Value.Round(2)
		list = append(list, &s)
	}
	return list, rows.Err()
}

// ReplayEvents línea de tiempo de un producto hasta asOf: lotes (con su cantidad
// inicial) y descargas, en orden de registro. Es la consulta sobre la que la capa
// de aplicación reconstruye la giacencia histórica simulando FIFO.
func (r *ValuationRepo) ReplayEvents(productID string, asOf time.Time) ([]*entity.ReplayEvent, error) {
	query := `
		SELECT 'lot' AS kind, id, initial_qty AS quantity, unit_cost,
		       load_date AS event_date, registered_at, document_ref, counterparty_ref
		FROM lots
		WHERE product_id = $1 AND load_date <= $2
		UNION ALL
		SELECT 'unload' AS kind, id, quantity, 0 AS unit_cost,
		       business_date AS event_date, registered_at, document_ref, counterparty_ref
		FROM movements
		WHERE product_id = $1 AND kind = 'unload' AND business_date <= $2
		ORDER BY registered_at ASC, id ASC`
	rows, err := r.q.Query(context.Background(), query, productID, asOf)
	if err != nil {
		return nil, fmt.Errorf("replay events: %w", err)
	}
	defer rows.Close()
	var events []*entity.ReplayEvent
	for rows.Next() {
		var ev entity.ReplayEvent
		if err := rows.Scan(&ev.Kind, &ev.ID, &ev.Quantity, &ev.UnitCost,
			&ev.Date, &ev.RegisteredAt, &ev.DocumentRef, &ev.CounterpartyRef); err != nil {
			return nil, fmt.Errorf("scan replay event: %w", err)
		}
		events = append(events, &ev)
	}
	return events, rows.Err()
}
