package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.ConsumptionRepository = (*ConsumptionRepo)(nil)

// ConsumptionRepo plan de consumo persistido de cada descarga (pool o tx).
type ConsumptionRepo struct {
	q Querier
}

// NewConsumptionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewConsumptionRepository(q Querier) *ConsumptionRepo {
	return &ConsumptionRepo{q: q}
}

// CreateBatch persiste las filas del plan de una descarga.
func (r *ConsumptionRepo) CreateBatch(items []*entity.LotConsumption) error {
	for _, c := range items {
		_, err := r.q.Exec(context.Background(),
			`INSERT INTO lot_consumptions (movement_id, lot_id, quantity, unit_cost) VALUES ($1, $2, $3, $4)`,
			c.MovementID, c.LotID, c.Quantity, c.UnitCost,
		)
		if err != nil {
			return fmt.Errorf("create lot consumption: %w", err)
		}
	}
	return nil
}

// ListByMovement plan de consumo de una descarga (vacío si no fue trackeada).
func (r *ConsumptionRepo) ListByMovement(movementID string) ([]*entity.LotConsumption, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT movement_id, lot_id, quantity, unit_cost FROM lot_consumptions WHERE movement_id = $1`,
		movementID,
	)
	if err != nil {
		return nil, fmt.Errorf("list consumptions: %w", err)
	}
	defer rows.Close()
	var list []*entity.LotConsumption
	for rows.Next() {
		var c entity.LotConsumption
		if err := rows.Scan(&c.MovementID, &c.LotID, &c.Quantity, &c.UnitCost); err != nil {
			return nil, fmt.Errorf("scan consumption: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// DeleteByMovement elimina el plan de una descarga (anulación/edición).
func (r *ConsumptionRepo) DeleteByMovement(movementID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM lot_consumptions WHERE movement_id = $1`, movementID)
	if err != nil {
		return fmt.Errorf("delete consumptions: %w", err)
	}
	return nil
}

// DeleteByProduct elimina los planes de todas las descargas de un producto.
func (r *ConsumptionRepo) DeleteByProduct(productID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM lot_consumptions WHERE lot_id IN (SELECT id FROM lots WHERE product_id = $1)`,
		productID)
	if err != nil {
		return fmt.Errorf("delete consumptions by product: %w", err)
	}
	return nil
}
