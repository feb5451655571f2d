package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

const lotColumns = "id, product_id, movement_id, initial_qty, remaining_qty, unit_cost, load_date, registered_at, document_ref, counterparty_ref"

// LotRepo implementación de LotRepository sobre PostgreSQL (usable con pool o tx).
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

// Create persiste un lote nuevo.
func (r *LotRepo) Create(lot *entity.Lot) error {
	query := `
		INSERT INTO lots (` + lotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	movementID := (*string)(nil)
	if lot.MovementID != "" {
		movementID = &lot.MovementID
	}
	_, err := r.q.Exec(context.Background(), query,
		lot.ID, lot.ProductID, movementID, lot.InitialQty, lot.RemainingQty,
		lot.UnitCost, lot.LoadDate, lot.RegisteredAt, lot.DocumentRef, lot.CounterpartyRef,
	)
	if err != nil {
		return fmt.Errorf("create lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID (nil si no existe).
func (r *LotRepo) GetByID(id string) (*entity.Lot, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+lotColumns+` FROM lots WHERE id = $1`, id)
	return scanLotRow(row)
}

// GetByMovementID obtiene el lote originado por un movimiento de carga (nil si no existe).
func (r *LotRepo) GetByMovementID(movementID string) (*entity.Lot, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+lotColumns+` FROM lots WHERE movement_id = $1`, movementID)
	return scanLotRow(row)
}

// ListOpenByProduct lotes abiertos en orden FIFO; asOf limita por fecha de carga.
func (r *LotRepo) ListOpenByProduct(productID string, asOf *time.Time) ([]*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE product_id = $1 AND remaining_qty > 0`
	args := []any{productID}
	if asOf != nil {
		query += ` AND load_date <= $2`
		args = append(args, *asOf)
	}
	query += ` ORDER BY load_date ASC, registered_at ASC, id ASC`
	return r.list(query, args...)
}

// ListByProduct todos los lotes del producto en orden FIFO.
func (r *LotRepo) ListByProduct(productID string) ([]*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE product_id = $1
		ORDER BY load_date ASC, registered_at ASC, id ASC`
	return r.list(query, productID)
}

// SetRemaining fija la cantidad restante de un lote.
func (r *LotRepo) SetRemaining(id string, remaining decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE lots SET remaining_qty = $1 WHERE id = $2`, remaining, id)
	if err != nil {
		return fmt.Errorf("set lot remaining: %w", err)
	}
	return nil
}

// Update actualiza todos los campos mutables de un lote (edición de cargas).
func (r *LotRepo) Update(lot *entity.Lot) error {
	query := `
		UPDATE lots
		SET initial_qty = $1, remaining_qty = $2, unit_cost = $3, load_date = $4,
		    document_ref = $5, counterparty_ref = $6
		WHERE id = $7`
	_, err := r.q.Exec(context.Background(), query,
		lot.InitialQty, lot.RemainingQty, lot.UnitCost, lot.LoadDate,
		lot.DocumentRef, lot.CounterpartyRef, lot.ID,
	)
	if err != nil {
		return fmt.Errorf("update lot: %w", err)
	}
	return nil
}

// Delete elimina un lote.
func (r *LotRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM lots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lot: %w", err)
	}
	return nil
}

// DeleteByProduct elimina todos los lotes de un producto (cascade de eliminación).
func (r *LotRepo) DeleteByProduct(productID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM lots WHERE product_id = $1`, productID)
	if err != nil {
		return fmt.Errorf("delete lots by product: %w", err)
	}
	return nil
}

// SumRemaining giacencia total del producto.
func (r *LotRepo) SumRemaining(productID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(remaining_qty), 0) FROM lots WHERE product_id = $1`, productID,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum remaining: %w", err)
	}
	return sum, nil
}

func (r *LotRepo) list(query string, args ...any) ([]*entity.Lot, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()
	var lots []*entity.Lot
	for rows.Next() {
		var l entity.Lot
		var movementID *string
		if err := rows.Scan(&l.ID, &l.ProductID, &movementID, &l.InitialQty, &l.RemainingQty,
			&l.UnitCost, &l.LoadDate, &l.RegisteredAt, &l.DocumentRef, &l.CounterpartyRef); err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		if movementID != nil {
			l.MovementID = *movementID
		}
		lots = append(lots, &l)
	}
	return lots, rows.Err()
}

func scanLotRow(row pgx.Row) (*entity.Lot, error) {
	var l entity.Lot
	var movementID *string
	err := row.Scan(&l.ID, &l.ProductID, &movementID, &l.InitialQty, &l.RemainingQty,
		&l.UnitCost, &l.LoadDate, &l.RegisteredAt, &l.DocumentRef, &l.CounterpartyRef)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	if movementID != nil {
		l.MovementID = *movementID
	}
	return &l, nil
}
