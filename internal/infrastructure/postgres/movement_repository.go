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

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL (pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *MovementRepo) Create(m *entity.Movement) error {
	query := `
		INSERT INTO movements (id, product_id, kind, quantity, unit_price, total_value, business_date, registered_at, document_ref, counterparty_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.ProductID, m.Kind, m.Quantity, m.UnitPrice, m.TotalValue,
		m.BusinessDate, m.RegisteredAt, m.DocumentRef, m.CounterpartyRef,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID (nil si no existe).
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	query := `
		SELECT id, product_id, kind, quantity, unit_price, total_value, business_date, registered_at, document_ref, counterparty_ref
		FROM movements WHERE id = $1`
	var m entity.Movement
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.ProductID, &m.Kind, &m.Quantity, &m.UnitPrice, &m.TotalValue,
		&m.BusinessDate, &m.RegisteredAt, &m.DocumentRef, &m.CounterpartyRef,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return &m, nil
}

// Update actualiza un movimiento en sitio (ediciones).
func (r *MovementRepo) Update(m *entity.Movement) error {
	query := `
		UPDATE movements
		SET quantity = $1, unit_price = $2, total_value = $3, business_date = $4,
		    document_ref = $5, counterparty_ref = $6
		WHERE id = $7`
	_, err := r.q.Exec(context.Background(), query,
		m.Quantity, m.UnitPrice, m.TotalValue, m.BusinessDate,
		m.DocumentRef, m.CounterpartyRef, m.ID,
	)
	if err != nil {
		return fmt.Errorf("update movement: %w", err)
	}
	return nil
}

// Delete elimina un movimiento.
func (r *MovementRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	return nil
}

// DeleteByProduct elimina todos los movimientos de un producto.
func (r *MovementRepo) DeleteByProduct(productID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM movements WHERE product_id = $1`, productID)
	if err != nil {
		return fmt.Errorf("delete movements by product: %w", err)
	}
	return nil
}

// List historial completo con nombre de producto, más reciente primero.
func (r *MovementRepo) List(limit, offset int) ([]*entity.Movement, error) {
	query := `
		SELECT m.id, m.product_id, p.name, m.kind, m.quantity, m.unit_price, m.total_value,
		       m.business_date, m.registered_at, m.document_ref, m.counterparty_ref
		FROM movements m
		JOIN products p ON p.id = m.product_id
		ORDER BY m.registered_at DESC, m.id DESC
		LIMIT $1 OFFSET $2`
	return r.listWithProduct(query, limit, offset)
}

// ListUpTo historial con fecha de negocio <= date.
func (r *MovementRepo) ListUpTo(date time.Time, limit, offset int) ([]*entity.Movement, error) {
	query := `
		SELECT m.id, m.product_id, p.name, m.kind, m.quantity, m.unit_price, m.total_value,
		       m.business_date, m.registered_at, m.document_ref, m.counterparty_ref
		FROM movements m
		JOIN products p ON p.id = m.product_id
		WHERE m.business_date <= $1
		ORDER BY m.business_date DESC, m.registered_at DESC
		LIMIT $2 OFFSET $3`
	return r.listWithProduct(query, date, limit, offset)
}

// ExistsDuplicateLoad detecta otra carga idéntica (producto, cantidad, fecha, documento).
func (r *MovementRepo) ExistsDuplicateLoad(productID string, quantity decimal.Decimal, businessDate time.Time, documentRef string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM movements
			WHERE product_id = $1 AND kind = $2 AND quantity = $3
			  AND business_date = $4 AND document_ref = $5
		)`
	var exists bool
	err := r.q.QueryRow(context.Background(), query,
		productID, entity.MovementKindLoad, quantity, businessDate, documentRef,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check duplicate load: %w", err)
	}
	return exists, nil
}

func (r *MovementRepo) listWithProduct(query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.ProductName, &m.Kind, &m.Quantity,
			&m.UnitPrice, &m.TotalValue, &m.BusinessDate, &m.RegisteredAt,
			&m.DocumentRef, &m.CounterpartyRef); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
