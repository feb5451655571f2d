package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo catálogo de productos sobre PostgreSQL (pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un producto; nombre duplicado -> domain.ErrDuplicate.
func (r *ProductRepo) Create(p *entity.Product) error {
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO products (id, name, brand_id, created_at) VALUES ($1, $2, $3, $4)`,
		p.ID, p.Name, p.BrandID, p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID (nil si no existe).
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(context.Background(),
		`SELECT id, name, brand_id, created_at FROM products WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.BrandID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// Update actualiza nombre y marca; nombre duplicado -> domain.ErrDuplicate.
func (r *ProductRepo) Update(p *entity.Product) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET name = $1, brand_id = $2 WHERE id = $3`,
		p.Name, p.BrandID, p.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// Delete elimina un producto.
func (r *ProductRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// List todos los productos ordenados por nombre.
func (r *ProductRepo) List() ([]*entity.Product, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, name, brand_id, created_at FROM products ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.BrandID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// ListWithStock productos con su giacencia actual (suma de lotes), por nombre.
func (r *ProductRepo) ListWithStock() ([]*entity.ProductStock, error) {
	query := `
		SELECT p.id, p.name,
		       COALESCE(SUM(l.remaining_qty), 0) AS quantity,
		       COALESCE(SUM(l.remaining_qty * l.unit_cost), 0) AS value
		FROM products p
		LEFT JOIN lots l ON l.product_id = p.id
		GROUP BY p.id, p.name
		ORDER BY p.name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list products with stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductStock
	for rows.Next() {
		var s entity.ProductStock
		if err := rows.Scan(&s.ProductID, &s.ProductName, &s.Quantity, &s.Value); err != nil {
			return nil, fmt.Errorf("scan product stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
