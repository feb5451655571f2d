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

var _ repository.BrandRepository = (*BrandRepo)(nil)

// BrandRepo catálogo de marcas sobre PostgreSQL (pool o tx).
type BrandRepo struct {
	q Querier
}

// NewBrandRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBrandRepository(q Querier) *BrandRepo {
	return &BrandRepo{q: q}
}

// Create persiste una marca; nombre duplicado -> domain.ErrDuplicate.
func (r *BrandRepo) Create(b *entity.Brand) error {
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO brands (id, name, created_at) VALUES ($1, $2, $3)`,
		b.ID, b.Name, b.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create brand: %w", err)
	}
	return nil
}

// GetByID obtiene una marca por ID (nil si no existe).
func (r *BrandRepo) GetByID(id string) (*entity.Brand, error) {
	var b entity.Brand
	err := r.q.QueryRow(context.Background(),
		`SELECT id, name, created_at FROM brands WHERE id = $1`, id,
	).Scan(&b.ID, &b.Name, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get brand: %w", err)
	}
	return &b, nil
}

// Update actualiza el nombre; duplicado -> domain.ErrDuplicate.
func (r *BrandRepo) Update(b *entity.Brand) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE brands SET name = $1 WHERE id = $2`, b.Name, b.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update brand: %w", err)
	}
	return nil
}

// Delete elimina una marca.
func (r *BrandRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete brand: %w", err)
	}
	return nil
}

// List marcas con conteo de productos, ordenadas por nombre.
func (r *BrandRepo) List() ([]*entity.BrandWithCount, error) {
	query := `
		SELECT b.id, b.name, b.created_at, COUNT(p.id) AS product_count
		FROM brands b
		LEFT JOIN products p ON p.brand_id = b.id
		GROUP BY b.id, b.name, b.created_at
		ORDER BY b.name ASC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()
	var list []*entity.BrandWithCount
	for rows.Next() {
		var b entity.BrandWithCount
		if err := rows.Scan(&b.ID, &b.Name, &b.CreatedAt, &b.ProductCount); err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// CountProducts número de productos asociados a la marca.
func (r *BrandRepo) CountProducts(brandID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM products WHERE brand_id = $1`, brandID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count brand products: %w", err)
	}
	return count, nil
}
