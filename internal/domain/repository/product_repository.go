package repository

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// ProductRepository catálogo de productos.
type ProductRepository interface {
	Create(p *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	Update(p *entity.Product) error
	Delete(id string) error
	List() ([]*entity.Product, error)
	// ListWithStock productos con su giacencia actual, ordenados por nombre.
	ListWithStock() ([]*entity.ProductStock, error)
}

// BrandRepository catálogo de marcas.
type BrandRepository interface {
	Create(b *entity.Brand) error
	GetByID(id string) (*entity.Brand, error)
	Update(b *entity.Brand) error
	Delete(id string) error
	// List marcas con conteo de productos asociados, ordenadas por nombre.
	List() ([]*entity.BrandWithCount, error)
	CountProducts(brandID string) (int, error)
}
