package entity

import "time"

// Brand marca/fabricante al que pertenecen los productos.
type Brand struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// BrandWithCount marca con el número de productos asociados (para listados).
type BrandWithCount struct {
	Brand
	ProductCount int
}
