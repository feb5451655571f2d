package dto

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	Name    string `json:"name"`
	BrandID string `json:"brand_id,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id.
type UpdateProductRequest struct {
	Name    string `json:"name"`
	BrandID string `json:"brand_id,omitempty"`
}

// ProductDTO producto con su giacencia actual.
type ProductDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// CreateBrandRequest body para POST /api/brands.
type CreateBrandRequest struct {
	Name string `json:"name"`
}

// BrandDTO marca con conteo de productos.
type BrandDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ProductCount int    `json:"product_count"`
	CreatedAt    string `json:"created_at"`
}
