package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// BrandUseCase CRUD del catálogo de marcas.
type BrandUseCase struct {
	brands    repository.BrandRepository
	publisher ledger.EventPublisher
}

// NewBrandUseCase construye el caso de uso.
func NewBrandUseCase(brands repository.BrandRepository, publisher ledger.EventPublisher) *BrandUseCase {
	return &BrandUseCase{brands: brands, publisher: publisher}
}

// List marcas con conteo de productos.
func (uc *BrandUseCase) List(_ context.Context) ([]*entity.BrandWithCount, error) {
	return uc.brands.List()
}

// Create crea una marca; nombre obligatorio y único.
func (uc *BrandUseCase) Create(_ context.Context, name string) (*entity.Brand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	b := &entity.Brand{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	if err := uc.brands.Create(b); err != nil {
		return nil, err
	}
	uc.publishChanged()
	return b, nil
}

// Rename cambia el nombre de una marca.
func (uc *BrandUseCase) Rename(_ context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ErrInvalidInput
	}
	b, err := uc.brands.GetByID(id)
	if err != nil {
		return err
	}
	if b == nil {
		return domain.ErrNotFound
	}
	b.Name = name
	if err := uc.brands.Update(b); err != nil {
		return err
	}
	uc.publishChanged()
	return nil
}

// Delete elimina una marca; rechaza si aún tiene productos asociados.
func (uc *BrandUseCase) Delete(_ context.Context, id string) error {
	b, err := uc.brands.GetByID(id)
	if err != nil {
		return err
	}
	if b == nil {
		return domain.ErrNotFound
	}
	count, err := uc.brands.CountProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &domain.ConflictError{Reason: "la marca tiene productos asociados"}
	}
	if err := uc.brands.Delete(id); err != nil {
		return err
	}
	uc.publishChanged()
	return nil
}

func (uc *BrandUseCase) publishChanged() {
	if uc.publisher != nil {
		uc.publisher.Publish(ledger.Event{Kind: ledger.EventBrandChanged})
	}
}
