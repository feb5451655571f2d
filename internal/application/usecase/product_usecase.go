package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// ProductUseCase CRUD del catálogo de productos. La eliminación es la única
// operación con lógica: se rechaza mientras quede giacencia y, si procede, borra
// lotes, plan de consumo, movimientos y producto en una sola transacción.
type ProductUseCase struct {
	products  repository.ProductRepository
	lots      repository.LotRepository
	txRunner  ledger.TxRunner
	publisher ledger.EventPublisher
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	products repository.ProductRepository,
	lots repository.LotRepository,
	txRunner ledger.TxRunner,
	publisher ledger.EventPublisher,
) *ProductUseCase {
	return &ProductUseCase{products: products, lots: lots, txRunner: txRunner, publisher: publisher}
}

// Create crea un producto; nombre obligatorio y único (ErrDuplicate si ya existe).
func (uc *ProductUseCase) Create(_ context.Context, name, brandID string) (*entity.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	p := &entity.Product{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	if brandID != "" {
		p.BrandID = &brandID
	}
	if err := uc.products.Create(p); err != nil {
		return nil, err
	}
	uc.publishChanged("")
	return p, nil
}

// Rename cambia el nombre (único) de un producto.
func (uc *ProductUseCase) Rename(_ context.Context, id, name, brandID string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ErrInvalidInput
	}
	p, err := uc.products.GetByID(id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	p.Name = name
	if brandID != "" {
		p.BrandID = &brandID
	}
	if err := uc.products.Update(p); err != nil {
		return err
	}
	uc.publishChanged(id)
	return nil
}

// Delete elimina un producto y todo su historial. Rechaza con ConflictError si el
// producto conserva giacencia: primero hay que descargar el stock restante.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		lotRepo repository.LotRepository,
		consRepo repository.ConsumptionRepository,
		productRepo repository.ProductRepository,
	) error {
		p, err := productRepo.GetByID(id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		remaining, err := lotRepo.SumRemaining(id)
		if err != nil {
			return err
		}
		if remaining.IsPositive() {
			return &domain.ConflictError{
				Reason: fmt.Sprintf("el producto conserva %s unidades de giacencia; descargue el stock antes de eliminarlo", remaining),
			}
		}
		if err := consRepo.DeleteByProduct(id); err != nil {
			return err
		}
		if err := lotRepo.DeleteByProduct(id); err != nil {
			return err
		}
		if err := movRepo.DeleteByProduct(id); err != nil {
			return err
		}
		return productRepo.Delete(id)
	})
	if err != nil {
		return err
	}
	uc.publishChanged(id)
	return nil
}

// ListWithStock productos con su giacencia actual.
func (uc *ProductUseCase) ListWithStock(_ context.Context) ([]*entity.ProductStock, error) {
	return uc.products.ListWithStock()
}

func (uc *ProductUseCase) publishChanged(productID string) {
	if uc.publisher != nil {
		uc.publisher.Publish(ledger.Event{Kind: ledger.EventProductChanged, ProductID: productID})
	}
}
