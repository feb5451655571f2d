package ledger_test

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria con semántica transaccional (snapshot + restore en error),
// para probar el motor sin PostgreSQL.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	movements    map[string]*entity.Movement
	lots         map[string]*entity.Lot
	consumptions []*entity.LotConsumption
	products     map[string]*entity.Product
}

func newMemStore() *memStore {
	return &memStore{
		movements: make(map[string]*entity.Movement),
		lots:      make(map[string]*entity.Lot),
		products:  make(map[string]*entity.Product),
	}
}

func cloneMovement(m *entity.Movement) *entity.Movement {
	if m == nil {
		return nil
	}
	c := *m
	if m.UnitPrice != nil {
		p := *m.UnitPrice
		c.UnitPrice = &p
	}
	if m.DocumentRef != nil {
		s := *m.DocumentRef
		c.DocumentRef = &s
	}
	if m.CounterpartyRef != nil {
		s := *m.CounterpartyRef
		c.CounterpartyRef = &s
	}
	return &c
}

func cloneLot(l *entity.Lot) *entity.Lot {
	if l == nil {
		return nil
	}
	c := *l
	if l.DocumentRef != nil {
		s := *l.DocumentRef
		c.DocumentRef = &s
	}
	if l.CounterpartyRef != nil {
		s := *l.CounterpartyRef
		c.CounterpartyRef = &s
	}
	return &c
}

func (s *memStore) snapshot() *memStore {
	snap := newMemStore()
	for id, m := range s.movements {
		snap.movements[id] = cloneMovement(m)
	}
	for id, l := range s.lots {
		snap.lots[id] = cloneLot(l)
	}
	for _, c := range s.consumptions {
		cc := *c
		snap.consumptions = append(snap.consumptions, &cc)
	}
	for id, p := range s.products {
		pp := *p
		snap.products[id] = &pp
	}
	return snap
}

func (s *memStore) restore(snap *memStore) {
	s.movements = snap.movements
	s.lots = snap.lots
	s.consumptions = snap.consumptions
	s.products = snap.products
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios fake sobre memStore
// ──────────────────────────────────────────────────────────────────────────────

type fakeMovementRepo struct{ s *memStore }

func (r *fakeMovementRepo) Create(m *entity.Movement) error {
	r.s.movements[m.ID] = cloneMovement(m)
	return nil
}

func (r *fakeMovementRepo) GetByID(id string) (*entity.Movement, error) {
	return cloneMovement(r.s.movements[id]), nil
}

func (r *fakeMovementRepo) Update(m *entity.Movement) error {
	r.s.movements[m.ID] = cloneMovement(m)
	return nil
}

func (r *fakeMovementRepo) Delete(id string) error {
	delete(r.s.movements, id)
	return nil
}

func (r *fakeMovementRepo) DeleteByProduct(productID string) error {
	for id, m := range r.s.movements {
		if m.ProductID == productID {
			delete(r.s.movements, id)
		}
	}
	return nil
}

func (r *fakeMovementRepo) sorted() []*entity.Movement {
	out := make([]*entity.Movement, 0, len(r.s.movements))
	for _, m := range r.s.movements {
		out = append(out, cloneMovement(m))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RegisteredAt.Equal(out[j].RegisteredAt) {
			return out[i].RegisteredAt.After(out[j].RegisteredAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func paginate(items []*entity.Movement, limit, offset int) []*entity.Movement {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit < len(items) {
		items = items[:limit]
	}
	return items
}

func (r *fakeMovementRepo) List(limit, offset int) ([]*entity.Movement, error) {
	return paginate(r.sorted(), limit, offset), nil
}

func (r *fakeMovementRepo) ListUpTo(date time.Time, limit, offset int) ([]*entity.Movement, error) {
	var filtered []*entity.Movement
	for _, m := range r.sorted() {
		if !m.BusinessDate.After(date) {
			filtered = append(filtered, m)
		}
	}
	return paginate(filtered, limit, offset), nil
}

func (r *fakeMovementRepo) ExistsDuplicateLoad(productID string, quantity decimal.Decimal, businessDate time.Time, documentRef string) (bool, error) {
	for _, m := range r.s.movements {
		if m.Kind == entity.MovementKindLoad &&
			m.ProductID == productID &&
			m.Quantity.Equal(quantity) &&
			m.BusinessDate.Equal(businessDate) &&
			m.DocumentRef != nil && *m.DocumentRef == documentRef {
			return true, nil
		}
	}
	return false, nil
}

type fakeLotRepo struct{ s *memStore }

func (r *fakeLotRepo) Create(lot *entity.Lot) error {
	r.s.lots[lot.ID] = cloneLot(lot)
	return nil
}

func (r *fakeLotRepo) GetByID(id string) (*entity.Lot, error) {
	return cloneLot(r.s.lots[id]), nil
}

func (r *fakeLotRepo) GetByMovementID(movementID string) (*entity.Lot, error) {
	for _, l := range r.s.lots {
		if l.MovementID == movementID {
			return cloneLot(l), nil
		}
	}
	return nil, nil
}

// fifoSorted lotes del producto en orden (load_date, registered_at, id).
func (r *fakeLotRepo) fifoSorted(productID string) []*entity.Lot {
	var out []*entity.Lot
	for _, l := range r.s.lots {
		if l.ProductID == productID {
			out = append(out, cloneLot(l))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LoadDate.Equal(out[j].LoadDate) {
			return out[i].LoadDate.Before(out[j].LoadDate)
		}
		if !out[i].RegisteredAt.Equal(out[j].RegisteredAt) {
			return out[i].RegisteredAt.Before(out[j].RegisteredAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *fakeLotRepo) ListOpenByProduct(productID string, asOf *time.Time) ([]*entity.Lot, error) {
	var out []*entity.Lot
	for _, l := range r.fifoSorted(productID) {
		if !l.IsOpen() {
			continue
		}
		if asOf != nil && l.LoadDate.After(*asOf) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (r *fakeLotRepo) ListByProduct(productID string) ([]*entity.Lot, error) {
	return r.fifoSorted(productID), nil
}

func (r *fakeLotRepo) SetRemaining(id string, remaining decimal.Decimal) error {
	r.s.lots[id].RemainingQty = remaining
	return nil
}

func (r *fakeLotRepo) Update(lot *entity.Lot) error {
	r.s.lots[lot.ID] = cloneLot(lot)
	return nil
}

func (r *fakeLotRepo) Delete(id string) error {
	delete(r.s.lots, id)
	return nil
}

func (r *fakeLotRepo) DeleteByProduct(productID string) error {
	for id, l := range r.s.lots {
		if l.ProductID == productID {
			delete(r.s.lots, id)
		}
	}
	return nil
}

func (r *fakeLotRepo) SumRemaining(productID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, l := range r.s.lots {
		if l.ProductID == productID {
			sum = sum.Add(l.RemainingQty)
		}
	}
	return sum, nil
}

type fakeConsumptionRepo struct{ s *memStore }

func (r *fakeConsumptionRepo) CreateBatch(items []*entity.LotConsumption) error {
	for _, it := range items {
		c := *it
		r.s.consumptions = append(r.s.consumptions, &c)
	}
	return nil
}

func (r *fakeConsumptionRepo) ListByMovement(movementID string) ([]*entity.LotConsumption, error) {
	var out []*entity.LotConsumption
	for _, c := range r.s.consumptions {
		if c.MovementID == movementID {
			cc := *c
			out = append(out, &cc)
		}
	}
	return out, nil
}

func (r *fakeConsumptionRepo) DeleteByMovement(movementID string) error {
	var kept []*entity.LotConsumption
	for _, c := range r.s.consumptions {
		if c.MovementID != movementID {
			kept = append(kept, c)
		}
	}
	r.s.consumptions = kept
	return nil
}

func (r *fakeConsumptionRepo) DeleteByProduct(productID string) error {
	var kept []*entity.LotConsumption
	for _, c := range r.s.consumptions {
		if lot, ok := r.s.lots[c.LotID]; !ok || lot.ProductID != productID {
			kept = append(kept, c)
		}
	}
	r.s.consumptions = kept
	return nil
}

type fakeProductRepo struct{ s *memStore }

func (r *fakeProductRepo) Create(p *entity.Product) error {
	pp := *p
	r.s.products[p.ID] = &pp
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	pp := *p
	return &pp, nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	pp := *p
	r.s.products[p.ID] = &pp
	return nil
}

func (r *fakeProductRepo) Delete(id string) error {
	delete(r.s.products, id)
	return nil
}

func (r *fakeProductRepo) List() ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		pp := *p
		out = append(out, &pp)
	}
	return out, nil
}

func (r *fakeProductRepo) ListWithStock() ([]*entity.ProductStock, error) {
	return nil, nil
}

// fakeTxRunner toma un snapshot antes de ejecutar fn y lo restaura si fn falla,
// reproduciendo el todo-o-nada de la transacción real.
type fakeTxRunner struct{ s *memStore }

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	lotRepo repository.LotRepository,
	consRepo repository.ConsumptionRepository,
	productRepo repository.ProductRepository,
) error) error {
	snap := r.s.snapshot()
	err := fn(
		&fakeMovementRepo{s: r.s},
		&fakeLotRepo{s: r.s},
		&fakeConsumptionRepo{s: r.s},
		&fakeProductRepo{s: r.s},
	)
	if err != nil {
		r.s.restore(snap)
	}
	return err
}

// fakePublisher acumula los eventos emitidos tras cada commit.
type fakePublisher struct {
	events []ledger.Event
}

func (p *fakePublisher) Publish(e ledger.Event) {
	p.events = append(p.events, e)
}
