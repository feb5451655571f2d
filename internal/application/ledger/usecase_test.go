package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const testProductID = "00000000-0000-0000-0000-0000000000aa"

type fixture struct {
	store *memStore
	uc    *ledger.LedgerUseCase
	pub   *fakePublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	store.products[testProductID] = &entity.Product{ID: testProductID, Name: "Aceite de oliva"}
	pub := &fakePublisher{}
	uc := ledger.NewLedgerUseCase(
		&fakeTxRunner{s: store},
		&fakeProductRepo{s: store},
		&fakeMovementRepo{s: store},
		pub,
	)
	return &fixture{store: store, uc: uc, pub: pub}
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func (f *fixture) mustLoad(t *testing.T, qty, price, date, doc string) *ledger.LoadResult {
	t.Helper()
	out, err := f.uc.RecordLoad(context.Background(), ledger.LoadInput{
		ProductID:    testProductID,
		Quantity:     dec(qty),
		UnitPrice:    dec(price),
		BusinessDate: date,
		DocumentRef:  doc,
	})
	require.NoError(t, err, "la carga %s debe registrarse", doc)
	return out
}

func (f *fixture) mustUnload(t *testing.T, qty, date string) *ledger.UnloadResult {
	t.Helper()
	out, err := f.uc.RecordUnload(context.Background(), ledger.UnloadInput{
		ProductID:    testProductID,
		Quantity:     dec(qty),
		BusinessDate: date,
	})
	require.NoError(t, err, "la descarga de %s uds debe registrarse", qty)
	return out
}

// remaining devuelve la cantidad restante del lote indicado.
func (f *fixture) remaining(t *testing.T, lotID string) decimal.Decimal {
	t.Helper()
	lot, ok := f.store.lots[lotID]
	require.True(t, ok, "el lote %s debe existir", lotID)
	return lot.RemainingQty
}

// totalRemaining giacencia total del producto en el store.
func (f *fixture) totalRemaining() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range f.store.lots {
		sum = sum.Add(l.RemainingQty)
	}
	return sum
}

// ──────────────────────────────────────────────────────────────────────────────
// RecordLoad
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordLoad_CreaMovimientoYLote(t *testing.T) {
	f := newFixture(t)

	out := f.mustLoad(t, "10", "2.50", "2025-03-01", "FATT-001")

	mov, ok := f.store.movements[out.MovementID]
	require.True(t, ok, "el movimiento debe persistirse")
	assert.Equal(t, entity.MovementKindLoad, mov.Kind)
	assert.True(t, mov.TotalValue.Equal(dec("25.00")), "total = precio * cantidad")

	lot, ok := f.store.lots[out.LotID]
	require.True(t, ok, "la carga debe crear exactamente un lote")
	assert.Equal(t, out.MovementID, lot.MovementID, "el lote referencia a su carga")
	assert.True(t, lot.RemainingQty.Equal(lot.InitialQty), "el lote nace intacto")
	assert.True(t, lot.UnitCost.Equal(dec("2.50")))

	require.Len(t, f.pub.events, 1, "debe emitirse un evento tras el commit")
	assert.Equal(t, ledger.EventMovementRecorded, f.pub.events[0].Kind)
}

func TestRecordLoad_RechazaDuplicadoExacto(t *testing.T) {
	f := newFixture(t)
	f.mustLoad(t, "10", "2.50", "2025-03-01", "FATT-001")

	_, err := f.uc.RecordLoad(context.Background(), ledger.LoadInput{
		ProductID:    testProductID,
		Quantity:     dec("10"),
		UnitPrice:    dec("2.50"),
		BusinessDate: "2025-03-01",
		DocumentRef:  "FATT-001",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate,
		"misma (producto, cantidad, fecha, documento) es una doble importación")
	assert.Len(t, f.store.movements, 1, "el duplicado no debe persistir nada")

	// Mismo documento pero distinta cantidad: no es duplicado.
	f.mustLoad(t, "7", "2.50", "2025-03-01", "FATT-001")
	assert.Len(t, f.store.movements, 2)
}

func TestRecordLoad_Validaciones(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name string
		in   ledger.LoadInput
		want error
	}{
		{"sin producto", ledger.LoadInput{Quantity: dec("1"), UnitPrice: dec("1"), BusinessDate: "2025-03-01", DocumentRef: "D1"}, domain.ErrInvalidInput},
		{"cantidad cero", ledger.LoadInput{ProductID: testProductID, Quantity: decimal.Zero, UnitPrice: dec("1"), BusinessDate: "2025-03-01", DocumentRef: "D1"}, domain.ErrInvalidInput},
		{"precio negativo", ledger.LoadInput{ProductID: testProductID, Quantity: dec("1"), UnitPrice: dec("-2"), BusinessDate: "2025-03-01", DocumentRef: "D1"}, domain.ErrInvalidInput},
		{"fecha malformada", ledger.LoadInput{ProductID: testProductID, Quantity: dec("1"), UnitPrice: dec("1"), BusinessDate: "01/03/2025", DocumentRef: "D1"}, domain.ErrInvalidInput},
		{"sin documento", ledger.LoadInput{ProductID: testProductID, Quantity: dec("1"), UnitPrice: dec("1"), BusinessDate: "2025-03-01"}, domain.ErrInvalidInput},
		{"producto inexistente", ledger.LoadInput{ProductID: "otro", Quantity: dec("1"), UnitPrice: dec("1"), BusinessDate: "2025-03-01", DocumentRef: "D1"}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.RecordLoad(context.Background(), tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Empty(t, f.store.movements, "ninguna entrada inválida debe persistir")
}

// ──────────────────────────────────────────────────────────────────────────────
// RecordUnload
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordUnload_CostoFIFOYDecremento(t *testing.T) {
	f := newFixture(t)
	l1 := f.mustLoad(t, "10", "2.00", "2025-03-01", "FATT-001")
	l2 := f.mustLoad(t, "10", "3.00", "2025-03-05", "FATT-002")

	out := f.mustUnload(t, "15", "2025-03-10")

	assert.True(t, out.TotalCost.Equal(dec("35.00")),
		"10*2.00 + 5*3.00 = 35.00, fue %s", out.TotalCost)
	assert.True(t, f.remaining(t, l1.LotID).IsZero(), "el lote viejo se agota primero")
	assert.True(t, f.remaining(t, l2.LotID).Equal(dec("5")))

	// El plan de consumo queda persistido para poder anular con exactitud.
	require.Len(t, f.store.consumptions, 2)
	assert.Equal(t, out.MovementID, f.store.consumptions[0].MovementID)
}

// La detección de duplicados solo aplica a cargas: dos descargas idénticas son
// operaciones legítimas (dos ventas iguales el mismo día).
func TestRecordUnload_DuplicadoExactoPermitido(t *testing.T) {
	f := newFixture(t)
	f.mustLoad(t, "10", "2.00", "2025-03-01", "FATT-001")

	first := f.mustUnload(t, "3", "2025-03-05")
	second := f.mustUnload(t, "3", "2025-03-05")

	assert.NotEqual(t, first.MovementID, second.MovementID)
	assert.True(t, f.totalRemaining().Equal(dec("4")), "ambas descargas consumen stock")
}

func TestRecordUnload_CorteTemporal(t *testing.T) {
	f := newFixture(t)
	// Stock cargado DESPUÉS de la fecha de la descarga: no elegible aunque exista hoy.
	f.mustLoad(t, "10", "2.00", "2025-03-10", "FATT-001")

	_, err := f.uc.RecordUnload(context.Background(), ledger.UnloadInput{
		ProductID:    testProductID,
		Quantity:     dec("5"),
		BusinessDate: "2025-03-05",
	})

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr,
		"una descarga anterior a toda carga no puede satisfacerse")
	assert.True(t, stockErr.Shortfall.Equal(dec("5")), "falta la cantidad completa")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestRecordUnload_FaltanteNoDejaRastro(t *testing.T) {
	f := newFixture(t)
	l1 := f.mustLoad(t, "10", "2.00", "2025-03-01", "FATT-001")

	_, err := f.uc.RecordUnload(context.Background(), ledger.UnloadInput{
		ProductID:    testProductID,
		Quantity:     dec("12.50"),
		BusinessDate: "2025-03-10",
	})

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.True(t, stockErr.Shortfall.Equal(dec("2.50")))

	// Todo-o-nada: el rechazo no fue parcial.
	assert.True(t, f.remaining(t, l1.LotID).Equal(dec("10")), "el lote queda intacto")
	assert.Len(t, f.store.movements, 1, "solo la carga original")
	assert.Empty(t, f.store.consumptions)
}

// ──────────────────────────────────────────────────────────────────────────────
// DeleteMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteMovement_CargaIntacta(t *testing.T) {
	f := newFixture(t)
	out := f.mustLoad(t, "10", "2.00", "2025-03-01", "FATT-001")

	require.NoError(t, f.uc.DeleteMovement(context.Background(), out.MovementID))

	assert.Empty(t, f.store.movements, "movimiento eliminado")
	assert.Empty(t, f.store.lots, "lote eliminado: el almacén queda como antes de la carga")
}

func TestDeleteMovement_CargaConsumida_Conflicto(t *testing.T) {
	f := newFixture(t)
	load := f.mustLoad(t, "10", "2.00", "2025-03-01", "FATT-001")
	f.mustUnload(t, "4", "2025-03-05")

	err := f.uc.DeleteMovement(context.Background(), load.MovementID)

	var conflictErr *domain.ConflictError
	require.ErrorAs(t, err, &conflictErr,
		"anular una carga con lote parcialmente consumido debe rechazarse")
	assert.True(t, conflictErr.Consumed.Equal(dec("4")), "reporta lo ya consumido")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Len(t, f.store.movements, 2, "nada se borra")
}

func TestDeleteMovement_DescargaRestauraLotesExacto(t *testing.T) {
	f := newFixture(t)
	l1 := f.mustLoad(t, "10", "2.00", "2025-03-01", "FATT-001")
	l2 := f.mustLoad(t, "10", "3.00", "2025-03-05", "FATT-002")
	unload := f.mustUnload(t, "15", "2025-03-10")

	require.NoError(t, f.uc.DeleteMovement(context.Background(), unload.MovementID))

	// Ida y vuelta: cada lote recupera exactamente lo que dio.
	assert.True(t, f.remaining(t, l1.LotID).Equal(dec("10")))
	assert.True(t, f.remaining(t, l2.LotID).Equal(dec("10")))
	assert.Empty(t, f.store.consumptions, "el plan de consumo se elimina con la descarga")
	_, exists := f.store.movements[unload.MovementID]
	assert.False(t, exists)
}

func TestDeleteMovement_DescargaSinPlan_Heuristica(t *testing.T) {
	f := newFixture(t)
	// Estado importado de un sistema sin tracking de consumo: un lote con espacio
	// consumido de 4 y una descarga de 7 sin plan persistido.
	f.store.lots["lot-legacy"] = &entity.Lot{
		ID:           "lot-legacy",
		ProductID:    testProductID,
		MovementID:   "mov-load-legacy",
		InitialQty:   dec("10"),
		RemainingQty: dec("6"),
		UnitCost:     dec("2.00"),
		LoadDate:     time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	f.store.movements["mov-unload-legacy"] = &entity.Movement{
		ID:           "mov-unload-legacy",
		ProductID:    testProductID,
		Kind:         entity.MovementKindUnload,
		Quantity:     dec("7"),
		TotalValue:   dec("14.00"),
		BusinessDate: time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC),
		RegisteredAt: time.Date(2025, 3, 8, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, f.uc.DeleteMovement(context.Background(), "mov-unload-legacy"))

	// 4 uds caben en el espacio consumido del lote; las 3 restantes van a un lote
	// sintético al costo promedio de la descarga (14.00 / 7 = 2.00).
	assert.True(t, f.remaining(t, "lot-legacy").Equal(dec("10")))
	require.Len(t, f.store.lots, 2, "debe crearse un lote sintético para el remanente")
	for id, l := range f.store.lots {
		if id == "lot-legacy" {
			continue
		}
		assert.True(t, l.RemainingQty.Equal(dec("3")))
		assert.True(t, l.UnitCost.Equal(dec("2.00")), "costo promedio de la descarga anulada")
		assert.Empty(t, l.MovementID, "el lote sintético no referencia ninguna carga")
	}
	// El valor total del almacén se conserva: 10*2.00 + 3*2.00 = 26.00.
	assert.True(t, f.totalRemaining().Equal(dec("13")))
}

func TestDeleteMovement_NoExiste(t *testing.T) {
	f := newFixture(t)
	err := f.uc.DeleteMovement(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// EditMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestEditMovement_CargaActualizaEnSitio(t *testing.T) {
	f := newFixture(t)
	load := f.mustLoad(t, "10", "2.00", "2025-03-01", "FATT-001")
	f.mustUnload(t, "4", "2025-03-05")

	price := dec("2.50")
	_, err := f.uc.EditMovement(context.Background(), ledger.EditInput{
		MovementID:   load.MovementID,
		Quantity:     dec("12"),
		UnitPrice:    &price,
		BusinessDate: "2025-03-02",
		DocumentRef:  "FATT-001-BIS",
	})
	require.NoError(t, err)

	lot := f.store.lots[load.LotID]
	assert.True(t, lot.InitialQty.Equal(dec("12")))
	assert.True(t, lot.RemainingQty.Equal(dec("8")), "remaining = nueva cantidad - consumido")
	assert.True(t, lot.UnitCost.Equal(dec("2.50")))

	mov := f.store.movements[load.MovementID]
	assert.True(t, mov.TotalValue.Equal(dec("30.00")))
	require.NotNil(t, mov.DocumentRef)
	assert.Equal(t, "FATT-001-BIS", *mov.DocumentRef)
}

// Editar una carga sin referencia de documento dejaría la futura re-importación del
// documento original fuera del alcance del detector de duplicados.
func TestEditMovement_CargaSinDocumentoRechazada(t *testing.T) {
	f := newFixture(t)
	load := f.mustLoad(t, "10", "2.00", "2025-03-01", "FATT-001")

	price := dec("2.00")
	_, err := f.uc.EditMovement(context.Background(), ledger.EditInput{
		MovementID:   load.MovementID,
		Quantity:     dec("10"),
		UnitPrice:    &price,
		BusinessDate: "2025-03-01",
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	mov := f.store.movements[load.MovementID]
	require.NotNil(t, mov.DocumentRef, "la edición fallida no debe borrar la referencia")
	assert.Equal(t, "FATT-001", *mov.DocumentRef)

	// El detector de duplicados sigue activo sobre la tupla original.
	_, err = f.uc.RecordLoad(context.Background(), ledger.LoadInput{
		ProductID:    testProductID,
		Quantity:     dec("10"),
		UnitPrice:    dec("2.00"),
		BusinessDate: "2025-03-01",
		DocumentRef:  "FATT-001",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestEditMovement_CargaPorDebajoDeLoConsumido(t *testing.T) {
	f := newFixture(t)
	load := f.mustLoad(t, "10", "2.00", "2025-03-01", "FATT-001")
	f.mustUnload(t, "4", "2025-03-05")

	price := dec("2.00")
	_, err := f.uc.EditMovement(context.Background(), ledger.EditInput{
		MovementID:   load.MovementID,
		Quantity:     dec("3"),
		UnitPrice:    &price,
		BusinessDate: "2025-03-01",
		DocumentRef:  "FATT-001",
	})

	var conflictErr *domain.ConflictError
	require.ErrorAs(t, err, &conflictErr,
		"reducir la carga por debajo de lo consumido rompería el invariante del lote")
	assert.True(t, conflictErr.Consumed.Equal(dec("4")))

	lot := f.store.lots[load.LotID]
	assert.True(t, lot.InitialQty.Equal(dec("10")), "nada cambia tras el rechazo")
}

func TestEditMovement_DescargaReasignaFIFO(t *testing.T) {
	f := newFixture(t)
	l1 := f.mustLoad(t, "10", "2.00", "2025-03-01", "FATT-001")
	l2 := f.mustLoad(t, "10", "3.00", "2025-03-05", "FATT-002")
	unload := f.mustUnload(t, "5", "2025-03-10")

	out, err := f.uc.EditMovement(context.Background(), ledger.EditInput{
		MovementID:   unload.MovementID,
		Quantity:     dec("12"),
		BusinessDate: "2025-03-10",
	})
	require.NoError(t, err)

	// Restaurar 5 y reasignar 12: 10*2.00 + 2*3.00 = 26.00.
	require.NotNil(t, out.TotalCost)
	assert.True(t, out.TotalCost.Equal(dec("26.00")), "costo FIFO reasignado, fue %s", out.TotalCost)
	assert.True(t, f.remaining(t, l1.LotID).IsZero())
	assert.True(t, f.remaining(t, l2.LotID).Equal(dec("8")))

	mov := f.store.movements[unload.MovementID]
	assert.True(t, mov.TotalValue.Equal(dec("26.00")))
	assert.Len(t, f.store.consumptions, 2, "el plan viejo se reemplaza por el nuevo")
}

func TestEditMovement_DescargaFaltanteRevierteTodo(t *testing.T) {
	f := newFixture(t)
	l1 := f.mustLoad(t, "10", "2.00", "2025-03-01", "FATT-001")
	unload := f.mustUnload(t, "5", "2025-03-10")

	_, err := f.uc.EditMovement(context.Background(), ledger.EditInput{
		MovementID:   unload.MovementID,
		Quantity:     dec("25"),
		BusinessDate: "2025-03-10",
	})

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.True(t, stockErr.Shortfall.Equal(dec("15")), "faltante = 25 - 10 disponibles tras restaurar")

	// El rollback deshace también la restauración intermedia.
	assert.True(t, f.remaining(t, l1.LotID).Equal(dec("5")), "el estado pre-edición sobrevive")
	mov := f.store.movements[unload.MovementID]
	assert.True(t, mov.Quantity.Equal(dec("5")), "la descarga conserva su cantidad original")
	assert.Len(t, f.store.consumptions, 1, "el plan original sigue en pie")
}

func TestEditMovement_NoExiste(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.EditMovement(context.Background(), ledger.EditInput{
		MovementID:   "no-existe",
		Quantity:     dec("1"),
		BusinessDate: "2025-03-01",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Listados
// ──────────────────────────────────────────────────────────────────────────────

func TestListMovementsUpTo_FiltraPorFechaDeNegocio(t *testing.T) {
	f := newFixture(t)
	f.mustLoad(t, "10", "2.00", "2025-03-01", "FATT-001")
	f.mustLoad(t, "10", "3.00", "2025-03-20", "FATT-002")

	all, err := f.uc.ListMovements(context.Background(), 50, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	upTo, err := f.uc.ListMovementsUpTo(context.Background(), "2025-03-10", 50, 0)
	require.NoError(t, err)
	require.Len(t, upTo, 1, "solo la carga anterior al corte")
	assert.Equal(t, "2025-03-01", upTo[0].BusinessDate.Format("2006-01-02"))

	_, err = f.uc.ListMovementsUpTo(context.Background(), "10-03-2025", 50, 0)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "fecha malformada se rechaza")
}
