package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testCompanyID = "00000000-0000-0000-0000-0000000000c1"
	otherCompany  = "00000000-0000-0000-0000-0000000000c2"
	testUserID    = "00000000-0000-0000-0000-0000000000u1"
)

type fixture struct {
	store *memory.Store
	uc    *stock.UseCase
}

func newFixture() *fixture {
	store := memory.NewStore()
	uc := stock.NewUseCase(store, store.Products(), store.Locations(), store.StockItems(), store.Movements())
	return &fixture{store: store, uc: uc}
}

func (f *fixture) addProduct(t *testing.T, companyID, sku string) *entity.Product {
	t.Helper()
	now := time.Now()
	p := &entity.Product{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		SKU:       sku,
		Name:      "Producto " + sku,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.store.Products().Create(p))
	return p
}

func (f *fixture) addLocation(t *testing.T, companyID, code, locType, parentID string) *entity.Location {
	t.Helper()
	now := time.Now()
	l := &entity.Location{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		ParentID:  parentID,
		Code:      code,
		Name:      code,
		Type:      locType,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.store.Locations().Create(l))
	return l
}

// quantityAt lee la cantidad actual de (producto, ubicación).
func (f *fixture) quantityAt(t *testing.T, productID, locationID string) decimal.Decimal {
	t.Helper()
	item, err := f.store.StockItems().Get(productID, locationID)
	require.NoError(t, err)
	return item.Quantity
}

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes (in / out)
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjust_EntradaSobreFilaInexistente_CreaDesdeZero(t *testing.T) {
	f := newFixture()
	p := f.addProduct(t, testCompanyID, "SKU-1")
	loc := f.addLocation(t, testCompanyID, "WH1", entity.LocationTypeWarehouse, "")

	err := f.uc.Adjust(context.Background(), testCompanyID, testUserID, dto.AdjustStockRequest{
		ProductID:  p.ID,
		LocationID: loc.ID,
		Type:       entity.MovementTypeIn,
		Quantity:   qty(10),
	})
	require.NoError(t, err)

	assert.True(t, f.quantityAt(t, p.ID, loc.ID).Equal(qty(10)),
		"una entrada sobre fila inexistente debe partir de cantidad cero")
}

func TestAdjust_PorSKU_ResuelveElProducto(t *testing.T) {
	f := newFixture()
	p := f.addProduct(t, testCompanyID, "SKU-ABC")
	loc := f.addLocation(t, testCompanyID, "WH1", entity.LocationTypeWarehouse, "")

	err := f.uc.Adjust(context.Background(), testCompanyID, testUserID, dto.AdjustStockRequest{
		SKU:        "SKU-ABC",
		LocationID: loc.ID,
		Type:       entity.MovementTypeIn,
		Quantity:   qty(3),
	})
	require.NoError(t, err)
	assert.True(t, f.quantityAt(t, p.ID, loc.ID).Equal(qty(3)))
}

func TestAdjust_SalidaInsuficiente_RechazaYNoCambiaNada(t *testing.T) {
	f := newFixture()
	p := f.addProduct(t, testCompanyID, "SKU-1")
	loc := f.addLocation(t, testCompanyID, "WH1", entity.LocationTypeWarehouse, "")
	ctx := context.Background()

	require.NoError(t, f.uc.Adjust(ctx, testCompanyID, testUserID, dto.AdjustStockRequest{
		ProductID: p.ID, LocationID: loc.ID, Type: entity.MovementTypeIn, Quantity: qty(10),
	}))

	err := f.uc.Adjust(ctx, testCompanyID, testUserID, dto.AdjustStockRequest{
		ProductID: p.ID, LocationID: loc.ID, Type: entity.MovementTypeOut, Quantity: qty(15),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, f.quantityAt(t, p.ID, loc.ID).Equal(qty(10)),
		"una salida rechazada no debe alterar la cantidad")

	movs, err := f.store.Movements().ListByProduct(p.ID, nil, nil, 0, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 1, "una salida rechazada no debe dejar movimiento de auditoría")
}

func TestAdjust_SalidaExacta_DejaCero(t *testing.T) {
	f := newFixture()
	p := f.addProduct(t, testCompanyID, "SKU-1")
	loc := f.addLocation(t, testCompanyID, "WH1", entity.LocationTypeWarehouse, "")
	ctx := context.Background()

	require.NoError(t, f.uc.Adjust(ctx, testCompanyID, testUserID, dto.AdjustStockRequest{
		ProductID: p.ID, LocationID: loc.ID, Type: entity.MovementTypeIn, Quantity: qty(5),
	}))
	require.NoError(t, f.uc.Adjust(ctx, testCompanyID, testUserID, dto.AdjustStockRequest{
		ProductID: p.ID, LocationID: loc.ID, Type: entity.MovementTypeOut, Quantity: qty(5),
	}))

	assert.True(t, f.quantityAt(t, p.ID, loc.ID).IsZero(),
		"sacar exactamente lo disponible debe dejar la fila en cero, no borrarla")
}

func TestAdjust_SecuenciaDeAjustes_SumaDeltas(t *testing.T) {
	f := newFixture()
	p := f.addProduct(t, testCompanyID, "SKU-1")
	loc := f.addLocation(t, testCompanyID, "WH1", entity.LocationTypeWarehouse, "")
	ctx := context.Background()

	steps := []struct {
		typ string
		n   int64
	}{
		{entity.MovementTypeIn, 10},
		{entity.MovementTypeOut, 4},
		{entity.MovementTypeIn, 7},
		{entity.MovementTypeOut, 1},
	}
	for _, s := range steps {
		require.NoError(t, f.uc.Adjust(ctx, testCompanyID, testUserID, dto.AdjustStockRequest{
			ProductID: p.ID, LocationID: loc.ID, Type: s.typ, Quantity: qty(s.n),
		}))
	}

	assert.True(t, f.quantityAt(t, p.ID, loc.ID).Equal(qty(12)),
		"la cantidad final debe ser la suma con signo de los ajustes aceptados")

	movs, err := f.store.Movements().ListByProduct(p.ID, nil, nil, 0, 0)
	require.NoError(t, err)
	assert.Len(t, movs, len(steps), "cada ajuste aceptado deja exactamente un movimiento")
}

func TestAdjust_EntradasInvalidas(t *testing.T) {
	f := newFixture()
	p := f.addProduct(t, testCompanyID, "SKU-1")
	loc := f.addLocation(t, testCompanyID, "WH1", entity.LocationTypeWarehouse, "")
	ctx := context.Background()

	cases := []struct {
		name string
		in   dto.AdjustStockRequest
		want error
	}{
		{"cantidad cero", dto.AdjustStockRequest{ProductID: p.ID, LocationID: loc.ID, Type: "in", Quantity: qty(0)}, domain.ErrInvalidInput},
		{"cantidad negativa", dto.AdjustStockRequest{ProductID: p.ID, LocationID: loc.ID, Type: "in", Quantity: qty(-5)}, domain.ErrInvalidInput},
		{"cantidad no entera", dto.AdjustStockRequest{ProductID: p.ID, LocationID: loc.ID, Type: "in", Quantity: decimal.NewFromFloat(2.5)}, domain.ErrInvalidInput},
		{"tipo desconocido", dto.AdjustStockRequest{ProductID: p.ID, LocationID: loc.ID, Type: "transfer", Quantity: qty(1)}, domain.ErrInvalidInput},
		{"sin producto ni sku", dto.AdjustStockRequest{LocationID: loc.ID, Type: "in", Quantity: qty(1)}, domain.ErrInvalidInput},
		{"producto inexistente", dto.AdjustStockRequest{ProductID: uuid.New().String(), LocationID: loc.ID, Type: "in", Quantity: qty(1)}, domain.ErrProductNotFound},
		{"ubicación inexistente", dto.AdjustStockRequest{ProductID: p.ID, LocationID: uuid.New().String(), Type: "in", Quantity: qty(1)}, domain.ErrLocationNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := f.uc.Adjust(ctx, testCompanyID, testUserID, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAdjust_ProductoDeOtraEmpresa_Forbidden(t *testing.T) {
	f := newFixture()
	ajeno := f.addProduct(t, otherCompany, "SKU-AJENO")
	loc := f.addLocation(t, testCompanyID, "WH1", entity.LocationTypeWarehouse, "")

	err := f.uc.Adjust(context.Background(), testCompanyID, testUserID, dto.AdjustStockRequest{
		ProductID: ajeno.ID, LocationID: loc.ID, Type: entity.MovementTypeIn, Quantity: qty(1),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transferencias
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_ConservaLaCantidadTotal(t *testing.T) {
	f := newFixture()
	p := f.addProduct(t, testCompanyID, "SKU-1")
	wh := f.addLocation(t, testCompanyID, "WH1", entity.LocationTypeWarehouse, "")
	shelf := f.addLocation(t, testCompanyID, "WH2", entity.LocationTypeWarehouse, "")
	ctx := context.Background()

	require.NoError(t, f.uc.Adjust(ctx, testCompanyID, testUserID, dto.AdjustStockRequest{
		ProductID: p.ID, LocationID: wh.ID, Type: entity.MovementTypeIn, Quantity: qty(10),
	}))

	require.NoError(t, f.uc.Transfer(ctx, testCompanyID, testUserID, dto.TransferStockRequest{
		ProductID: p.ID, FromLocationID: wh.ID, ToLocationID: shelf.ID, Quantity: qty(4),
	}))

	assert.True(t, f.quantityAt(t, p.ID, wh.ID).Equal(qty(6)))
	assert.True(t, f.quantityAt(t, p.ID, shelf.ID).Equal(qty(4)))

	total := f.quantityAt(t, p.ID, wh.ID).Add(f.quantityAt(t, p.ID, shelf.ID))
	assert.True(t, total.Equal(qty(10)), "una transferencia conserva la cantidad total")
}

func TestTransfer_RegistraUnSoloMovimientoConAmbasUbicaciones(t *testing.T) {
	f := newFixture()
	p := f.addProduct(t, testCompanyID, "SKU-1")
	wh := f.addLocation(t, testCompanyID, "WH1", entity.LocationTypeWarehouse, "")
	shelf := f.addLocation(t, testCompanyID, "WH2", entity.LocationTypeWarehouse, "")
	ctx := context.Background()

	require.NoError(t, f.uc.Adjust(ctx, testCompanyID, testUserID, dto.AdjustStockRequest{
		ProductID: p.ID, LocationID: wh.ID, Type: entity.MovementTypeIn, Quantity: qty(10),
	}))
	require.NoError(t, f.uc.Transfer(ctx, testCompanyID, testUserID, dto.TransferStockRequest{
		ProductID: p.ID, FromLocationID: wh.ID, ToLocationID: shelf.ID, Quantity: qty(4),
	}))

	movs, err := f.store.Movements().ListByProduct(p.ID, nil, nil, 0, 0)
	require.NoError(t, err)
	require.Len(t, movs, 2, "una entrada + una transferencia")

	transfer := movs[1]
	assert.Equal(t, entity.MovementTypeTransfer, transfer.Type)
	assert.Equal(t, wh.ID, transfer.FromLocationID)
	assert.Equal(t, shelf.ID, transfer.ToLocationID)
	assert.True(t, transfer.Quantity.Equal(qty(4)))
}

func TestTransfer_OrigenInsuficiente_NoTocaNinguna(t *testing.T) {
	f := newFixture()
	p := f.addProduct(t, testCompanyID, "SKU-1")
	wh := f.addLocation(t, testCompanyID, "WH1", entity.LocationTypeWarehouse, "")
	shelf := f.addLocation(t, testCompanyID, "WH2", entity.LocationTypeWarehouse, "")
	ctx := context.Background()

	require.NoError(t, f.uc.Adjust(ctx, testCompanyID, testUserID, dto.AdjustStockRequest{
		ProductID: p.ID, LocationID: wh.ID, Type: entity.MovementTypeIn, Quantity: qty(3),
	}))

	err := f.uc.Transfer(ctx, testCompanyID, testUserID, dto.TransferStockRequest{
		ProductID: p.ID, FromLocationID: wh.ID, ToLocationID: shelf.ID, Quantity: qty(5),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, f.quantityAt(t, p.ID, wh.ID).Equal(qty(3)), "el origen no cambia")
	assert.True(t, f.quantityAt(t, p.ID, shelf.ID).IsZero(), "el destino no cambia")
}

func TestTransfer_MismaUbicacion_Rechazada(t *testing.T) {
	f := newFixture()
	p := f.addProduct(t, testCompanyID, "SKU-1")
	wh := f.addLocation(t, testCompanyID, "WH1", entity.LocationTypeWarehouse, "")

	err := f.uc.Transfer(context.Background(), testCompanyID, testUserID, dto.TransferStockRequest{
		ProductID: p.ID, FromLocationID: wh.ID, ToLocationID: wh.ID, Quantity: qty(1),
	})
	assert.ErrorIs(t, err, domain.ErrSameLocation)
}

func TestTransfer_UbicacionDeOtraEmpresa_NotFound(t *testing.T) {
	f := newFixture()
	p := f.addProduct(t, testCompanyID, "SKU-1")
	wh := f.addLocation(t, testCompanyID, "WH1", entity.LocationTypeWarehouse, "")
	ajena := f.addLocation(t, otherCompany, "WH-AJENA", entity.LocationTypeWarehouse, "")

	err := f.uc.Transfer(context.Background(), testCompanyID, testUserID, dto.TransferStockRequest{
		ProductID: p.ID, FromLocationID: wh.ID, ToLocationID: ajena.ID, Quantity: qty(1),
	})
	assert.ErrorIs(t, err, domain.ErrLocationNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestListByProduct_MuestraStockPorUbicacion(t *testing.T) {
	f := newFixture()
	p := f.addProduct(t, testCompanyID, "SKU-1")
	wh := f.addLocation(t, testCompanyID, "WH1", entity.LocationTypeWarehouse, "")
	shelf := f.addLocation(t, testCompanyID, "WH2", entity.LocationTypeWarehouse, "")
	ctx := context.Background()

	require.NoError(t, f.uc.Adjust(ctx, testCompanyID, testUserID, dto.AdjustStockRequest{
		ProductID: p.ID, LocationID: wh.ID, Type: entity.MovementTypeIn, Quantity: qty(7),
	}))
	require.NoError(t, f.uc.Adjust(ctx, testCompanyID, testUserID, dto.AdjustStockRequest{
		ProductID: p.ID, LocationID: shelf.ID, Type: entity.MovementTypeIn, Quantity: qty(2),
	}))

	out, err := f.uc.ListByProduct(testCompanyID, p.ID, 50, 0)
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
}

func TestMovements_FiltraPorRangoDeFechas(t *testing.T) {
	f := newFixture()
	p := f.addProduct(t, testCompanyID, "SKU-1")
	wh := f.addLocation(t, testCompanyID, "WH1", entity.LocationTypeWarehouse, "")
	ctx := context.Background()

	require.NoError(t, f.uc.Adjust(ctx, testCompanyID, testUserID, dto.AdjustStockRequest{
		ProductID: p.ID, LocationID: wh.ID, Type: entity.MovementTypeIn, Quantity: qty(1),
	}))

	future := time.Now().Add(time.Hour)
	out, err := f.uc.Movements(testCompanyID, p.ID, &future, nil, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, out.Items, "un rango que empieza en el futuro no debe traer movimientos")

	past := time.Now().Add(-time.Hour)
	out, err = f.uc.Movements(testCompanyID, p.ID, &past, nil, 50, 0)
	require.NoError(t, err)
	assert.Len(t, out.Items, 1)
}
