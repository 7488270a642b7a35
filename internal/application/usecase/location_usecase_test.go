package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
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
)

type fixture struct {
	store *memory.Store
	uc    *usecase.LocationUseCase
}

func newFixture() *fixture {
	store := memory.NewStore()
	uc := usecase.NewLocationUseCase(store, store.Locations(), store.StockItems())
	return &fixture{store: store, uc: uc}
}

// mustCreate crea una ubicación vía el caso de uso y falla el test si no puede.
func (f *fixture) mustCreate(t *testing.T, code, locType, parentID string) *dto.LocationResponse {
	t.Helper()
	out, err := f.uc.Create(testCompanyID, dto.CreateLocationRequest{
		Code:     code,
		Name:     code,
		Type:     locType,
		ParentID: parentID,
	})
	require.NoError(t, err)
	return out
}

// tree arma la jerarquía WH1 → COR1 → SHELF1 y devuelve los tres nodos.
func (f *fixture) tree(t *testing.T) (wh, cor, shelf *dto.LocationResponse) {
	t.Helper()
	wh = f.mustCreate(t, "WH1", entity.LocationTypeWarehouse, "")
	cor = f.mustCreate(t, "COR1", entity.LocationTypeCorridor, wh.ID)
	shelf = f.mustCreate(t, "SHELF1", entity.LocationTypeShelf, cor.ID)
	return wh, cor, shelf
}

func (f *fixture) putStock(t *testing.T, locationID string, n int64) {
	t.Helper()
	require.NoError(t, f.store.StockItems().Upsert(&entity.StockItem{
		ProductID:  uuid.New().String(),
		LocationID: locationID,
		Quantity:   decimal.NewFromInt(n),
		UpdatedAt:  time.Now(),
	}))
}

func (f *fixture) exists(t *testing.T, id string) bool {
	t.Helper()
	loc, err := f.store.Locations().GetByID(id)
	require.NoError(t, err)
	return loc != nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación del árbol
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_JerarquiaValida(t *testing.T) {
	f := newFixture()
	wh, cor, shelf := f.tree(t)

	assert.Equal(t, "", wh.ParentID)
	assert.Equal(t, wh.ID, cor.ParentID)
	assert.Equal(t, cor.ID, shelf.ParentID)
}

func TestCreate_JerarquiasInvalidas(t *testing.T) {
	f := newFixture()
	wh := f.mustCreate(t, "WH1", entity.LocationTypeWarehouse, "")

	cases := []struct {
		name string
		in   dto.CreateLocationRequest
		want error
	}{
		{"bodega con padre", dto.CreateLocationRequest{Code: "WH2", Name: "WH2", Type: entity.LocationTypeWarehouse, ParentID: wh.ID}, domain.ErrInvalidInput},
		{"pasillo sin padre", dto.CreateLocationRequest{Code: "COR1", Name: "COR1", Type: entity.LocationTypeCorridor}, domain.ErrInvalidInput},
		{"estante colgado de bodega", dto.CreateLocationRequest{Code: "S1", Name: "S1", Type: entity.LocationTypeShelf, ParentID: wh.ID}, domain.ErrInvalidInput},
		{"tipo desconocido", dto.CreateLocationRequest{Code: "X1", Name: "X1", Type: "zona"}, domain.ErrInvalidInput},
		{"padre inexistente", dto.CreateLocationRequest{Code: "COR2", Name: "COR2", Type: entity.LocationTypeCorridor, ParentID: uuid.New().String()}, domain.ErrLocationNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.Create(testCompanyID, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreate_PadreDeOtraEmpresa_NotFound(t *testing.T) {
	f := newFixture()
	ajena, err := f.uc.Create(otherCompany, dto.CreateLocationRequest{
		Code: "WH-AJENA", Name: "WH-AJENA", Type: entity.LocationTypeWarehouse,
	})
	require.NoError(t, err)

	_, err = f.uc.Create(testCompanyID, dto.CreateLocationRequest{
		Code: "COR1", Name: "COR1", Type: entity.LocationTypeCorridor, ParentID: ajena.ID,
	})
	assert.ErrorIs(t, err, domain.ErrLocationNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Borrado en cascada
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteCascade_BorraTodaLaDescendencia(t *testing.T) {
	f := newFixture()
	wh, cor, shelf := f.tree(t)

	out, err := f.uc.DeleteCascade(context.Background(), testCompanyID, wh.ID)
	require.NoError(t, err)

	assert.True(t, out.Success)
	assert.Equal(t, 3, out.Deleted, "bodega + pasillo + estante")
	assert.False(t, f.exists(t, wh.ID))
	assert.False(t, f.exists(t, cor.ID))
	assert.False(t, f.exists(t, shelf.ID))
}

func TestDeleteCascade_StockEnUnaHoja_RechazaTodo(t *testing.T) {
	f := newFixture()
	wh, cor, shelf := f.tree(t)
	f.putStock(t, shelf.ID, 7)

	_, err := f.uc.DeleteCascade(context.Background(), testCompanyID, wh.ID)
	require.ErrorIs(t, err, domain.ErrLocationHasStock)

	// Nada se borra: ni siquiera los ancestros vacíos.
	assert.True(t, f.exists(t, wh.ID))
	assert.True(t, f.exists(t, cor.ID))
	assert.True(t, f.exists(t, shelf.ID))
}

func TestDeleteCascade_FilasEnCeroNoBloquean(t *testing.T) {
	f := newFixture()
	wh, _, shelf := f.tree(t)
	f.putStock(t, shelf.ID, 0)

	out, err := f.uc.DeleteCascade(context.Background(), testCompanyID, wh.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Deleted)

	// La fila de stock en cero se limpió junto con la ubicación.
	any, err := f.store.StockItems().AnyPositive([]string{shelf.ID})
	require.NoError(t, err)
	assert.False(t, any)
}

func TestDeleteCascade_SubArbol(t *testing.T) {
	f := newFixture()
	wh, cor, shelf := f.tree(t)

	out, err := f.uc.DeleteCascade(context.Background(), testCompanyID, cor.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Deleted, "pasillo + estante; la bodega sobrevive")
	assert.True(t, f.exists(t, wh.ID))
	assert.False(t, f.exists(t, cor.ID))
	assert.False(t, f.exists(t, shelf.ID))
}

func TestDeleteCascade_Inexistente_NotFound(t *testing.T) {
	f := newFixture()
	f.tree(t)

	_, err := f.uc.DeleteCascade(context.Background(), testCompanyID, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrLocationNotFound)
}

func TestDeleteCascade_DeOtraEmpresa_NotFound(t *testing.T) {
	f := newFixture()
	wh, _, _ := f.tree(t)

	_, err := f.uc.DeleteCascade(context.Background(), otherCompany, wh.ID)
	assert.ErrorIs(t, err, domain.ErrLocationNotFound,
		"el árbol se resuelve por empresa: un ID ajeno no debe ser visible")
	assert.True(t, f.exists(t, wh.ID))
}

// ──────────────────────────────────────────────────────────────────────────────
// Árbol
// ──────────────────────────────────────────────────────────────────────────────

func TestTree_DevuelveTodaLaEmpresa(t *testing.T) {
	f := newFixture()
	f.tree(t)

	out, err := f.uc.Tree(testCompanyID)
	require.NoError(t, err)
	assert.Len(t, out, 3)
}
