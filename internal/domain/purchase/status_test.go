package purchase_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/purchase"
)

func item(qty, received int64) entity.PurchaseOrderItem {
	q := decimal.NewFromInt(qty)
	r := decimal.NewFromInt(received)
	return entity.PurchaseOrderItem{
		Quantity:          q,
		ReceivedQuantity:  r,
		RemainingQuantity: purchase.Remaining(q, r),
	}
}

func TestDeriveStatus_SinRecepciones_ConservaEstado(t *testing.T) {
	items := []entity.PurchaseOrderItem{item(5, 0), item(3, 0)}

	assert.Equal(t, entity.OrderStatusDraft, purchase.DeriveStatus(entity.OrderStatusDraft, items))
	assert.Equal(t, entity.OrderStatusOrdered, purchase.DeriveStatus(entity.OrderStatusOrdered, items))
}

func TestDeriveStatus_RecepcionParcial(t *testing.T) {
	items := []entity.PurchaseOrderItem{item(5, 3), item(3, 0)}

	assert.Equal(t, entity.OrderStatusPartiallyReceived,
		purchase.DeriveStatus(entity.OrderStatusOrdered, items))
}

func TestDeriveStatus_TodoRecibido(t *testing.T) {
	items := []entity.PurchaseOrderItem{item(5, 5), item(3, 3)}

	assert.Equal(t, entity.OrderStatusReceived,
		purchase.DeriveStatus(entity.OrderStatusOrdered, items))
}

// Un ítem completo y otro sin tocar sigue siendo recepción parcial.
func TestDeriveStatus_UnItemCompletoOtroSinRecibir(t *testing.T) {
	items := []entity.PurchaseOrderItem{item(5, 5), item(3, 0)}

	assert.Equal(t, entity.OrderStatusPartiallyReceived,
		purchase.DeriveStatus(entity.OrderStatusOrdered, items))
}

// La derivación es idempotente: aplicarla dos veces sobre los mismos ítems
// produce el mismo estado.
func TestDeriveStatus_Idempotente(t *testing.T) {
	items := []entity.PurchaseOrderItem{item(5, 3), item(3, 3)}

	first := purchase.DeriveStatus(entity.OrderStatusOrdered, items)
	second := purchase.DeriveStatus(first, items)

	assert.Equal(t, first, second)
}

func TestDeriveStatus_EstadosTerminalesNoCambian(t *testing.T) {
	items := []entity.PurchaseOrderItem{item(5, 5)}

	assert.Equal(t, entity.OrderStatusCancelled, purchase.DeriveStatus(entity.OrderStatusCancelled, items))
	assert.Equal(t, entity.OrderStatusArchived, purchase.DeriveStatus(entity.OrderStatusArchived, items))
}

func TestRemaining_NuncaNegativo(t *testing.T) {
	rem := purchase.Remaining(decimal.NewFromInt(5), decimal.NewFromInt(7))
	assert.True(t, rem.IsZero(), "el pendiente se trunca en cero")

	rem = purchase.Remaining(decimal.NewFromInt(5), decimal.NewFromInt(2))
	assert.True(t, rem.Equal(decimal.NewFromInt(3)))
}

func TestCanReceive(t *testing.T) {
	assert.True(t, purchase.CanReceive(entity.OrderStatusDraft))
	assert.True(t, purchase.CanReceive(entity.OrderStatusOrdered))
	assert.True(t, purchase.CanReceive(entity.OrderStatusPartiallyReceived))
	assert.False(t, purchase.CanReceive(entity.OrderStatusReceived))
	assert.False(t, purchase.CanReceive(entity.OrderStatusCancelled))
	assert.False(t, purchase.CanReceive(entity.OrderStatusArchived))
}

func TestCanCancelYCanArchive(t *testing.T) {
	assert.True(t, purchase.CanCancel(entity.OrderStatusOrdered))
	assert.False(t, purchase.CanCancel(entity.OrderStatusReceived))
	assert.False(t, purchase.CanCancel(entity.OrderStatusCancelled))

	assert.True(t, purchase.CanArchive(entity.OrderStatusReceived))
	assert.False(t, purchase.CanArchive(entity.OrderStatusArchived))
}
