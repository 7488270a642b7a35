package purchase

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// DeriveStatus recalcula desde cero el estado de una orden a partir de sus
// ítems. Es una función pura y la única implementación compartida por todos
// los caminos de escritura: received si todo ítem tiene pendiente cero,
// partially-received si algún ítem recibió algo, en otro caso se conserva el
// estado actual (draft/ordered). Los estados terminales no se recalculan.
func DeriveStatus(current string, items []entity.PurchaseOrderItem) string {
	switch current {
	case entity.OrderStatusCancelled, entity.OrderStatusArchived:
		return current
	}
	if len(items) == 0 {
		return current
	}
	allReceived := true
	someReceived := false
	for _, it := range items {
		if it.RemainingQuantity.GreaterThan(decimal.Zero) {
			allReceived = false
		}
		if it.ReceivedQuantity.GreaterThan(decimal.Zero) {
			someReceived = true
		}
	}
	if allReceived {
		return entity.OrderStatusReceived
	}
	if someReceived {
		return entity.OrderStatusPartiallyReceived
	}
	return current
}

// Remaining calcula la cantidad pendiente de una línea: max(0, pedida - recibida).
func Remaining(quantity, received decimal.Decimal) decimal.Decimal {
	rem := quantity.Sub(received)
	if rem.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return rem
}

// CanReceive indica si la orden admite recepciones en su estado actual.
// received, cancelled y archived son terminales respecto a recibir.
func CanReceive(status string) bool {
	switch status {
	case entity.OrderStatusDraft, entity.OrderStatusOrdered, entity.OrderStatusPartiallyReceived:
		return true
	}
	return false
}

// CanCancel indica si la orden puede cancelarse (cualquier estado no terminal).
func CanCancel(status string) bool {
	switch status {
	case entity.OrderStatusDraft, entity.OrderStatusOrdered, entity.OrderStatusPartiallyReceived:
		return true
	}
	return false
}

// CanArchive indica si la orden puede archivarse. Una orden ya recibida
// también se archiva para sacarla de los listados activos.
func CanArchive(status string) bool {
	switch status {
	case entity.OrderStatusDraft, entity.OrderStatusOrdered, entity.OrderStatusPartiallyReceived, entity.OrderStatusReceived:
		return true
	}
	return false
}
