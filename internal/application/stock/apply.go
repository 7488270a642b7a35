package stock

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// Delta un cambio de cantidad con signo sobre una clave (producto, ubicación).
type Delta struct {
	ProductID  string
	LocationID string
	Quantity   decimal.Decimal
}

// Apply es el único camino de escritura sobre stock_items. Por cada delta
// bloquea la fila (SELECT FOR UPDATE, cero si no existe), verifica que el
// resultado no quede negativo y hace upsert; si todos los deltas pasan,
// registra los movimientos de auditoría. Debe invocarse dentro de
// TxRunner.Run: un error deshace cantidades y movimientos por igual.
func Apply(r TxRepos, now time.Time, deltas []Delta, movements []*entity.StockMovement) error {
	for _, d := range deltas {
		item, err := r.StockItems.GetForUpdate(d.ProductID, d.LocationID)
		if err != nil {
			return err
		}
		newQty := item.Quantity.Add(d.Quantity)
		if newQty.LessThan(decimal.Zero) {
			return domain.ErrInsufficientStock
		}
		item.Quantity = newQty
		item.UpdatedAt = now
		if err := r.StockItems.Upsert(item); err != nil {
			return err
		}
	}
	for _, mov := range movements {
		if err := r.Movements.Create(mov); err != nil {
			return err
		}
	}
	return nil
}
