package repository

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia del log de
// movimientos. Sólo inserta y lista: los movimientos nunca se modifican.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByLocation(locationID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
}
