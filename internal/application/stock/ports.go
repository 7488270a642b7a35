package stock

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// TxRepos agrupa los repositorios atados a una misma transacción de BD.
// TxRunner los construye sobre la tx y los pasa al callback.
type TxRepos struct {
	StockItems repository.StockItemRepository
	Movements  repository.StockMovementRepository
	Products   repository.ProductRepository
	Locations  repository.LocationRepository
	Orders     repository.PurchaseOrderRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de stock:
// Commit si fn retorna nil, Rollback en caso contrario.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}
