package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// StockItemRepository define el puerto para consultar/actualizar el contador
// de stock por (producto, ubicación). Las escrituras se usan siempre dentro
// de una transacción para garantizar consistencia.
type StockItemRepository interface {
	Get(productID, locationID string) (*entity.StockItem, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); si no existe devuelve
	// un StockItem en cero para la clave pedida.
	GetForUpdate(productID, locationID string) (*entity.StockItem, error)
	Upsert(item *entity.StockItem) error
	ListByLocation(locationID string, limit, offset int) ([]*entity.StockItem, error)
	ListByProduct(productID string, limit, offset int) ([]*entity.StockItem, error)
	// AnyPositive indica si alguna de las ubicaciones tiene stock > 0.
	AnyPositive(locationIDs []string) (bool, error)
	// DeleteByLocations elimina las filas (en cero) de las ubicaciones dadas.
	DeleteByLocations(locationIDs []string) error
}
