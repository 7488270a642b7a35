package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// LocationRepository define el puerto de persistencia para el árbol de
// ubicaciones (bodega → pasillo → estante).
type LocationRepository interface {
	Create(location *entity.Location) error
	GetByID(id string) (*entity.Location, error)
	Update(location *entity.Location) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Location, error)
	// ListTree devuelve todas las ubicaciones de la empresa sin paginar,
	// para reconstruir el árbol por punteros a padre.
	ListTree(companyID string) ([]*entity.Location, error)
	// DeleteMany elimina un lote de ubicaciones en una sola sentencia.
	DeleteMany(ids []string) error
}
