package repository

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// PurchaseOrderRepository define el puerto de persistencia para órdenes de
// compra (cabecera + ítems).
type PurchaseOrderRepository interface {
	Create(order *entity.PurchaseOrder) error
	GetByID(id string) (*entity.PurchaseOrder, error)
	// GetByIDForUpdate bloquea la cabecera (SELECT FOR UPDATE) para
	// serializar recepciones concurrentes sobre la misma orden.
	GetByIDForUpdate(id string) (*entity.PurchaseOrder, error)
	UpdateStatus(id, status string, updatedAt time.Time) error
	UpdateItem(item *entity.PurchaseOrderItem) error
	ListByCompany(companyID, status string, limit, offset int) ([]*entity.PurchaseOrder, error)
}
