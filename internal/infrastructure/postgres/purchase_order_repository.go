package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación de órdenes de compra sobre PostgreSQL
// (usable con pool o tx). Cabecera en purchase_orders, líneas en
// purchase_order_items.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const orderColumns = `id, company_id, order_number, supplier, status, notes, created_at, updated_at, created_by`

// Create persiste cabecera e ítems. Debe llamarse dentro de una transacción
// para que ambas escrituras sean atómicas.
func (r *PurchaseOrderRepo) Create(order *entity.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.CompanyID, order.OrderNumber, order.Supplier, order.Status,
		nullable(order.Notes), order.CreatedAt, order.UpdatedAt, nullable(order.CreatedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	itemQuery := `
		INSERT INTO purchase_order_items (id, order_id, product_id, quantity, received_quantity, remaining_quantity)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for i := range order.Items {
		it := &order.Items[i]
		if _, err := r.q.Exec(context.Background(), itemQuery,
			it.ID, it.OrderID, it.ProductID, it.Quantity, it.ReceivedQuantity, it.RemainingQuantity,
		); err != nil {
			return fmt.Errorf("insert purchase order item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una orden con sus líneas.
func (r *PurchaseOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	return r.getByID(id, false)
}

// GetByIDForUpdate obtiene la orden bloqueando la cabecera (SELECT FOR UPDATE)
// para serializar recepciones concurrentes.
func (r *PurchaseOrderRepo) GetByIDForUpdate(id string) (*entity.PurchaseOrder, error) {
	return r.getByID(id, true)
}

func (r *PurchaseOrderRepo) getByID(id string, forUpdate bool) (*entity.PurchaseOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM purchase_orders WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var o entity.PurchaseOrder
	var notes, createdBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&o.ID, &o.CompanyID, &o.OrderNumber, &o.Supplier, &o.Status,
		&notes, &o.CreatedAt, &o.UpdatedAt, &createdBy,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	o.Notes = deref(notes)
	o.CreatedBy = deref(createdBy)
	items, err := r.listItems(o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *PurchaseOrderRepo) listItems(orderID string) ([]entity.PurchaseOrderItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, received_quantity, remaining_quantity
		FROM purchase_order_items WHERE order_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	var items []entity.PurchaseOrderItem
	for rows.Next() {
		var it entity.PurchaseOrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID,
			&it.Quantity, &it.ReceivedQuantity, &it.RemainingQuantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// UpdateStatus cambia el estado de la cabecera.
func (r *PurchaseOrderRepo) UpdateStatus(id, status string, updatedAt time.Time) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE purchase_orders SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// UpdateItem actualiza las cantidades recibida y pendiente de una línea.
func (r *PurchaseOrderRepo) UpdateItem(item *entity.PurchaseOrderItem) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE purchase_order_items SET received_quantity = $2, remaining_quantity = $3 WHERE id = $1`,
		item.ID, item.ReceivedQuantity, item.RemainingQuantity,
	)
	if err != nil {
		return fmt.Errorf("update order item: %w", err)
	}
	return nil
}

// ListByCompany lista órdenes de la empresa, opcionalmente filtradas por
// estado, con sus líneas.
func (r *PurchaseOrderRepo) ListByCompany(companyID, status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM purchase_orders WHERE company_id = $1`
	args := []any{companyID}
	pos := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		var o entity.PurchaseOrder
		var notes, createdBy *string
		if err := rows.Scan(&o.ID, &o.CompanyID, &o.OrderNumber, &o.Supplier, &o.Status,
			&notes, &o.CreatedAt, &o.UpdatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		o.Notes = deref(notes)
		o.CreatedBy = deref(createdBy)
		list = append(list, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range list {
		items, err := r.listItems(o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
	}
	return list, nil
}
