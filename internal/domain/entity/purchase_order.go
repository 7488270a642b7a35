package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra. El estado derivado de los ítems lo calcula
// purchase.DeriveStatus; cancelled y archived sólo por acción explícita.
const (
	OrderStatusDraft             = "draft"
	OrderStatusOrdered           = "ordered"
	OrderStatusPartiallyReceived = "partially-received"
	OrderStatusReceived          = "received"
	OrderStatusCancelled         = "cancelled"
	OrderStatusArchived          = "archived"
)

// PurchaseOrder es la cabecera de una orden de compra con sus ítems embebidos.
type PurchaseOrder struct {
	ID          string
	CompanyID   string
	OrderNumber string
	Supplier    string
	Status      string
	Notes       string
	Items       []PurchaseOrderItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CreatedBy   string
}

// PurchaseOrderItem es una línea de la orden: cantidad pedida vs. recibida.
// Invariante: RemainingQuantity = max(0, Quantity - ReceivedQuantity).
type PurchaseOrderItem struct {
	ID                string
	OrderID           string
	ProductID         string
	Quantity          decimal.Decimal
	ReceivedQuantity  decimal.Decimal
	RemainingQuantity decimal.Decimal
}
