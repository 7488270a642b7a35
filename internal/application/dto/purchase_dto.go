package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderItemRequest una línea de la orden a crear.
type CreateOrderItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateOrderRequest body para POST /api/purchase-orders (nace en draft).
type CreateOrderRequest struct {
	Supplier string                   `json:"supplier" validate:"required,min=1,max=200"`
	Notes    string                   `json:"notes,omitempty"`
	Items    []CreateOrderItemRequest `json:"items" validate:"required,min=1"`
}

// ItemReceipt una recepción sobre una línea de la orden.
type ItemReceipt struct {
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// ReceiveOrderRequest body para POST /api/purchase-orders/:id/receive.
// Una recepción de un solo ítem es una lista de un elemento.
type ReceiveOrderRequest struct {
	Items []ItemReceipt `json:"items" validate:"required,min=1"`
}

// OrderItemResponse una línea de la orden.
type OrderItemResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	ReceivedQuantity  decimal.Decimal `json:"received_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
}

// OrderResponse salida de una orden de compra.
type OrderResponse struct {
	ID          string              `json:"id"`
	CompanyID   string              `json:"company_id"`
	OrderNumber string              `json:"order_number"`
	Supplier    string              `json:"supplier"`
	Status      string              `json:"status"`
	Notes       string              `json:"notes,omitempty"`
	Items       []OrderItemResponse `json:"items"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// OrderListResponse lista paginada de órdenes.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
