package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest body para POST /api/stock/adjust.
// El producto se identifica por SKU o por product_id; quantity es la magnitud
// (entera, > 0) y type la dirección (in/out).
type AdjustStockRequest struct {
	SKU        string          `json:"sku,omitempty"`
	ProductID  string          `json:"product_id,omitempty"`
	LocationID string          `json:"location_id"`
	Type       string          `json:"type"` // in, out
	Quantity   decimal.Decimal `json:"quantity"`
	Notes      string          `json:"notes,omitempty"`
}

// TransferStockRequest body para POST /api/stock/transfer.
type TransferStockRequest struct {
	ProductID      string          `json:"product_id"`
	FromLocationID string          `json:"from_location_id"`
	ToLocationID   string          `json:"to_location_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	Notes          string          `json:"notes,omitempty"`
}

// StockItemResponse una fila de stock (producto en ubicación).
type StockItemResponse struct {
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// StockListResponse lista paginada de filas de stock.
type StockListResponse struct {
	Items []StockItemResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// MovementResponse un movimiento del log de auditoría.
type MovementResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	LocationID     string          `json:"location_id"`
	FromLocationID string          `json:"from_location_id,omitempty"`
	ToLocationID   string          `json:"to_location_id,omitempty"`
	Type           string          `json:"type"`
	Quantity       decimal.Decimal `json:"quantity"`
	Reference      string          `json:"reference,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	CreatedBy      string          `json:"created_by,omitempty"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
