package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockItem representa el contador de cantidad de un producto en una ubicación.
// Existe exactamente una fila por (producto, ubicación); semántica de upsert.
// Invariante: Quantity nunca es negativa.
type StockItem struct {
	ProductID  string
	LocationID string
	Quantity   decimal.Decimal
	UpdatedAt  time.Time
}
