package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypeIn       = "in"       // entrada
	MovementTypeOut      = "out"      // salida
	MovementTypeTransfer = "transfer" // entre ubicaciones
)

// StockMovement es el registro inmutable de auditoría de un cambio de cantidad.
// Quantity siempre es positiva; la dirección la indica Type. En transferencias
// el movimiento es uno solo y referencia ambas ubicaciones (From/To).
type StockMovement struct {
	ID             string
	CompanyID      string
	ProductID      string
	LocationID     string // ubicación afectada (destino en transfer)
	FromLocationID string // solo transfer
	ToLocationID   string // solo transfer
	Type           string // in, out, transfer
	Quantity       decimal.Decimal
	Reference      string // número de orden, nota de ajuste, etc.
	Notes          string
	CreatedAt      time.Time
	CreatedBy      string // UserID
}
