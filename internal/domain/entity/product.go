package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo.
// El stock por ubicación vive en StockItem, nunca aquí.
type Product struct {
	ID          string
	CompanyID   string
	SKU         string // código único por empresa
	Name        string
	Description string
	Barcode     string
	UnitMeasure string
	Price       decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
