package entity

import "time"

// Tipos de ubicación dentro del árbol bodega → pasillo → estante.
const (
	LocationTypeWarehouse = "warehouse"
	LocationTypeCorridor  = "corridor"
	LocationTypeShelf     = "shelf"
)

// Location representa un nodo del árbol de ubicaciones de almacén.
// ParentID vacío indica una raíz (bodega).
type Location struct {
	ID        string
	CompanyID string
	ParentID  string
	Code      string
	Name      string
	Type      string // warehouse, corridor, shelf
	CreatedAt time.Time
	UpdatedAt time.Time
}
