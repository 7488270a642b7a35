package entity

import "time"

// Company representa la organización propietaria del inventario. Todo producto,
// ubicación y orden pertenece a exactamente una Company.
type Company struct {
	ID        string
	Name      string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
