package dto

import "time"

// CreateLocationRequest entrada para crear una ubicación. ParentID vacío crea
// una bodega raíz; si se indica, el tipo debe ser hijo válido del padre.
type CreateLocationRequest struct {
	ParentID string `json:"parent_id,omitempty"`
	Code     string `json:"code" validate:"required,min=1,max=50"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Type     string `json:"type" validate:"required,oneof=warehouse corridor shelf"`
}

// UpdateLocationRequest entrada para renombrar una ubicación.
type UpdateLocationRequest struct {
	Code *string `json:"code" validate:"omitempty,min=1,max=50"`
	Name *string `json:"name" validate:"omitempty,min=1,max=200"`
}

// LocationResponse salida de una ubicación.
type LocationResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	ParentID  string    `json:"parent_id,omitempty"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LocationListResponse lista paginada de ubicaciones.
type LocationListResponse struct {
	Items []LocationResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// DeleteLocationResponse resultado del borrado en cascada.
type DeleteLocationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Deleted int    `json:"deleted"`
}
