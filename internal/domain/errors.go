package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrProductNotFound    = errors.New("producto no encontrado")
	ErrLocationNotFound   = errors.New("ubicación no encontrada")
	ErrOrderNotFound      = errors.New("orden de compra no encontrada")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrOverReceipt        = errors.New("cantidad recibida mayor a la pendiente")
	ErrOrderNotReceivable = errors.New("la orden no admite recepciones en su estado actual")
	ErrOrderItemNotFound  = errors.New("la orden no contiene ese producto")
	ErrSameLocation       = errors.New("origen y destino son la misma ubicación")
	ErrLocationHasStock   = errors.New("la ubicación tiene stock, transfiera primero")
)
