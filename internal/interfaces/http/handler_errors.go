package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
)

// fail traduce errores de dominio a respuestas HTTP con código estable.
// Los handlers delegan aquí todo error que no manejen de forma especial.
func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrSameLocation):
		return respond(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
	case errors.Is(err, domain.ErrProductNotFound):
		return respond(c, fiber.StatusNotFound, "PRODUCT_NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrLocationNotFound):
		return respond(c, fiber.StatusNotFound, "LOCATION_NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		return respond(c, fiber.StatusNotFound, "PO_NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrOrderItemNotFound):
		return respond(c, fiber.StatusNotFound, "PO_ITEM_NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrNotFound):
		return respond(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return respond(c, fiber.StatusForbidden, "PERMISSION_DENIED", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return respond(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", err.Error())
	case errors.Is(err, domain.ErrInsufficientStock):
		return respond(c, fiber.StatusConflict, "INSUFFICIENT_STOCK", err.Error())
	case errors.Is(err, domain.ErrOverReceipt):
		return respond(c, fiber.StatusConflict, "OVER_RECEIPT", err.Error())
	case errors.Is(err, domain.ErrOrderNotReceivable):
		return respond(c, fiber.StatusConflict, "PO_NOT_RECEIVABLE", err.Error())
	case errors.Is(err, domain.ErrLocationHasStock):
		return respond(c, fiber.StatusConflict, "LOCATION_HAS_STOCK", err.Error())
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return respond(c, fiber.StatusConflict, "EMAIL_EXISTS", err.Error())
	case errors.Is(err, domain.ErrDuplicate):
		return respond(c, fiber.StatusConflict, "DUPLICATE", err.Error())
	case errors.Is(err, domain.ErrConflict):
		return respond(c, fiber.StatusConflict, "CONFLICT", err.Error())
	default:
		return respond(c, fiber.StatusInternalServerError, "INTERNAL", err.Error())
	}
}

func respond(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: message})
}

// requireAuth valida que el middleware haya cargado los claims mínimos.
func requireAuth(c *fiber.Ctx) (companyID, userID string, ok bool) {
	companyID = GetCompanyID(c)
	userID = GetUserID(c)
	if companyID == "" || userID == "" {
		return "", "", false
	}
	return companyID, userID, true
}

func unauthenticated(c *fiber.Ctx) error {
	return respond(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "token inválido")
}
