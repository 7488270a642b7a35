package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
)

// LocationHandler maneja el árbol de ubicaciones (protegido).
type LocationHandler struct {
	uc *usecase.LocationUseCase
}

// NewLocationHandler construye el handler de ubicaciones.
func NewLocationHandler(uc *usecase.LocationUseCase) *LocationHandler {
	return &LocationHandler{uc: uc}
}

// Create godoc
// @Summary      Crear ubicación
// @Description  Crea una bodega (sin padre), un pasillo (padre bodega) o un estante (padre pasillo).
// @Tags         locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLocationRequest  true  "code, name, type, parent_id"
// @Success      201   {object}  dto.LocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/locations [post]
func (h *LocationHandler) Create(c *fiber.Ctx) error {
	companyID, _, ok := requireAuth(c)
	if !ok {
		return unauthenticated(c)
	}
	var in dto.CreateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return respond(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", "cuerpo inválido")
	}
	out, err := h.uc.Create(companyID, in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener ubicación
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la ubicación"
// @Success      200  {object}  dto.LocationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/locations/{id} [get]
func (h *LocationHandler) GetByID(c *fiber.Ctx) error {
	companyID, _, ok := requireAuth(c)
	if !ok {
		return unauthenticated(c)
	}
	out, err := h.uc.GetByID(companyID, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Renombrar ubicación
// @Tags         locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la ubicación"
// @Param        body  body  dto.UpdateLocationRequest  true  "code, name"
// @Success      200   {object}  dto.LocationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/locations/{id} [put]
func (h *LocationHandler) Update(c *fiber.Ctx) error {
	companyID, _, ok := requireAuth(c)
	if !ok {
		return unauthenticated(c)
	}
	var in dto.UpdateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return respond(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", "cuerpo inválido")
	}
	out, err := h.uc.Update(companyID, c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar ubicaciones
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo de filas (default 50)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.LocationListResponse
// @Router       /api/locations [get]
func (h *LocationHandler) List(c *fiber.Ctx) error {
	companyID, _, ok := requireAuth(c)
	if !ok {
		return unauthenticated(c)
	}
	limit, offset := pagination(c)
	out, err := h.uc.List(companyID, limit, offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Tree godoc
// @Summary      Árbol completo de ubicaciones
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LocationResponse
// @Router       /api/locations/tree [get]
func (h *LocationHandler) Tree(c *fiber.Ctx) error {
	companyID, _, ok := requireAuth(c)
	if !ok {
		return unauthenticated(c)
	}
	out, err := h.uc.Tree(companyID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar ubicación en cascada
// @Description  Elimina la ubicación y toda su descendencia en una transacción.
//
//	Si cualquier ubicación de la cascada tiene stock > 0 se rechaza
//	completa con LOCATION_HAS_STOCK.
//
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la ubicación"
// @Success      200  {object}  dto.DeleteLocationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/locations/{id} [delete]
func (h *LocationHandler) Delete(c *fiber.Ctx) error {
	companyID, _, ok := requireAuth(c)
	if !ok {
		return unauthenticated(c)
	}
	out, err := h.uc.DeleteCascade(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
