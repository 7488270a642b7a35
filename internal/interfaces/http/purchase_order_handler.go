package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/purchasing"
)

// PurchaseOrderHandler maneja órdenes de compra y su recepción (protegido).
type PurchaseOrderHandler struct {
	uc *purchasing.UseCase
}

// NewPurchaseOrderHandler construye el handler de órdenes de compra.
func NewPurchaseOrderHandler(uc *purchasing.UseCase) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de compra (draft)
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "supplier, items"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	companyID, userID, ok := requireAuth(c)
	if !ok {
		return unauthenticated(c)
	}
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return respond(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", "cuerpo inválido")
	}
	out, err := h.uc.Create(c.Context(), companyID, userID, in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *fiber.Ctx) error {
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

// List godoc
// @Summary      Listar órdenes de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "filtrar por estado"
// @Param        limit   query  int     false  "máximo de filas (default 50)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {object}  dto.OrderListResponse
// @Router       /api/purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *fiber.Ctx) error {
	companyID, _, ok := requireAuth(c)
	if !ok {
		return unauthenticated(c)
	}
	limit, offset := pagination(c)
	out, err := h.uc.List(companyID, c.Query("status"), limit, offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// MarkOrdered godoc
// @Summary      Marcar orden como enviada al proveedor
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/order [post]
func (h *PurchaseOrderHandler) MarkOrdered(c *fiber.Ctx) error {
	companyID, _, ok := requireAuth(c)
	if !ok {
		return unauthenticated(c)
	}
	if err := h.uc.MarkOrdered(c.Context(), companyID, c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "orden enviada al proveedor"})
}

// Receive godoc
// @Summary      Recibir mercancía de una orden
// @Description  Camino único de recepción: actualiza las líneas, incrementa el
//
//	stock de las ubicaciones destino y recalcula el estado de la
//	orden en una sola transacción. Todo o nada.
//
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la orden"
// @Param        body  body  dto.ReceiveOrderRequest  true  "items: product_id, location_id, quantity"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *fiber.Ctx) error {
	companyID, userID, ok := requireAuth(c)
	if !ok {
		return unauthenticated(c)
	}
	var in dto.ReceiveOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return respond(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", "cuerpo inválido")
	}
	out, err := h.uc.Receive(c.Context(), companyID, userID, c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar orden
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/cancel [post]
func (h *PurchaseOrderHandler) Cancel(c *fiber.Ctx) error {
	companyID, _, ok := requireAuth(c)
	if !ok {
		return unauthenticated(c)
	}
	if err := h.uc.Cancel(c.Context(), companyID, c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "orden cancelada"})
}

// Archive godoc
// @Summary      Archivar orden
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/archive [post]
func (h *PurchaseOrderHandler) Archive(c *fiber.Ctx) error {
	companyID, _, ok := requireAuth(c)
	if !ok {
		return unauthenticated(c)
	}
	if err := h.uc.Archive(c.Context(), companyID, c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "orden archivada"})
}
