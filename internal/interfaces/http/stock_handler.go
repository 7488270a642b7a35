package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/stock"
)

// StockHandler maneja ajustes, transferencias y consultas de stock (protegido).
type StockHandler struct {
	uc *stock.UseCase
}

// NewStockHandler construye el handler de stock.
func NewStockHandler(uc *stock.UseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Adjust godoc
// @Summary      Ajustar stock (entrada o salida)
// @Description  Aplica un delta atómico sobre (producto, ubicación) y registra
//
//	un movimiento de auditoría. Una salida que dejaría la cantidad
//	negativa se rechaza con INSUFFICIENT_STOCK sin efecto alguno.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "sku o product_id, location_id, type (in/out), quantity"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjust [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	companyID, userID, ok := requireAuth(c)
	if !ok {
		return unauthenticated(c)
	}
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return respond(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", "cuerpo inválido")
	}
	if err := h.uc.Adjust(c.Context(), companyID, userID, in); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "ajuste aplicado"})
}

// Transfer godoc
// @Summary      Transferir stock entre ubicaciones
// @Description  Resta en origen y suma en destino en una sola transacción,
//
//	registrando un único movimiento transfer. La cantidad total
//	del producto se conserva.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferStockRequest  true  "product_id, from_location_id, to_location_id, quantity"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/transfer [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	companyID, userID, ok := requireAuth(c)
	if !ok {
		return unauthenticated(c)
	}
	var in dto.TransferStockRequest
	if err := c.BodyParser(&in); err != nil {
		return respond(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", "cuerpo inválido")
	}
	if err := h.uc.Transfer(c.Context(), companyID, userID, in); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "transferencia aplicada"})
}

// ListByLocation godoc
// @Summary      Stock de una ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la ubicación"
// @Param        limit   query  int     false  "máximo de filas (default 50)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {object}  dto.StockListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/locations/{id} [get]
func (h *StockHandler) ListByLocation(c *fiber.Ctx) error {
	companyID, _, ok := requireAuth(c)
	if !ok {
		return unauthenticated(c)
	}
	limit, offset := pagination(c)
	out, err := h.uc.ListByLocation(companyID, c.Params("id"), limit, offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ListByProduct godoc
// @Summary      Stock de un producto en todas sus ubicaciones
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        limit   query  int     false  "máximo de filas (default 50)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {object}  dto.StockListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/products/{id} [get]
func (h *StockHandler) ListByProduct(c *fiber.Ctx) error {
	companyID, _, ok := requireAuth(c)
	if !ok {
		return unauthenticated(c)
	}
	limit, offset := pagination(c)
	out, err := h.uc.ListByProduct(companyID, c.Params("id"), limit, offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Movements godoc
// @Summary      Historial de movimientos de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        from    query  string  false  "fecha inicial (RFC3339)"
// @Param        to      query  string  false  "fecha final (RFC3339)"
// @Param        limit   query  int     false  "máximo de filas (default 50)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/products/{id}/movements [get]
func (h *StockHandler) Movements(c *fiber.Ctx) error {
	companyID, _, ok := requireAuth(c)
	if !ok {
		return unauthenticated(c)
	}
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return respond(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", "from inválido (RFC3339)")
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return respond(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", "to inválido (RFC3339)")
	}
	limit, offset := pagination(c)
	out, err := h.uc.Movements(companyID, c.Params("id"), from, to, limit, offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
