package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
)

// AuthHandler maneja registro y login.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar empresa y usuario admin
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "company_name, email, password"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return respond(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", "cuerpo inválido")
	}
	if in.Email == "" || in.Password == "" || in.CompanyName == "" {
		return respond(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", "company_name, email y password son requeridos")
	}
	if len(in.Password) < 8 {
		return respond(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", "password debe tener al menos 8 caracteres")
	}
	user, err := h.uc.Register(in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return respond(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", "cuerpo inválido")
	}
	if in.Email == "" || in.Password == "" {
		return respond(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", "email y password son requeridos")
	}
	out, err := h.uc.Login(in)
	if err != nil {
		// No revelar si el email existe: credenciales inválidas para ambos casos.
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrUnauthorized) {
			return respond(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "credenciales inválidas")
		}
		return fail(c, err)
	}
	return c.JSON(out)
}
