package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ninzkie1/buildAble-sub000/internal/application/dto"
	"github.com/ninzkie1/buildAble-sub000/internal/infrastructure/identity"
)

// SessionHandler maneja login/logout de la sesión del daemon. El token lo
// emite el proveedor de identidad externo; aquí solo se valida y adopta.
type SessionHandler struct {
	session *identity.SessionManager
}

// NewSessionHandler construye el handler.
func NewSessionHandler(session *identity.SessionManager) *SessionHandler {
	return &SessionHandler{session: session}
}

// Login adopta un token de sesión. Dispara la recarga del carrito vía la
// suscripción del motor al cambio de identidad.
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token es requerido"})
	}
	if err := h.session.Login(in.Token); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
	}
	return h.Me(c)
}

// Logout vuelve a sesión invitada (el motor recarga el carrito invitado).
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	h.session.Logout()
	return c.SendStatus(fiber.StatusNoContent)
}

// Me devuelve la identidad visible de la sesión.
func (h *SessionHandler) Me(c *fiber.Ctx) error {
	id := h.session.Current()
	return c.JSON(dto.SessionResponse{
		Authenticated: id.Authenticated,
		UserID:        id.UserID,
		Email:         id.Email,
	})
}
