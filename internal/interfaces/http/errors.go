package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ninzkie1/buildAble-sub000/internal/application/dto"
	"github.com/ninzkie1/buildAble-sub000/internal/domain"
)

// respondError traduce los errores de dominio al contrato HTTP. Las señales
// de validación llevan su propio código; cualquier otro error se trata como
// fallo del backend remoto.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrStockExceeded):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "STOCK_EXCEEDED", Message: err.Error()})
	case errors.Is(err, domain.ErrQuantityExceedsStock):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "QUANTITY_EXCEEDS_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrEmptyCheckout):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EMPTY_CHECKOUT", Message: err.Error()})
	case errors.Is(err, domain.ErrIncompleteAddress):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INCOMPLETE_ADDRESS", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	default:
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "UPSTREAM", Message: err.Error()})
	}
}
