package http

import (
	"github.com/gofiber/fiber/v2"

	appcart "github.com/ninzkie1/buildAble-sub000/internal/application/cart"
	"github.com/ninzkie1/buildAble-sub000/internal/application/dto"
)

// CartHandler expone el carrito de la sesión. Todas las mutaciones pasan por
// el motor de reconciliación; el handler nunca toca el Store directamente.
type CartHandler struct {
	engine *appcart.Engine
}

// NewCartHandler construye el handler.
func NewCartHandler(engine *appcart.Engine) *CartHandler {
	return &CartHandler{engine: engine}
}

// Get devuelve el snapshot del carrito con derivados y SyncState.
func (h *CartHandler) Get(c *fiber.Ctx) error {
	return c.JSON(dto.NewCartResponse(h.engine.Cart(), h.engine.State().String()))
}

// AddItem agrega una unidad del producto.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "productId es requerido"})
	}
	if err := h.engine.AddItem(c.UserContext(), in.Line()); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewCartResponse(h.engine.Cart(), h.engine.State().String()))
}

// SetQuantity fija la cantidad de una línea.
func (h *CartHandler) SetQuantity(c *fiber.Ctx) error {
	productID := c.Params("productId")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "productId es requerido"})
	}
	var in dto.SetQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.engine.SetQuantity(c.UserContext(), productID, in.Quantity, in.Stock); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewCartResponse(h.engine.Cart(), h.engine.State().String()))
}

// RemoveItem elimina una línea.
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	productID := c.Params("productId")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "productId es requerido"})
	}
	if err := h.engine.RemoveItem(c.UserContext(), productID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewCartResponse(h.engine.Cart(), h.engine.State().String()))
}

// Clear vacía el carrito completo.
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.engine.Clear(c.UserContext()); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
