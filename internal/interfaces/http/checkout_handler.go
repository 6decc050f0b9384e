package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	appcheckout "github.com/ninzkie1/buildAble-sub000/internal/application/checkout"
	"github.com/ninzkie1/buildAble-sub000/internal/application/dto"
	"github.com/ninzkie1/buildAble-sub000/internal/domain"
	domcheckout "github.com/ninzkie1/buildAble-sub000/internal/domain/checkout"
	"github.com/ninzkie1/buildAble-sub000/internal/domain/entity"
)

// CheckoutHandler expone la agrupación por vendedor y el flujo de checkout.
// Los colaboradores de dirección y método de pago se implementan sobre el
// cuerpo de la solicitud: el flujo se suspende con INCOMPLETE_ADDRESS cuando
// no hay dirección guardada ni recolectada.
type CheckoutHandler struct {
	orchestrator *appcheckout.Orchestrator
}

// NewCheckoutHandler construye el handler.
func NewCheckoutHandler(orchestrator *appcheckout.Orchestrator) *CheckoutHandler {
	return &CheckoutHandler{orchestrator: orchestrator}
}

// Groups devuelve los grupos por vendedor con sus cotizaciones y la del
// carrito completo (misma fórmula en ambos casos).
func (h *CheckoutHandler) Groups(c *fiber.Ctx) error {
	return c.JSON(dto.NewGroupsResponse(h.orchestrator.SellerGroups(), h.orchestrator.QuoteAll()))
}

// Checkout ejecuta el flujo de checkout para los ids indicados (o el carrito
// completo) con la dirección y el método de pago del cuerpo.
func (h *CheckoutHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	result, err := h.orchestrator.Checkout(c.UserContext(), appcheckout.Input{
		ProductIDs: in.ProductIDs,
		Address:    requestAddress{payload: in.Address},
		Payment:    requestPayment{method: in.PaymentMethod},
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.CheckoutResponse{
		OrderID:       result.OrderID,
		PaymentMethod: string(result.PaymentMethod),
		Quote:         dto.NewQuoteResponse(result.Quote),
		RedirectURL:   result.RedirectURL,
	})
}

// requestAddress implementa el colaborador de dirección sobre el cuerpo de la
// solicitud: sin payload no hay nada que recolectar.
type requestAddress struct {
	payload *dto.AddressPayload
}

func (r requestAddress) Collect(context.Context) (entity.ShippingAddress, error) {
	if r.payload == nil {
		return entity.ShippingAddress{}, domain.ErrIncompleteAddress
	}
	return r.payload.Address(), nil
}

// requestPayment implementa el selector de método de pago sobre el cuerpo.
type requestPayment struct {
	method string
}

func (r requestPayment) Select(_ context.Context, _ domcheckout.Quote) (entity.PaymentMethod, error) {
	m := entity.PaymentMethod(r.method)
	if !m.Valid() {
		return "", domain.ErrInvalidInput
	}
	return m, nil
}
