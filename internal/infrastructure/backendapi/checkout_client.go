package backendapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/ninzkie1/buildAble-sub000/internal/domain"
	"github.com/ninzkie1/buildAble-sub000/internal/domain/entity"
	"github.com/ninzkie1/buildAble-sub000/internal/domain/repository"
)

// CheckoutClient implementa repository.OrderGateway y repository.PaymentGateway
// contra los endpoints de órdenes y pagos del backend.
type CheckoutClient struct {
	client *Client
}

// NewCheckoutClient construye el gateway de checkout.
func NewCheckoutClient(client *Client) *CheckoutClient {
	return &CheckoutClient{client: client}
}

// orderItemPayload línea enviada al backend: productId, cantidad y precio capturado.
type orderItemPayload struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// createOrderPayload cuerpo de POST /orders/checkout.
type createOrderPayload struct {
	Items          []orderItemPayload     `json:"items"`
	Address        entity.ShippingAddress `json:"address"`
	PaymentMethod  entity.PaymentMethod   `json:"paymentMethod"`
	IdempotencyKey string                 `json:"idempotencyKey,omitempty"`
}

// orderRef referencia de orden en la respuesta; el backend usa id o _id.
type orderRef struct {
	ID  string `json:"id"`
	OID string `json:"_id"`
}

func (r orderRef) ref() string {
	if r.ID != "" {
		return r.ID
	}
	return r.OID
}

// createOrderResponse el backend puede devolver un id ancla directo, una orden
// única o un arreglo de órdenes por vendedor; el cliente no asume mapeo 1:1.
type createOrderResponse struct {
	AnchorOrderID string     `json:"anchorOrderId"`
	Order         *orderRef  `json:"order"`
	Orders        []orderRef `json:"orders"`
}

// CreateOrder envía una sola solicitud de creación con las líneas y la
// dirección; devuelve el id ancla opaco.
func (c *CheckoutClient) CreateOrder(ctx context.Context, req repository.OrderRequest) (*repository.OrderResult, error) {
	items := make([]orderItemPayload, 0, len(req.Items))
	for _, l := range req.Items {
		items = append(items, orderItemPayload{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Price:     l.PriceSnapshot,
		})
	}

	var resp createOrderResponse
	err := c.client.doJSON(ctx, http.MethodPost, "/orders/checkout", createOrderPayload{
		Items:          items,
		Address:        req.Address,
		PaymentMethod:  req.PaymentMethod,
		IdempotencyKey: req.IdempotencyKey,
	}, &resp)
	if err != nil {
		return nil, err
	}

	anchor := resp.AnchorOrderID
	if anchor == "" && resp.Order != nil {
		anchor = resp.Order.ref()
	}
	if anchor == "" && len(resp.Orders) > 0 {
		anchor = resp.Orders[0].ref()
	}
	if anchor == "" {
		return nil, domain.ErrNoOrderID
	}
	return &repository.OrderResult{AnchorOrderID: anchor}, nil
}

// paymentSessionPayload cuerpo de POST /payments/create.
type paymentSessionPayload struct {
	OrderID    string          `json:"orderId"`
	Amount     decimal.Decimal `json:"amount"`
	Email      string          `json:"email"`
	SuccessURL string          `json:"successUrl"`
	CancelURL  string          `json:"cancelUrl"`
}

// paymentSessionResponse URL de checkout devuelta por el proveedor de pagos.
type paymentSessionResponse struct {
	CheckoutURL string `json:"checkoutUrl"`
}

// CreateSession solicita una sesión de pago en línea con el total cotizado y
// las URLs de retorno.
func (c *CheckoutClient) CreateSession(ctx context.Context, req repository.PaymentSessionRequest) (*repository.PaymentSessionResult, error) {
	var resp paymentSessionResponse
	err := c.client.doJSON(ctx, http.MethodPost, "/payments/create", paymentSessionPayload{
		OrderID:    req.OrderID,
		Amount:     req.Amount,
		Email:      req.Email,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.CheckoutURL == "" {
		return nil, fmt.Errorf("backend: sesión de pago sin checkoutUrl")
	}
	return &repository.PaymentSessionResult{CheckoutURL: resp.CheckoutURL}, nil
}
