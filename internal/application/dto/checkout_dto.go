package dto

import (
	"github.com/shopspring/decimal"

	domcheckout "github.com/ninzkie1/buildAble-sub000/internal/domain/checkout"
	"github.com/ninzkie1/buildAble-sub000/internal/domain/entity"
)

// QuoteResponse cotización: subtotal, tarifa de transacción (2%) y total.
type QuoteResponse struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Fee      decimal.Decimal `json:"transactionFee"`
	Total    decimal.Decimal `json:"total"`
}

// NewQuoteResponse convierte la cotización de dominio.
func NewQuoteResponse(q domcheckout.Quote) QuoteResponse {
	return QuoteResponse{Subtotal: q.Subtotal, Fee: q.Fee, Total: q.Total}
}

// SellerGroupResponse grupo de vendedor con su cotización propia.
type SellerGroupResponse struct {
	SellerID   string            `json:"sellerId"`
	SellerName string            `json:"sellerName"`
	Lines      []entity.CartLine `json:"lines"`
	Subtotal   decimal.Decimal   `json:"subtotal"`
	Quote      QuoteResponse     `json:"quote"`
}

// GroupsResponse agrupación completa más la cotización del carrito entero,
// calculadas con la misma fórmula.
type GroupsResponse struct {
	Groups    []SellerGroupResponse `json:"groups"`
	CartQuote QuoteResponse         `json:"cartQuote"`
}

// NewGroupsResponse arma la agrupación por vendedor para la respuesta HTTP.
func NewGroupsResponse(groups []domcheckout.SellerGroup, cartQuote domcheckout.Quote) GroupsResponse {
	out := GroupsResponse{
		Groups:    make([]SellerGroupResponse, 0, len(groups)),
		CartQuote: NewQuoteResponse(cartQuote),
	}
	for _, g := range groups {
		out.Groups = append(out.Groups, SellerGroupResponse{
			SellerID:   g.SellerID,
			SellerName: g.SellerName,
			Lines:      g.Lines,
			Subtotal:   g.Subtotal,
			Quote:      NewQuoteResponse(g.Quote()),
		})
	}
	return out
}

// AddressPayload dirección de envío recolectada en la solicitud.
type AddressPayload struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Address convierte el payload a la entidad de dominio.
func (p AddressPayload) Address() entity.ShippingAddress {
	return entity.ShippingAddress{
		Street:     p.Street,
		City:       p.City,
		State:      p.State,
		PostalCode: p.PostalCode,
		Country:    p.Country,
	}
}

// CheckoutRequest solicitud de checkout. ProductIDs vacío = carrito completo;
// Address es opcional si la sesión ya tiene una dirección completa.
type CheckoutRequest struct {
	ProductIDs    []string        `json:"productIds"`
	Address       *AddressPayload `json:"address"`
	PaymentMethod string          `json:"paymentMethod"`
}

// CheckoutResponse resultado del checkout. RedirectURL solo para pago en línea.
type CheckoutResponse struct {
	OrderID       string        `json:"orderId"`
	PaymentMethod string        `json:"paymentMethod"`
	Quote         QuoteResponse `json:"quote"`
	RedirectURL   string        `json:"redirectUrl,omitempty"`
}
