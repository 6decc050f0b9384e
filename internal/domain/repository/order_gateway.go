package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ninzkie1/buildAble-sub000/internal/domain/entity"
)

// OrderRequest solicitud de creación de orden. El backend puede abrirla en
// varias órdenes por vendedor; el cliente no asume mapeo 1:1.
// IdempotencyKey la genera el cliente por intento de checkout para que un
// reenvío (retry-by-resubmission) no duplique la orden.
type OrderRequest struct {
	Items          []entity.CartLine
	Address        entity.ShippingAddress
	PaymentMethod  entity.PaymentMethod
	IdempotencyKey string
}

// OrderResult resultado de la creación. AnchorOrderID es opaco para el cliente.
type OrderResult struct {
	AnchorOrderID string
}

// OrderGateway puerto de salida hacia el endpoint de checkout del backend.
type OrderGateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*OrderResult, error)
}

// PaymentSessionRequest solicitud de sesión de pago en línea.
type PaymentSessionRequest struct {
	OrderID    string
	Amount     decimal.Decimal
	Email      string
	SuccessURL string
	CancelURL  string
}

// PaymentSessionResult URL de redirección devuelta por el backend.
type PaymentSessionResult struct {
	CheckoutURL string
}

// PaymentGateway puerto de salida hacia el endpoint de pagos del backend.
type PaymentGateway interface {
	CreateSession(ctx context.Context, req PaymentSessionRequest) (*PaymentSessionResult, error)
}
