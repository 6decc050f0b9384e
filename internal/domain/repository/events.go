package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ninzkie1/buildAble-sub000/internal/domain/entity"
)

// OrderPlacedEvent evento emitido tras un checkout exitoso, para consumidores
// aguas abajo (notificaciones, analítica). Mejor esfuerzo: un fallo de
// publicación no afecta el resultado del checkout.
type OrderPlacedEvent struct {
	OrderID       string               `json:"orderId"`
	UserID        string               `json:"userId"`
	Items         []entity.CartLine    `json:"items"`
	Total         decimal.Decimal      `json:"total"`
	PaymentMethod entity.PaymentMethod `json:"paymentMethod"`
	PlacedAt      time.Time            `json:"placedAt"`
}

// OrderEventPublisher puerto de publicación de eventos de órdenes.
type OrderEventPublisher interface {
	OrderPlaced(ctx context.Context, evt OrderPlacedEvent) error
}
