package dto

import (
	"github.com/shopspring/decimal"

	"github.com/ninzkie1/buildAble-sub000/internal/domain/entity"
)

// AddItemRequest alta de un producto en el carrito. El precio se captura como
// snapshot al momento del alta; stock es el tope autoritativo conocido.
type AddItemRequest struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	SellerID    string          `json:"sellerId"`
	SellerName  string          `json:"sellerName"`
}

// Line convierte la solicitud en una línea de carrito (cantidad la fija el motor).
func (r AddItemRequest) Line() entity.CartLine {
	return entity.CartLine{
		ProductID:     r.ProductID,
		ProductName:   r.ProductName,
		PriceSnapshot: r.Price,
		StockCeiling:  r.Stock,
		SellerID:      r.SellerID,
		SellerName:    r.SellerName,
	}
}

// SetQuantityRequest actualización de cantidad de una línea.
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
	Stock    int `json:"stock"`
}

// CartResponse carrito con derivados y estado de sincronización.
type CartResponse struct {
	Lines      []entity.CartLine `json:"lines"`
	TotalItems int               `json:"totalItems"`
	TotalPrice decimal.Decimal   `json:"totalPrice"`
	SyncState  string            `json:"syncState"`
}

// NewCartResponse arma la respuesta desde un snapshot del carrito.
func NewCartResponse(cart entity.Cart, syncState string) CartResponse {
	lines := cart.Lines
	if lines == nil {
		lines = []entity.CartLine{}
	}
	return CartResponse{
		Lines:      lines,
		TotalItems: cart.TotalItems(),
		TotalPrice: cart.TotalPrice(),
		SyncState:  syncState,
	}
}

// LoginRequest token de sesión emitido por el proveedor de identidad.
type LoginRequest struct {
	Token string `json:"token"`
}

// SessionResponse identidad visible de la sesión activa.
type SessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	UserID        string `json:"userId,omitempty"`
	Email         string `json:"email,omitempty"`
}
