package repository

import (
	"context"

	"github.com/ninzkie1/buildAble-sub000/internal/domain/entity"
)

// CartGateway puerto de salida hacia los endpoints de carrito del backend.
// El backend no ofrece locking del lado del cliente: toda la serialización de
// escrituras concurrentes se garantiza localmente vía SyncState.
type CartGateway interface {
	// Fetch obtiene el carrito remoto autoritativo.
	// Devuelve domain.ErrMalformedCart si la respuesta no es un arreglo válido.
	Fetch(ctx context.Context) (entity.Cart, error)
	// Replace reemplaza el carrito remoto completo (full replace).
	Replace(ctx context.Context, cart entity.Cart) error
	// AddItem alta dedicada de un producto (distinta del full replace).
	AddItem(ctx context.Context, productID string, quantity int) error
	// RemoveItem elimina una línea por productId.
	RemoveItem(ctx context.Context, productID string) error
	// SetQuantity fija la cantidad de una línea existente.
	SetQuantity(ctx context.Context, productID string, quantity int) error
	// Clear vacía el carrito remoto.
	Clear(ctx context.Context) error
}
