package repository

import "github.com/ninzkie1/buildAble-sub000/internal/domain/entity"

// GuestCartStore almacenamiento durable clave-valor para el carrito de
// sesiones no autenticadas. Se escribe de forma síncrona en cada mutación
// invitada y se borra una vez fusionado en un carrito autenticado.
type GuestCartStore interface {
	// Load devuelve el carrito invitado y si existe una entrada guardada.
	Load() (entity.Cart, bool, error)
	// Save serializa y persiste el carrito invitado.
	Save(cart entity.Cart) error
	// Delete elimina la entrada; inexistente no es error.
	Delete() error
}
