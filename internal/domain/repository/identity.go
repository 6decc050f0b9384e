package repository

import "github.com/ninzkie1/buildAble-sub000/internal/domain/entity"

// IdentityProvider expone la identidad de la sesión activa y notifica cambios
// en login/logout. El motor de reconciliación se suscribe para recargar el
// carrito cuando la identidad cambia.
type IdentityProvider interface {
	Current() entity.Identity
	Subscribe(fn func(entity.Identity))
}
