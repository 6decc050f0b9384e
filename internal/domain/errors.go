package domain

import "errors"

// Errores de dominio (sin dependencias externas).
//
// Las señales de validación se muestran al usuario de inmediato y nunca se
// reintentan ni llegan a la capa de red; el carrito queda intacto.
var (
	ErrStockExceeded        = errors.New("stock máximo alcanzado para el producto")
	ErrQuantityExceedsStock = errors.New("la cantidad solicitada supera el stock disponible")
	ErrEmptyCheckout        = errors.New("no hay artículos para procesar en el checkout")
	ErrIncompleteAddress    = errors.New("la dirección de envío está incompleta")

	// ErrMalformedCart indica una respuesta de carrito malformada del backend.
	// Nunca debe colapsar el estado autoritativo local a vacío.
	ErrMalformedCart = errors.New("respuesta de carrito malformada del backend")

	ErrNotFound     = errors.New("recurso no encontrado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrNoOrderID    = errors.New("la respuesta de la orden no incluye un identificador")
)
