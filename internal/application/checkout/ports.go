package checkout

import (
	"context"

	domcheckout "github.com/ninzkie1/buildAble-sub000/internal/domain/checkout"
	"github.com/ninzkie1/buildAble-sub000/internal/domain/entity"
)

// AddressCollector colaborador externo de recolección de dirección. Se invoca
// solo cuando la dirección guardada de la sesión está incompleta; el flujo se
// suspende hasta que devuelve una dirección completa.
type AddressCollector interface {
	Collect(ctx context.Context) (entity.ShippingAddress, error)
}

// PaymentSelector colaborador externo de selección de método de pago. Recibe
// la cotización para presentarla al usuario y devuelve online o contraentrega.
type PaymentSelector interface {
	Select(ctx context.Context, quote domcheckout.Quote) (entity.PaymentMethod, error)
}

// Session contexto de la sesión activa: identidad, dirección persistida y
// orden pendiente de pago.
type Session interface {
	Current() entity.Identity
	Address() (entity.ShippingAddress, bool)
	SaveAddress(addr entity.ShippingAddress)
	SavePendingOrder(orderID string)
}

// CartEngine lo que el orquestador necesita del motor de reconciliación: leer
// el carrito autoritativo y podar líneas por la ruta de remoción en lote, que
// coordina con la misma guarda de sincronización que el push debounced.
type CartEngine interface {
	Cart() entity.Cart
	RemoveMany(ctx context.Context, productIDs []string) error
}
