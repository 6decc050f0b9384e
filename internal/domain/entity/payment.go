package entity

// PaymentMethod método de pago elegido en el checkout.
type PaymentMethod string

const (
	// PaymentOnline pago en línea vía sesión de pago del backend.
	PaymentOnline PaymentMethod = "online"
	// PaymentCashOnDelivery pago contraentrega.
	PaymentCashOnDelivery PaymentMethod = "cod"
)

// Valid indica si el método es uno de los soportados.
func (m PaymentMethod) Valid() bool {
	return m == PaymentOnline || m == PaymentCashOnDelivery
}
