package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/ninzkie1/buildAble-sub000/internal/domain/entity"
)

// FeeRate tarifa de transacción de la plataforma: 2% del subtotal.
// Es el valor decimal exacto 0.02; el redondeo ocurre solo en presentación.
var FeeRate = decimal.New(2, -2)

// Quote cotización efímera del checkout. Se calcula con la misma fórmula
// tanto para un grupo de vendedor como para el carrito completo, de modo que
// la suma de totales por vendedor nunca diverge del total "pagar todo".
type Quote struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Fee      decimal.Decimal `json:"transactionFee"`
	Total    decimal.Decimal `json:"total"`
}

// QuoteFor calcula la cotización para un conjunto de líneas:
// fee = subtotal × 0.02 y total = subtotal + fee, exactos.
func QuoteFor(lines []entity.CartLine) Quote {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Subtotal())
	}
	fee := subtotal.Mul(FeeRate)
	return Quote{
		Subtotal: subtotal,
		Fee:      fee,
		Total:    subtotal.Add(fee),
	}
}

// QuoteCart calcula la cotización del carrito completo.
func QuoteCart(cart entity.Cart) Quote {
	return QuoteFor(cart.Lines)
}
