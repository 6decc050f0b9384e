package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/ninzkie1/buildAble-sub000/internal/domain/entity"
)

// UnknownSellerName nombre del bucket centinela para líneas sin sellerId.
const UnknownSellerName = "Vendedor desconocido"

// SellerGroup agrupación derivada (no persistida) de líneas por vendedor.
// Invariante: Σ Subtotal sobre todos los grupos == Cart.TotalPrice.
type SellerGroup struct {
	SellerID   string            `json:"sellerId"`
	SellerName string            `json:"sellerName"`
	Lines      []entity.CartLine `json:"lines"`
	Subtotal   decimal.Decimal   `json:"subtotal"`
}

// Quote devuelve la cotización del grupo con la fórmula compartida.
func (g SellerGroup) Quote() Quote {
	return QuoteFor(g.Lines)
}

// GroupBySeller agrupa las líneas del carrito por sellerId, en orden de
// primera aparición. Las líneas sin sellerId caen en el bucket "desconocido";
// un vendedor con id pero sin nombre denormalizado se etiqueta con el id (el
// nombre centinela queda reservado para el bucket sin vendedor). Derivación
// pura: no toca el carrito ni produce efectos.
func GroupBySeller(cart entity.Cart) []SellerGroup {
	index := make(map[string]int, len(cart.Lines))
	groups := make([]SellerGroup, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		i, ok := index[line.SellerID]
		if !ok {
			index[line.SellerID] = len(groups)
			groups = append(groups, SellerGroup{
				SellerID:   line.SellerID,
				SellerName: sellerLabel(line),
				Subtotal:   decimal.Zero,
			})
			i = index[line.SellerID]
		}
		if groups[i].SellerName == groups[i].SellerID && line.SellerName != "" {
			// Una línea posterior trae el nombre que a la primera le faltaba.
			groups[i].SellerName = line.SellerName
		}
		groups[i].Lines = append(groups[i].Lines, line)
		groups[i].Subtotal = groups[i].Subtotal.Add(line.Subtotal())
	}
	return groups
}

// sellerLabel resuelve el nombre visible del grupo a partir de su primera línea.
func sellerLabel(line entity.CartLine) string {
	if line.SellerName != "" {
		return line.SellerName
	}
	if line.SellerID != "" {
		return line.SellerID
	}
	return UnknownSellerName
}
