package entity

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Los precios viajan como números JSON (el backend del marketplace no
	// acepta montos entre comillas).
	decimal.MarshalJSONWithoutQuotes = true
}

// CartLine es una línea del carrito. PriceSnapshot se captura al momento de
// agregar el producto y no se refresca con el catálogo; StockCeiling es el
// máximo autoritativo y sí puede refrescarse. SellerID/SellerName vienen
// desnormalizados del producto cuando el catálogo los expone.
type CartLine struct {
	ProductID     string          `json:"productId"`
	ProductName   string          `json:"name,omitempty"`
	PriceSnapshot decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	StockCeiling  int             `json:"stock"`
	SellerID      string          `json:"sellerId,omitempty"`
	SellerName    string          `json:"sellerName,omitempty"`
}

// Subtotal devuelve PriceSnapshot × Quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.PriceSnapshot.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Equal compara dos líneas por identidad, cantidad y precio capturado.
func (l CartLine) Equal(other CartLine) bool {
	return l.ProductID == other.ProductID &&
		l.Quantity == other.Quantity &&
		l.PriceSnapshot.Equal(other.PriceSnapshot)
}

// clampQuantity aplica el invariante 1 ≤ quantity ≤ stockCeiling.
// Un StockCeiling ≤ 0 se trata como "sin tope conocido".
func (l *CartLine) clampQuantity() {
	if l.Quantity < 1 {
		l.Quantity = 1
	}
	if l.StockCeiling > 0 && l.Quantity > l.StockCeiling {
		l.Quantity = l.StockCeiling
	}
}

// Cart es la colección ordenada de líneas de la sesión. El orden de inserción
// no afecta la corrección pero se preserva para presentación.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// IsEmpty indica si el carrito no tiene líneas.
func (c Cart) IsEmpty() bool { return len(c.Lines) == 0 }

// TotalItems devuelve Σ quantity.
func (c Cart) TotalItems() int {
	total := 0
	for _, l := range c.Lines {
		total += l.Quantity
	}
	return total
}

// TotalPrice devuelve Σ priceSnapshot × quantity.
func (c Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Find devuelve un puntero a la línea con ese productId, o nil.
func (c *Cart) Find(productID string) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return &c.Lines[i]
		}
	}
	return nil
}

// Clone devuelve una copia profunda del carrito.
func (c Cart) Clone() Cart {
	if len(c.Lines) == 0 {
		return Cart{}
	}
	lines := make([]CartLine, len(c.Lines))
	copy(lines, c.Lines)
	return Cart{Lines: lines}
}

// Normalize aplica los invariantes del carrito: sin productIds duplicados
// (se conserva la primera aparición) y cantidades dentro de [1, stockCeiling].
// Las violaciones se corrigen, nunca se reportan como error.
func (c Cart) Normalize() Cart {
	seen := make(map[string]struct{}, len(c.Lines))
	lines := make([]CartLine, 0, len(c.Lines))
	for _, l := range c.Lines {
		if _, dup := seen[l.ProductID]; dup {
			continue
		}
		seen[l.ProductID] = struct{}{}
		l.clampQuantity()
		lines = append(lines, l)
	}
	return Cart{Lines: lines}
}

// ProductIDs devuelve los productIds en orden de aparición.
func (c Cart) ProductIDs() []string {
	ids := make([]string, 0, len(c.Lines))
	for _, l := range c.Lines {
		ids = append(ids, l.ProductID)
	}
	return ids
}

// SameProductIDs compara los conjuntos de productIds de ambos carritos,
// ignorando orden y cantidades.
func (c Cart) SameProductIDs(other Cart) bool {
	if len(c.Lines) != len(other.Lines) {
		return false
	}
	set := make(map[string]struct{}, len(c.Lines))
	for _, l := range c.Lines {
		set[l.ProductID] = struct{}{}
	}
	for _, l := range other.Lines {
		if _, ok := set[l.ProductID]; !ok {
			return false
		}
	}
	return true
}

// Equal compara ambos carritos línea a línea (mismo orden).
func (c Cart) Equal(other Cart) bool {
	if len(c.Lines) != len(other.Lines) {
		return false
	}
	for i := range c.Lines {
		if !c.Lines[i].Equal(other.Lines[i]) {
			return false
		}
	}
	return true
}

// MergeOnLogin combina el carrito remoto (autoritativo) con el carrito de la
// sesión invitada previa al login. Para productIds coincidentes se conserva
// quantity = max(remoteQty, guestQty); las líneas solo-invitado se agregan al
// final. El resultado preserva el orden remoto.
func MergeOnLogin(remote, guest Cart) Cart {
	merged := remote.Clone()
	for _, gl := range guest.Lines {
		if line := merged.Find(gl.ProductID); line != nil {
			if gl.Quantity > line.Quantity {
				line.Quantity = gl.Quantity
			}
			continue
		}
		merged.Lines = append(merged.Lines, gl)
	}
	return merged.Normalize()
}
