package backendapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ninzkie1/buildAble-sub000/internal/domain"
	"github.com/ninzkie1/buildAble-sub000/internal/domain/entity"
)

// CartClient implementa repository.CartGateway contra los endpoints REST de
// carrito del backend (bearer token, cuerpos JSON).
type CartClient struct {
	client *Client
}

// NewCartClient construye el gateway de carrito.
func NewCartClient(client *Client) *CartClient {
	return &CartClient{client: client}
}

// cartEnvelope respuesta de GET /cart. Cart se decodifica en dos fases para
// poder distinguir "arreglo válido" de "payload malformado".
type cartEnvelope struct {
	Success bool            `json:"success"`
	Cart    json.RawMessage `json:"cart"`
}

// replacePayload cuerpo de POST /cart (full replace).
type replacePayload struct {
	Cart []entity.CartLine `json:"cart"`
}

// addItemPayload cuerpo de POST /cart/add.
type addItemPayload struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// quantityPayload cuerpo de PUT /cart/:productId.
type quantityPayload struct {
	Quantity int `json:"quantity"`
}

// Fetch obtiene el carrito remoto. Una respuesta cuyo campo cart no es un
// arreglo devuelve domain.ErrMalformedCart: el motor conserva entonces el
// último estado bueno en lugar de colapsar a vacío.
func (c *CartClient) Fetch(ctx context.Context) (entity.Cart, error) {
	var env cartEnvelope
	if err := c.client.doJSON(ctx, http.MethodGet, "/cart", nil, &env); err != nil {
		return entity.Cart{}, err
	}
	if len(env.Cart) == 0 || string(env.Cart) == "null" {
		return entity.Cart{}, nil
	}
	var lines []entity.CartLine
	if err := json.Unmarshal(env.Cart, &lines); err != nil {
		return entity.Cart{}, fmt.Errorf("%w: %s", domain.ErrMalformedCart, err)
	}
	return entity.Cart{Lines: lines}, nil
}

// Replace reemplaza el carrito remoto completo.
func (c *CartClient) Replace(ctx context.Context, cart entity.Cart) error {
	lines := cart.Lines
	if lines == nil {
		lines = []entity.CartLine{}
	}
	return c.client.doJSON(ctx, http.MethodPost, "/cart", replacePayload{Cart: lines}, nil)
}

// AddItem alta dedicada de un producto.
func (c *CartClient) AddItem(ctx context.Context, productID string, quantity int) error {
	return c.client.doJSON(ctx, http.MethodPost, "/cart/add", addItemPayload{
		ProductID: productID,
		Quantity:  quantity,
	}, nil)
}

// RemoveItem elimina una línea por productId.
func (c *CartClient) RemoveItem(ctx context.Context, productID string) error {
	return c.client.doJSON(ctx, http.MethodDelete, "/cart/"+url.PathEscape(productID), nil, nil)
}

// SetQuantity fija la cantidad de una línea.
func (c *CartClient) SetQuantity(ctx context.Context, productID string, quantity int) error {
	return c.client.doJSON(ctx, http.MethodPut, "/cart/"+url.PathEscape(productID), quantityPayload{
		Quantity: quantity,
	}, nil)
}

// Clear vacía el carrito remoto.
func (c *CartClient) Clear(ctx context.Context) error {
	return c.client.doJSON(ctx, http.MethodDelete, "/cart", nil, nil)
}
