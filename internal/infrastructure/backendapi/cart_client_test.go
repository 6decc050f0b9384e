package backendapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninzkie1/buildAble-sub000/internal/domain"
	"github.com/ninzkie1/buildAble-sub000/internal/domain/entity"
	"github.com/ninzkie1/buildAble-sub000/internal/infrastructure/backendapi"
)

// staticToken TokenSource fijo para tests.
type staticToken string

func (t staticToken) Token() string { return string(t) }

func newCartClient(t *testing.T, handler http.HandlerFunc, token string) *backendapi.CartClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return backendapi.NewCartClient(backendapi.NewClient(srv.URL, time.Second, staticToken(token)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Fetch
// ──────────────────────────────────────────────────────────────────────────────

func TestFetch_DecodificaElCarritoYEnviaBearer(t *testing.T) {
	var gotAuth, gotPath, gotMethod string
	client := newCartClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"cart":[{"productId":"p1","price":19.99,"quantity":2,"stock":5}]}`))
	}, "tok-123")

	cart, err := client.Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "/cart", gotPath)
	assert.Equal(t, http.MethodGet, gotMethod)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "p1", cart.Lines[0].ProductID)
	assert.True(t, cart.Lines[0].PriceSnapshot.Equal(decimal.RequireFromString("19.99")))
	assert.Equal(t, 2, cart.Lines[0].Quantity)
	assert.Equal(t, 5, cart.Lines[0].StockCeiling)
}

func TestFetch_SinTokenNoEnviaAuthorization(t *testing.T) {
	var gotAuth string
	client := newCartClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"success":true,"cart":[]}`))
	}, "")

	_, err := client.Fetch(context.Background())

	require.NoError(t, err)
	assert.Empty(t, gotAuth, "sesión invitada sale sin header Authorization")
}

func TestFetch_CartNuloEsCarritoVacio(t *testing.T) {
	client := newCartClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"cart":null}`))
	}, "tok")

	cart, err := client.Fetch(context.Background())

	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestFetch_CartNoArregloDevuelveErrMalformedCart(t *testing.T) {
	client := newCartClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"cart":{"inesperado":"objeto"}}`))
	}, "tok")

	_, err := client.Fetch(context.Background())

	assert.ErrorIs(t, err, domain.ErrMalformedCart)
}

func TestFetch_ErrorHTTPPropagaElMensajeDelBackend(t *testing.T) {
	client := newCartClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"token expirado"}`))
	}, "tok")

	_, err := client.Fetch(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "token expirado")
	assert.NotErrorIs(t, err, domain.ErrMalformedCart, "un 401 no es un carrito malformado")
}

// ──────────────────────────────────────────────────────────────────────────────
// Mutaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestReplace_EnviaFullReplaceConArregloNuncaNulo(t *testing.T) {
	var gotBody map[string]json.RawMessage
	client := newCartClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/cart", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}, "tok")

	err := client.Replace(context.Background(), entity.Cart{})

	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(gotBody["cart"]), "carrito vacío viaja como [] y no como null")
}

func TestAddItem_EnviaProductoYCantidad(t *testing.T) {
	var got struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	client := newCartClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/cart/add", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}, "tok")

	err := client.AddItem(context.Background(), "p1", 1)

	require.NoError(t, err)
	assert.Equal(t, "p1", got.ProductID)
	assert.Equal(t, 1, got.Quantity)
}

func TestRemoveItem_EscapaElProductIdEnLaRuta(t *testing.T) {
	var gotPath string
	client := newCartClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusOK)
	}, "tok")

	err := client.RemoveItem(context.Background(), "p/con espacios")

	require.NoError(t, err)
	assert.Equal(t, "/cart/p%2Fcon%20espacios", gotPath)
}

func TestSetQuantity_EnviaPutConLaCantidad(t *testing.T) {
	var got struct {
		Quantity int `json:"quantity"`
	}
	client := newCartClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/cart/p1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}, "tok")

	err := client.SetQuantity(context.Background(), "p1", 4)

	require.NoError(t, err)
	assert.Equal(t, 4, got.Quantity)
}

func TestClear_EnviaDeleteALaColeccion(t *testing.T) {
	var gotMethod, gotPath string
	client := newCartClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}, "tok")

	err := client.Clear(context.Background())

	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/cart", gotPath)
}
