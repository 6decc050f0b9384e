package cart_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcart "github.com/ninzkie1/buildAble-sub000/internal/application/cart"
	"github.com/ninzkie1/buildAble-sub000/internal/domain"
	"github.com/ninzkie1/buildAble-sub000/internal/domain/entity"
	"github.com/ninzkie1/buildAble-sub000/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeGateway struct {
	mu sync.Mutex

	remote entity.Cart

	fetchErr   error
	replaceErr error
	addErr     error
	clearErr   error
	removeErrs map[string]error

	fetchCalls   int
	replaceCalls int
	removed      []string
}

func newFakeGateway(lines ...entity.CartLine) *fakeGateway {
	return &fakeGateway{remote: entity.Cart{Lines: lines}}
}

func (g *fakeGateway) Fetch(context.Context) (entity.Cart, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fetchCalls++
	if g.fetchErr != nil {
		return entity.Cart{}, g.fetchErr
	}
	return g.remote.Clone(), nil
}

func (g *fakeGateway) Replace(_ context.Context, cart entity.Cart) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.replaceCalls++
	if g.replaceErr != nil {
		return g.replaceErr
	}
	g.remote = cart.Clone()
	return nil
}

func (g *fakeGateway) AddItem(_ context.Context, productID string, quantity int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.addErr != nil {
		return g.addErr
	}
	if line := g.remote.Find(productID); line != nil {
		line.Quantity += quantity
		return nil
	}
	g.remote.Lines = append(g.remote.Lines, entity.CartLine{ProductID: productID, Quantity: quantity})
	return nil
}

func (g *fakeGateway) RemoveItem(_ context.Context, productID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.removed = append(g.removed, productID)
	if err, ok := g.removeErrs[productID]; ok {
		return err
	}
	filtered := g.remote.Lines[:0]
	for _, l := range g.remote.Lines {
		if l.ProductID != productID {
			filtered = append(filtered, l)
		}
	}
	g.remote.Lines = filtered
	return nil
}

func (g *fakeGateway) SetQuantity(_ context.Context, productID string, quantity int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if line := g.remote.Find(productID); line != nil {
		line.Quantity = quantity
	}
	return nil
}

func (g *fakeGateway) Clear(context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.clearErr != nil {
		return g.clearErr
	}
	g.remote = entity.Cart{}
	return nil
}

func (g *fakeGateway) replaceCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.replaceCalls
}

func (g *fakeGateway) removedIDs() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.removed...)
}

type fakeGuestStore struct {
	mu      sync.Mutex
	cart    entity.Cart
	has     bool
	deletes int
	saves   int
}

func (s *fakeGuestStore) Load() (entity.Cart, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.has {
		return entity.Cart{}, false, nil
	}
	return s.cart.Clone(), true, nil
}

func (s *fakeGuestStore) Save(cart entity.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = cart.Clone()
	s.has = true
	s.saves++
	return nil
}

func (s *fakeGuestStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = entity.Cart{}
	s.has = false
	s.deletes++
	return nil
}

func (s *fakeGuestStore) exists() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.has
}

func (s *fakeGuestStore) seed(lines ...entity.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = entity.Cart{Lines: lines}
	s.has = true
}

type fakeIdentity struct {
	mu   sync.Mutex
	id   entity.Identity
	subs []func(entity.Identity)
}

func (f *fakeIdentity) Current() entity.Identity {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.id
}

func (f *fakeIdentity) Subscribe(fn func(entity.Identity)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, fn)
}

func (f *fakeIdentity) set(id entity.Identity) {
	f.mu.Lock()
	f.id = id
	subs := append([]func(entity.Identity){}, f.subs...)
	f.mu.Unlock()
	for _, fn := range subs {
		fn(id)
	}
}

func authIdentity() *fakeIdentity {
	return &fakeIdentity{id: entity.Identity{Authenticated: true, Token: "tok", UserID: "u1"}}
}

// ──────────────────────────────────────────────────────────────────────────────
// Armado del motor bajo prueba
// ──────────────────────────────────────────────────────────────────────────────

func testLine(productID string, price float64, qty, stock int) entity.CartLine {
	return entity.CartLine{
		ProductID:     productID,
		PriceSnapshot: decimal.NewFromFloat(price),
		Quantity:      qty,
		StockCeiling:  stock,
	}
}

func newTestEngine(t *testing.T, gw *fakeGateway, guest *fakeGuestStore, ident *fakeIdentity, opts appcart.Options) (*appcart.Engine, *appcart.Store) {
	t.Helper()
	store := appcart.NewStore()
	engine := appcart.NewEngine(store, gw, guest, ident, logger.Nop(), opts)
	t.Cleanup(engine.Close)
	return engine, store
}

// ──────────────────────────────────────────────────────────────────────────────
// Protocolo de carga
// ──────────────────────────────────────────────────────────────────────────────

func TestReload_InvitadoCargaDesdeAlmacenLocal(t *testing.T) {
	guest := &fakeGuestStore{}
	guest.seed(testLine("p1", 10, 2, 5))
	engine, _ := newTestEngine(t, newFakeGateway(), guest, &fakeIdentity{}, appcart.Options{})

	engine.Reload(context.Background())

	cart := engine.Cart()
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "p1", cart.Lines[0].ProductID)
	assert.Equal(t, appcart.StateIdle, engine.State(), "tras la carga el estado vuelve a idle")
}

func TestReload_FusionaUnaSolaVezYBorraLaEntradaInvitada(t *testing.T) {
	gw := newFakeGateway(testLine("p1", 10, 1, 5), testLine("p2", 5, 3, 5))
	guest := &fakeGuestStore{}
	guest.seed(testLine("p1", 10, 2, 5))
	engine, _ := newTestEngine(t, gw, guest, authIdentity(), appcart.Options{})

	engine.Reload(context.Background())

	cart := engine.Cart()
	require.Len(t, cart.Lines, 2)
	assert.Equal(t, 2, cart.Lines[0].Quantity, "colisión: gana max(remote=1, guest=2)")
	assert.Equal(t, 3, cart.Lines[1].Quantity)

	assert.False(t, guest.exists(), "la entrada invitada se borra tras la fusión")
	assert.Equal(t, 1, gw.replaceCount(), "la fusión difiere del remoto: se empuja una vez")

	// Una segunda carga ya no tiene nada que fusionar ni empujar.
	engine.Reload(context.Background())
	assert.Equal(t, 1, gw.replaceCount(), "la fusión ocurre como máximo una vez por login")
}

func TestReload_FusionIgualAlRemotoNoEmpuja(t *testing.T) {
	gw := newFakeGateway(testLine("p1", 10, 3, 5))
	guest := &fakeGuestStore{}
	guest.seed(testLine("p1", 10, 2, 5)) // max(3, 2) == remoto
	engine, _ := newTestEngine(t, gw, guest, authIdentity(), appcart.Options{})

	engine.Reload(context.Background())

	assert.Equal(t, 0, gw.replaceCount(), "si la fusión no cambia nada no hay push")
	assert.False(t, guest.exists(), "la entrada invitada se borra igualmente")
}

func TestReload_FetchFallidoUsaRespaldoInvitadoSinBorrarlo(t *testing.T) {
	gw := newFakeGateway()
	gw.fetchErr = errors.New("backend caído")
	guest := &fakeGuestStore{}
	guest.seed(testLine("p1", 10, 2, 5))
	engine, _ := newTestEngine(t, gw, guest, authIdentity(), appcart.Options{})

	engine.Reload(context.Background())

	cart := engine.Cart()
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "p1", cart.Lines[0].ProductID)
	assert.True(t, guest.exists(), "el respaldo invitado no se borra cuando el fetch falla")
	assert.Equal(t, appcart.StateIdle, engine.State())
}

func TestReload_CambioDeIdentidadDisparaRecarga(t *testing.T) {
	gw := newFakeGateway(testLine("p7", 9, 1, 3))
	ident := &fakeIdentity{}
	engine, _ := newTestEngine(t, gw, &fakeGuestStore{}, ident, appcart.Options{})

	ident.set(entity.Identity{Authenticated: true, Token: "tok", UserID: "u1"})

	assert.Eventually(t, func() bool {
		cart := engine.Cart()
		return len(cart.Lines) == 1 && cart.Lines[0].ProductID == "p7"
	}, time.Second, 5*time.Millisecond, "el login debe recargar el carrito remoto")
}

// ──────────────────────────────────────────────────────────────────────────────
// AddItem
// ──────────────────────────────────────────────────────────────────────────────

func TestAddItem_InvitadoEscribeDirectoAlAlmacenLocal(t *testing.T) {
	guest := &fakeGuestStore{}
	engine, _ := newTestEngine(t, newFakeGateway(), guest, &fakeIdentity{}, appcart.Options{})

	err := engine.AddItem(context.Background(), testLine("p1", 10, 0, 5))

	require.NoError(t, err)
	require.Len(t, engine.Cart().Lines, 1)
	assert.Equal(t, 1, engine.Cart().Lines[0].Quantity)
	assert.True(t, guest.exists(), "modo invitado persiste sincrónicamente")
}

func TestAddItem_EnElTopeDeStockDevuelveErrorYNoMuta(t *testing.T) {
	guest := &fakeGuestStore{}
	engine, _ := newTestEngine(t, newFakeGateway(), guest, &fakeIdentity{}, appcart.Options{})

	require.NoError(t, engine.AddItem(context.Background(), testLine("p1", 10, 0, 2)))
	require.NoError(t, engine.AddItem(context.Background(), testLine("p1", 10, 0, 2)))

	err := engine.AddItem(context.Background(), testLine("p1", 10, 0, 2))

	assert.ErrorIs(t, err, domain.ErrStockExceeded)
	require.Len(t, engine.Cart().Lines, 1)
	assert.Equal(t, 2, engine.Cart().Lines[0].Quantity, "el tope de stock deja el carrito intacto")
}

func TestAddItem_AutenticadoEmiteAltaDedicada(t *testing.T) {
	gw := newFakeGateway()
	engine, _ := newTestEngine(t, gw, &fakeGuestStore{}, authIdentity(), appcart.Options{Debounce: time.Hour})

	err := engine.AddItem(context.Background(), testLine("p1", 10, 0, 5))

	require.NoError(t, err)
	gw.mu.Lock()
	remote := gw.remote.Clone()
	gw.mu.Unlock()
	require.Len(t, remote.Lines, 1)
	assert.Equal(t, "p1", remote.Lines[0].ProductID)
	require.Len(t, engine.Cart().Lines, 1, "el cambio optimista sobrevive la reconciliación")
}

func TestAddItem_AltaRemotaFallidaRecuperaEstadoAutoritativo(t *testing.T) {
	gw := newFakeGateway(testLine("p9", 4, 1, 9))
	gw.addErr = errors.New("409 del backend")
	engine, _ := newTestEngine(t, gw, &fakeGuestStore{}, authIdentity(), appcart.Options{Debounce: time.Hour})

	err := engine.AddItem(context.Background(), testLine("p1", 10, 0, 5))

	require.NoError(t, err, "el fallo remoto no burbujea: se recupera por re-fetch")
	cart := engine.Cart()
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "p9", cart.Lines[0].ProductID, "el re-fetch sobrescribe el optimista fallido")
}

// ──────────────────────────────────────────────────────────────────────────────
// SetQuantity y RemoveItem
// ──────────────────────────────────────────────────────────────────────────────

func TestSetQuantity_SuperaElStockEsNoOp(t *testing.T) {
	engine, _ := newTestEngine(t, newFakeGateway(), &fakeGuestStore{}, &fakeIdentity{}, appcart.Options{})
	require.NoError(t, engine.AddItem(context.Background(), testLine("p1", 10, 0, 3)))

	err := engine.SetQuantity(context.Background(), "p1", 5, 3)

	assert.ErrorIs(t, err, domain.ErrQuantityExceedsStock)
	assert.Equal(t, 1, engine.Cart().Lines[0].Quantity, "la cantidad no cambia cuando supera el tope")
}

func TestSetQuantity_AjustaMinimoAUno(t *testing.T) {
	engine, _ := newTestEngine(t, newFakeGateway(), &fakeGuestStore{}, &fakeIdentity{}, appcart.Options{})
	require.NoError(t, engine.AddItem(context.Background(), testLine("p1", 10, 0, 5)))

	require.NoError(t, engine.SetQuantity(context.Background(), "p1", 0, 5))

	assert.Equal(t, 1, engine.Cart().Lines[0].Quantity)
}

func TestRemoveItem_InvitadoFiltraYPersiste(t *testing.T) {
	guest := &fakeGuestStore{}
	engine, _ := newTestEngine(t, newFakeGateway(), guest, &fakeIdentity{}, appcart.Options{})
	require.NoError(t, engine.AddItem(context.Background(), testLine("p1", 10, 0, 5)))
	require.NoError(t, engine.AddItem(context.Background(), testLine("p2", 5, 0, 5)))

	require.NoError(t, engine.RemoveItem(context.Background(), "p1"))

	cart := engine.Cart()
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "p2", cart.Lines[0].ProductID)

	persisted, ok, err := guest.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, persisted.Equal(cart), "el almacén invitado refleja el estado tras la remoción")
}

// ──────────────────────────────────────────────────────────────────────────────
// RemoveMany
// ──────────────────────────────────────────────────────────────────────────────

func TestRemoveMany_ReFetchFinalEsAutoritativo(t *testing.T) {
	gw := newFakeGateway(
		testLine("a", 1, 1, 9),
		testLine("b", 2, 1, 9),
		testLine("c", 3, 1, 9),
		testLine("d", 4, 1, 9),
	)
	// La remoción de "b" falla en el backend: la línea sobrevive remotamente.
	gw.removeErrs = map[string]error{"b": errors.New("500 del backend")}
	engine, _ := newTestEngine(t, gw, &fakeGuestStore{}, authIdentity(), appcart.Options{Settle: time.Millisecond})
	engine.Reload(context.Background())

	err := engine.RemoveMany(context.Background(), []string{"a", "b", "c"})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, gw.removedIDs(), "una remoción por id, en orden")

	cart := engine.Cart()
	require.Len(t, cart.Lines, 2, "el re-fetch final manda, incluso sobre el optimista")
	assert.Equal(t, "b", cart.Lines[0].ProductID)
	assert.Equal(t, "d", cart.Lines[1].ProductID)
	assert.Equal(t, appcart.StateIdle, engine.State())
}

func TestRemoveMany_ReFetchMalformadoConservaEstadoLocal(t *testing.T) {
	gw := newFakeGateway(
		testLine("a", 1, 1, 9),
		testLine("d", 4, 1, 9),
	)
	engine, _ := newTestEngine(t, gw, &fakeGuestStore{}, authIdentity(), appcart.Options{Settle: time.Millisecond})
	engine.Reload(context.Background())

	gw.mu.Lock()
	gw.fetchErr = fmt.Errorf("%w: se esperaba un arreglo", domain.ErrMalformedCart)
	gw.mu.Unlock()

	err := engine.RemoveMany(context.Background(), []string{"a"})

	require.NoError(t, err)
	cart := engine.Cart()
	require.Len(t, cart.Lines, 1, "una respuesta malformada nunca colapsa el carrito a vacío")
	assert.Equal(t, "d", cart.Lines[0].ProductID)
}

func TestRemoveMany_InvitadoFiltraLocalmente(t *testing.T) {
	guest := &fakeGuestStore{}
	engine, _ := newTestEngine(t, newFakeGateway(), guest, &fakeIdentity{}, appcart.Options{})
	require.NoError(t, engine.AddItem(context.Background(), testLine("a", 1, 0, 9)))
	require.NoError(t, engine.AddItem(context.Background(), testLine("b", 2, 0, 9)))
	require.NoError(t, engine.AddItem(context.Background(), testLine("c", 3, 0, 9)))

	require.NoError(t, engine.RemoveMany(context.Background(), []string{"a", "c"}))

	cart := engine.Cart()
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "b", cart.Lines[0].ProductID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Push debounced
// ──────────────────────────────────────────────────────────────────────────────

func TestPush_MutacionesRapidasColapsanEnUnSoloReplace(t *testing.T) {
	gw := newFakeGateway(testLine("p1", 10, 1, 9))
	engine, _ := newTestEngine(t, gw, &fakeGuestStore{}, authIdentity(), appcart.Options{Debounce: 30 * time.Millisecond})
	engine.Reload(context.Background())

	ctx := context.Background()
	require.NoError(t, engine.SetQuantity(ctx, "p1", 2, 9))
	require.NoError(t, engine.SetQuantity(ctx, "p1", 3, 9))
	require.NoError(t, engine.SetQuantity(ctx, "p1", 4, 9))

	assert.Eventually(t, func() bool {
		return gw.replaceCount() == 1
	}, time.Second, 5*time.Millisecond, "tres mutaciones rápidas producen exactamente un full-replace")

	// Tras el periodo de quietud no aparecen replaces extra.
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 1, gw.replaceCount())
}

func TestPush_SeDescartaMientrasElEstadoNoEsIdle(t *testing.T) {
	gw := newFakeGateway(testLine("p1", 10, 1, 9))
	engine, store := newTestEngine(t, gw, &fakeGuestStore{}, authIdentity(), appcart.Options{Debounce: 10 * time.Millisecond})
	engine.Reload(context.Background())

	store.SetState(appcart.StateSyncing)
	defer store.SetState(appcart.StateIdle)

	require.NoError(t, engine.SetQuantity(context.Background(), "p1", 4, 9))

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 0, gw.replaceCount(), "con la bandera Syncing tomada el push se descarta, no se encola")
}

// ──────────────────────────────────────────────────────────────────────────────
// Clear
// ──────────────────────────────────────────────────────────────────────────────

func TestClear_AutenticadoSoloVaciaSiElRemotoAcepta(t *testing.T) {
	gw := newFakeGateway(testLine("p1", 10, 1, 9))
	gw.clearErr = errors.New("backend caído")
	engine, _ := newTestEngine(t, gw, &fakeGuestStore{}, authIdentity(), appcart.Options{})
	engine.Reload(context.Background())

	err := engine.Clear(context.Background())

	require.Error(t, err)
	assert.Len(t, engine.Cart().Lines, 1, "el carrito local no se vacía si la llamada remota falla")
}

func TestClear_InvitadoVaciaYBorraLaEntradaLocal(t *testing.T) {
	guest := &fakeGuestStore{}
	engine, _ := newTestEngine(t, newFakeGateway(), guest, &fakeIdentity{}, appcart.Options{})
	require.NoError(t, engine.AddItem(context.Background(), testLine("p1", 10, 0, 5)))

	require.NoError(t, engine.Clear(context.Background()))

	assert.True(t, engine.Cart().IsEmpty())
	assert.False(t, guest.exists())
}
