package cart

import (
	"context"
	"time"

	"github.com/ninzkie1/buildAble-sub000/internal/domain"
	"github.com/ninzkie1/buildAble-sub000/internal/domain/entity"
	"github.com/ninzkie1/buildAble-sub000/internal/domain/repository"
	"github.com/ninzkie1/buildAble-sub000/pkg/logger"
)

// Options tiempos del motor.
type Options struct {
	Debounce time.Duration // periodo de quietud del push debounced
	Settle   time.Duration // espera de asentamiento tras remociones en lote
}

// Engine es el motor de reconciliación del carrito: garantiza que el Store
// refleja la fuente de verdad correcta para la identidad actual y mantiene el
// backend eventualmente consistente con las mutaciones locales, sin bucles de
// retroalimentación.
//
// Ciclo de vida: Reload corre al montar y en cada cambio de identidad
// (suscripción al IdentityProvider). Las mutaciones aplican primero el cambio
// optimista en el Store y luego disparan la ruta de backend que corresponda.
// Las escrituras de reconciliación (sobrescritura tras re-fetch) nunca
// re-agendan pushes.
type Engine struct {
	store    *Store
	gateway  repository.CartGateway
	guest    repository.GuestCartStore
	identity repository.IdentityProvider
	sched    *Scheduler
	log      *logger.Logger
	settle   time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

// NewEngine construye el motor y lo suscribe a los cambios de identidad.
func NewEngine(
	store *Store,
	gateway repository.CartGateway,
	guest repository.GuestCartStore,
	identity repository.IdentityProvider,
	log *logger.Logger,
	opts Options,
) *Engine {
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		store:    store,
		gateway:  gateway,
		guest:    guest,
		identity: identity,
		sched:    NewScheduler(opts.Debounce),
		log:      log,
		settle:   opts.Settle,
		ctx:      ctx,
		cancel:   cancel,
	}
	identity.Subscribe(func(entity.Identity) {
		go e.Reload(e.ctx)
	})
	return e
}

// Close cancela el timer de debounce pendiente y descarta los resultados de
// llamadas en vuelo (se les permite terminar, pero el contexto dueño ya no existe).
func (e *Engine) Close() {
	e.cancel()
	e.sched.Stop()
}

// Cart devuelve un snapshot del carrito autoritativo.
func (e *Engine) Cart() entity.Cart {
	return e.store.Snapshot()
}

// State devuelve el SyncState actual ("¿es seguro leer el carrito como final?").
func (e *Engine) State() SyncState {
	return e.store.State()
}

// ── Protocolo de carga ────────────────────────────────────────────────────────

// Reload ejecuta el protocolo de carga: limpia el Store de inmediato (evita
// mostrar el carrito de una sesión anterior), resuelve la fuente de verdad
// según la identidad y deja el estado en Idle.
//
// Autenticado: fetch remoto; si existe un carrito invitado previo al login se
// fusiona por productId (quantity = max) y, si la fusión difiere del remoto,
// se empuja de vuelta antes de borrar la entrada invitada; la fusión ocurre
// como máximo una vez por login. Si el fetch falla se usa el carrito invitado
// como respaldo, sin borrarlo.
func (e *Engine) Reload(ctx context.Context) {
	e.store.SetState(StateLoading)
	e.store.Clear()
	defer e.store.SetState(StateIdle)

	id := e.identity.Current()
	if !id.Authenticated {
		guestCart, ok, err := e.guest.Load()
		if err != nil {
			e.log.Warn().Err(err).Msg("no se pudo leer el carrito invitado")
			return
		}
		if ok {
			e.store.Replace(guestCart)
		}
		return
	}

	remote, err := e.gateway.Fetch(ctx)
	if err != nil {
		// Respaldo: contenido invitado si existe, si no carrito vacío.
		if guestCart, ok, gerr := e.guest.Load(); gerr == nil && ok {
			e.store.Replace(guestCart)
		}
		e.log.Warn().Err(err).Msg("fetch del carrito remoto falló, usando respaldo local")
		return
	}

	guestCart, ok, gerr := e.guest.Load()
	if gerr != nil {
		e.log.Warn().Err(gerr).Msg("no se pudo leer el carrito invitado para la fusión")
	}
	if ok {
		merged := entity.MergeOnLogin(remote, guestCart)
		if !merged.Equal(remote) {
			if perr := e.gateway.Replace(ctx, merged); perr != nil {
				e.log.Warn().Err(perr).Msg("no se pudo empujar el carrito fusionado")
			}
		}
		if derr := e.guest.Delete(); derr != nil {
			e.log.Warn().Err(derr).Msg("no se pudo borrar la entrada invitada tras la fusión")
		}
		e.store.Replace(merged)
		return
	}

	e.store.Replace(remote)
}

// ── Protocolo de push ─────────────────────────────────────────────────────────

// schedulePush agenda un full-replace debounced del carrito actual. Mientras
// el estado es Loading o Syncing el push se descarta por completo: la mutación
// que lo disparó ya actualizó el Store y una mutación posterior re-agendará.
func (e *Engine) schedulePush() {
	if !e.identity.Current().Authenticated {
		return
	}
	if e.store.State() != StateIdle {
		return
	}
	e.sched.Schedule(func() { e.push(e.ctx) })
}

// push ejecuta el full-replace con la bandera Syncing tomada.
func (e *Engine) push(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if !e.store.TryTransition(StateIdle, StateSyncing) {
		return
	}
	defer e.store.SetState(StateIdle)

	if err := e.gateway.Replace(ctx, e.store.Snapshot()); err != nil {
		e.log.Warn().Err(err).Msg("push debounced del carrito falló")
	}
}

// ── Mutaciones ────────────────────────────────────────────────────────────────

// AddItem agrega una unidad del producto. Si la línea existe incrementa la
// cantidad, salvo que ya esté en el tope de stock: en ese caso devuelve
// domain.ErrStockExceeded y el carrito queda intacto.
//
// Autenticado: además del push debounced se emite el alta dedicada y se
// reconcilia por comparación de conjuntos de productIds: solo se sobrescribe
// el Store si los conjuntos difieren, para no pisar ediciones optimistas
// concurrentes. Si el alta falla, se re-consulta y sobrescribe para recuperar
// el estado autoritativo.
func (e *Engine) AddItem(ctx context.Context, product entity.CartLine) error {
	var stockErr error
	updated := e.store.Update(func(c *entity.Cart) {
		if line := c.Find(product.ProductID); line != nil {
			if product.StockCeiling > 0 {
				line.StockCeiling = product.StockCeiling
			}
			if line.StockCeiling > 0 && line.Quantity >= line.StockCeiling {
				stockErr = domain.ErrStockExceeded
				return
			}
			line.Quantity++
			return
		}
		product.Quantity = 1
		c.Lines = append(c.Lines, product)
	})
	if stockErr != nil {
		return stockErr
	}

	id := e.identity.Current()
	if !id.Authenticated {
		e.saveGuest(updated)
		return nil
	}

	e.schedulePush()

	if err := e.gateway.AddItem(ctx, product.ProductID, 1); err != nil {
		e.log.Warn().Err(err).Str("product_id", product.ProductID).Msg("alta remota falló, recuperando estado autoritativo")
		e.recoverFromRemote(ctx)
		return nil
	}
	remote, err := e.gateway.Fetch(ctx)
	if err != nil {
		// Mantener el estado optimista; una reconciliación posterior corrige.
		e.log.Warn().Err(err).Msg("re-fetch tras alta falló")
		return nil
	}
	if !remote.SameProductIDs(e.store.Snapshot()) {
		e.store.Replace(remote)
	}
	return nil
}

// RemoveItem elimina la línea del producto. Autenticado: remoción remota y
// luego re-fetch con sobrescritura; invitado: filtrado local sincrónico.
func (e *Engine) RemoveItem(ctx context.Context, productID string) error {
	updated := e.store.Update(func(c *entity.Cart) {
		filtered := c.Lines[:0]
		for _, l := range c.Lines {
			if l.ProductID != productID {
				filtered = append(filtered, l)
			}
		}
		c.Lines = filtered
	})

	id := e.identity.Current()
	if !id.Authenticated {
		e.saveGuest(updated)
		return nil
	}

	e.schedulePush()

	if err := e.gateway.RemoveItem(ctx, productID); err != nil {
		e.log.Warn().Err(err).Str("product_id", productID).Msg("remoción remota falló, recuperando estado autoritativo")
	}
	e.recoverFromRemote(ctx)
	return nil
}

// SetQuantity fija la cantidad de la línea. Si quantity supera stockCeiling la
// operación es un no-op y devuelve domain.ErrQuantityExceedsStock; en otro
// caso la cantidad se ajusta a [1, stockCeiling].
func (e *Engine) SetQuantity(ctx context.Context, productID string, quantity, stockCeiling int) error {
	if stockCeiling > 0 && quantity > stockCeiling {
		return domain.ErrQuantityExceedsStock
	}
	if quantity < 1 {
		quantity = 1
	}

	updated := e.store.Update(func(c *entity.Cart) {
		line := c.Find(productID)
		if line == nil {
			return
		}
		line.Quantity = quantity
		if stockCeiling > 0 {
			line.StockCeiling = stockCeiling
		}
	})

	id := e.identity.Current()
	if !id.Authenticated {
		e.saveGuest(updated)
		return nil
	}

	e.schedulePush()

	if err := e.gateway.SetQuantity(ctx, productID, quantity); err != nil {
		e.log.Warn().Err(err).Str("product_id", productID).Msg("actualización remota de cantidad falló, recuperando estado autoritativo")
		e.recoverFromRemote(ctx)
	}
	return nil
}

// RemoveMany elimina varias líneas como una sola operación desde el punto de
// vista del usuario. Existe específicamente para el checkout.
//
// Autenticado: eleva el estado a Syncing durante toda la secuencia para que el
// pusher debounced no intercale un full-replace obsoleto entre las remociones
// individuales; emite una remoción por id en orden, espera el asentamiento,
// re-consulta una sola vez y solo sobrescribe el Store si la respuesta es un
// arreglo bien formado: nunca colapsa a vacío ante una respuesta malformada.
func (e *Engine) RemoveMany(ctx context.Context, productIDs []string) error {
	drop := make(map[string]struct{}, len(productIDs))
	for _, id := range productIDs {
		drop[id] = struct{}{}
	}
	updated := e.store.Update(func(c *entity.Cart) {
		filtered := c.Lines[:0]
		for _, l := range c.Lines {
			if _, gone := drop[l.ProductID]; !gone {
				filtered = append(filtered, l)
			}
		}
		c.Lines = filtered
	})

	id := e.identity.Current()
	if !id.Authenticated {
		e.saveGuest(updated)
		return nil
	}

	e.store.SetState(StateSyncing)
	defer e.store.SetState(StateIdle)
	// Un push ya agendado tampoco debe intercalarse.
	e.sched.Cancel()

	for _, pid := range productIDs {
		if err := e.gateway.RemoveItem(ctx, pid); err != nil {
			// Continuar: el re-fetch final es autoritativo.
			e.log.Warn().Err(err).Str("product_id", pid).Msg("remoción individual falló durante la remoción en lote")
		}
	}

	e.wait(ctx, e.settle)

	remote, err := e.gateway.Fetch(ctx)
	if err != nil {
		// Conservar el último estado optimista conocido.
		e.log.Warn().Err(err).Msg("re-fetch tras remoción en lote falló, conservando estado local")
		return nil
	}
	e.store.Replace(remote)
	return nil
}

// Clear vacía el carrito. Autenticado: se vacía el Store solo si la llamada
// remota tiene éxito; invitado: limpieza local directa.
func (e *Engine) Clear(ctx context.Context) error {
	id := e.identity.Current()
	if !id.Authenticated {
		e.store.Clear()
		if err := e.guest.Delete(); err != nil {
			e.log.Warn().Err(err).Msg("no se pudo borrar el carrito invitado")
		}
		return nil
	}
	if err := e.gateway.Clear(ctx); err != nil {
		return err
	}
	e.store.Clear()
	return nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// recoverFromRemote re-consulta el carrito autoritativo y sobrescribe el
// estado local. Si la re-consulta también falla se conserva el último estado
// optimista conocido en lugar de bloquear.
func (e *Engine) recoverFromRemote(ctx context.Context) {
	remote, err := e.gateway.Fetch(ctx)
	if err != nil {
		e.log.Warn().Err(err).Msg("re-fetch de recuperación falló, conservando estado optimista")
		return
	}
	e.store.Replace(remote)
}

// saveGuest escribe el carrito invitado de forma síncrona (sin debounce ni red).
func (e *Engine) saveGuest(cart entity.Cart) {
	if err := e.guest.Save(cart); err != nil {
		e.log.Warn().Err(err).Msg("no se pudo persistir el carrito invitado")
	}
}

// wait duerme la espera indicada respetando la cancelación del contexto.
func (e *Engine) wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
