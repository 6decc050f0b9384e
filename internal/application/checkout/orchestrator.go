package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ninzkie1/buildAble-sub000/internal/domain"
	domcheckout "github.com/ninzkie1/buildAble-sub000/internal/domain/checkout"
	"github.com/ninzkie1/buildAble-sub000/internal/domain/entity"
	"github.com/ninzkie1/buildAble-sub000/internal/domain/repository"
	"github.com/ninzkie1/buildAble-sub000/pkg/logger"
)

// Config URLs de retorno de la sesión de pago y espera de asentamiento tras
// podar el carrito (da tiempo a que la mutación asiente antes de que una vista
// dependiente lo relea).
type Config struct {
	SuccessURL  string
	CancelURL   string
	SettleDelay time.Duration
}

// Input entrada del checkout. ProductIDs vacío significa el carrito completo.
// Address y Payment son los colaboradores externos de este flujo.
type Input struct {
	ProductIDs []string
	Address    AddressCollector
	Payment    PaymentSelector
}

// Result resultado del checkout. RedirectURL queda vacío para contraentrega.
type Result struct {
	OrderID       string
	PaymentMethod entity.PaymentMethod
	Quote         domcheckout.Quote
	RedirectURL   string
}

// Orchestrator convierte un subconjunto de líneas del carrito (las de un
// vendedor, o todas) en una o más órdenes del backend, coordinando la
// dirección de envío y el método de pago recolectados externamente.
//
// Cualquier fallo antes de crear la orden deja el Store intacto: una creación
// parcial nunca descarta líneas silenciosamente. La poda posterior usa la ruta
// RemoveMany del motor, cuya re-consulta final es autoritativa.
type Orchestrator struct {
	engine    CartEngine
	session   Session
	orders    repository.OrderGateway
	payments  repository.PaymentGateway
	publisher repository.OrderEventPublisher // opcional; nil = desactivado
	log       *logger.Logger
	cfg       Config
}

// NewOrchestrator construye el orquestador. publisher puede ser nil.
func NewOrchestrator(
	engine CartEngine,
	session Session,
	orders repository.OrderGateway,
	payments repository.PaymentGateway,
	publisher repository.OrderEventPublisher,
	log *logger.Logger,
	cfg Config,
) *Orchestrator {
	return &Orchestrator{
		engine:    engine,
		session:   session,
		orders:    orders,
		payments:  payments,
		publisher: publisher,
		log:       log,
		cfg:       cfg,
	}
}

// SellerGroups devuelve la agrupación por vendedor del carrito actual
// (derivación pura, sin efectos).
func (o *Orchestrator) SellerGroups() []domcheckout.SellerGroup {
	return domcheckout.GroupBySeller(o.engine.Cart())
}

// QuoteAll devuelve la cotización del carrito completo con la misma fórmula
// que las cotizaciones por grupo.
func (o *Orchestrator) QuoteAll() domcheckout.Quote {
	return domcheckout.QuoteCart(o.engine.Cart())
}

// Checkout ejecuta el protocolo completo:
//
//  1. Resuelve los ítems (todo el carrito por defecto); vacío → ErrEmptyCheckout.
//  2. Exige dirección completa; si la guardada está incompleta, suspende y
//     pide al colaborador externo, persistiendo el resultado.
//  3. Calcula la cotización y espera la selección del método de pago.
//  4. Crea la orden (el id ancla es opaco; el backend puede abrirla por vendedor).
//  5. Contraentrega: poda y éxito. En línea: sesión de pago, orden pendiente,
//     poda y URL de redirección. El fallo de la sesión de pago deja el carrito
//     intacto (la orden queda para limpieza por el colaborador Payment-Failed).
func (o *Orchestrator) Checkout(ctx context.Context, in Input) (*Result, error) {
	lines := o.resolveLines(in.ProductIDs)
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCheckout
	}

	addr, err := o.resolveAddress(ctx, in.Address)
	if err != nil {
		return nil, err
	}

	quote := domcheckout.QuoteFor(lines)

	if in.Payment == nil {
		return nil, domain.ErrInvalidInput
	}
	method, err := in.Payment.Select(ctx, quote)
	if err != nil {
		return nil, err
	}
	if !method.Valid() {
		return nil, domain.ErrInvalidInput
	}

	order, err := o.orders.CreateOrder(ctx, repository.OrderRequest{
		Items:          lines,
		Address:        addr,
		PaymentMethod:  method,
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		return nil, fmt.Errorf("crear orden: %w", err)
	}

	result := &Result{
		OrderID:       order.AnchorOrderID,
		PaymentMethod: method,
		Quote:         quote,
	}
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}

	switch method {
	case entity.PaymentCashOnDelivery:
		o.prune(ctx, ids)
		o.publishPlaced(ctx, order.AnchorOrderID, lines, quote, method)
		o.settleWait(ctx)

	case entity.PaymentOnline:
		session, perr := o.payments.CreateSession(ctx, repository.PaymentSessionRequest{
			OrderID:    order.AnchorOrderID,
			Amount:     quote.Total,
			Email:      o.session.Current().Email,
			SuccessURL: o.cfg.SuccessURL,
			CancelURL:  o.cfg.CancelURL,
		})
		if perr != nil {
			return nil, fmt.Errorf("crear sesión de pago: %w", perr)
		}
		o.session.SavePendingOrder(order.AnchorOrderID)
		o.prune(ctx, ids)
		o.publishPlaced(ctx, order.AnchorOrderID, lines, quote, method)
		result.RedirectURL = session.CheckoutURL
		o.settleWait(ctx)
	}

	return result, nil
}

// resolveLines selecciona las líneas a procesar preservando el orden del
// carrito; ids desconocidos se ignoran.
func (o *Orchestrator) resolveLines(productIDs []string) []entity.CartLine {
	cart := o.engine.Cart()
	if len(productIDs) == 0 {
		return cart.Lines
	}
	want := make(map[string]struct{}, len(productIDs))
	for _, id := range productIDs {
		want[id] = struct{}{}
	}
	lines := make([]entity.CartLine, 0, len(productIDs))
	for _, l := range cart.Lines {
		if _, ok := want[l.ProductID]; ok {
			lines = append(lines, l)
		}
	}
	return lines
}

// resolveAddress devuelve la dirección guardada si está completa; si no,
// suspende el flujo pidiéndola al colaborador y la persiste en la sesión.
func (o *Orchestrator) resolveAddress(ctx context.Context, collector AddressCollector) (entity.ShippingAddress, error) {
	if addr, ok := o.session.Address(); ok && addr.IsComplete() {
		return addr, nil
	}
	if collector == nil {
		return entity.ShippingAddress{}, domain.ErrIncompleteAddress
	}
	addr, err := collector.Collect(ctx)
	if err != nil {
		return entity.ShippingAddress{}, err
	}
	if !addr.IsComplete() {
		return entity.ShippingAddress{}, domain.ErrIncompleteAddress
	}
	o.session.SaveAddress(addr)
	return addr, nil
}

// prune poda las líneas procesadas vía la ruta de remoción en lote del motor.
func (o *Orchestrator) prune(ctx context.Context, ids []string) {
	if err := o.engine.RemoveMany(ctx, ids); err != nil {
		o.log.Warn().Err(err).Msg("poda del carrito tras checkout falló")
	}
}

// publishPlaced emite el evento de orden creada; mejor esfuerzo.
func (o *Orchestrator) publishPlaced(
	ctx context.Context,
	orderID string,
	lines []entity.CartLine,
	quote domcheckout.Quote,
	method entity.PaymentMethod,
) {
	if o.publisher == nil {
		return
	}
	evt := repository.OrderPlacedEvent{
		OrderID:       orderID,
		UserID:        o.session.Current().UserID,
		Items:         lines,
		Total:         quote.Total,
		PaymentMethod: method,
		PlacedAt:      time.Now(),
	}
	if err := o.publisher.OrderPlaced(ctx, evt); err != nil {
		o.log.Warn().Err(err).Str("order_id", orderID).Msg("no se pudo publicar el evento de orden")
	}
}

// settleWait espera el asentamiento configurado respetando la cancelación.
func (o *Orchestrator) settleWait(ctx context.Context) {
	if o.cfg.SettleDelay <= 0 {
		return
	}
	t := time.NewTimer(o.cfg.SettleDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
