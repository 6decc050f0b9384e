package identity

import (
	"fmt"
	"sync"

	"github.com/ninzkie1/buildAble-sub000/internal/domain/entity"
	pkgjwt "github.com/ninzkie1/buildAble-sub000/pkg/jwt"
)

// SessionManager mantiene el contexto de la sesión activa: identidad,
// dirección de envío persistida y orden pendiente de pago. Es el
// IdentityProvider del motor (notifica en login/logout) y el Session del
// orquestador. El daemon es de sesión única; el multi-tenant es asunto del
// backend.
type SessionManager struct {
	mu        sync.Mutex
	jwtSecret string

	identity     entity.Identity
	address      *entity.ShippingAddress
	pendingOrder string

	subs []func(entity.Identity)
}

// NewSessionManager construye el manejador de sesión en estado invitado.
func NewSessionManager(jwtSecret string) *SessionManager {
	return &SessionManager{jwtSecret: jwtSecret}
}

// Current devuelve la identidad actual.
func (m *SessionManager) Current() entity.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.identity
}

// Token devuelve el bearer token de la sesión, o vacío en sesión invitada.
// Implementa backendapi.TokenSource.
func (m *SessionManager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.identity.Token
}

// Login valida el token de sesión, fija la identidad y notifica a los
// suscriptores (dispara la recarga del carrito).
func (m *SessionManager) Login(token string) error {
	userID, email, err := pkgjwt.Parse(m.jwtSecret, token)
	if err != nil {
		return fmt.Errorf("sesión: token inválido: %w", err)
	}

	m.mu.Lock()
	m.identity = entity.Identity{
		Authenticated: true,
		Token:         token,
		UserID:        userID,
		Email:         email,
	}
	m.mu.Unlock()

	m.notify()
	return nil
}

// Logout limpia la identidad y el resto del contexto de sesión (dirección y
// orden pendiente: el carrito se reemplaza por completo para no ver el de
// otra sesión) y notifica.
func (m *SessionManager) Logout() {
	m.mu.Lock()
	m.identity = entity.Identity{}
	m.address = nil
	m.pendingOrder = ""
	m.mu.Unlock()

	m.notify()
}

// Subscribe registra un listener de cambios de identidad.
func (m *SessionManager) Subscribe(fn func(entity.Identity)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// Address devuelve la dirección de envío guardada, si hay.
func (m *SessionManager) Address() (entity.ShippingAddress, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.address == nil {
		return entity.ShippingAddress{}, false
	}
	return *m.address, true
}

// SaveAddress persiste la dirección validada en la sesión.
func (m *SessionManager) SaveAddress(addr entity.ShippingAddress) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.address = &addr
}

// SavePendingOrder registra la orden pendiente de pago en línea.
func (m *SessionManager) SavePendingOrder(orderID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pendingOrder = orderID
}

// PendingOrder devuelve la orden pendiente de pago, si hay.
func (m *SessionManager) PendingOrder() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pendingOrder, m.pendingOrder != ""
}

// notify invoca los listeners fuera del lock.
func (m *SessionManager) notify() {
	m.mu.Lock()
	id := m.identity
	subs := make([]func(entity.Identity), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(id)
	}
}
