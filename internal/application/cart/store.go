package cart

import (
	"sync"

	"github.com/ninzkie1/buildAble-sub000/internal/domain/entity"
)

// SyncState estado de sincronización de la sesión activa. Actúa como bandera
// de exclusión mutua, no como cola: mientras está en Loading o Syncing los
// pushes debounced nuevos se descartan en lugar de encolarse.
type SyncState int

const (
	// StateIdle sin trabajo de sincronización pendiente; el carrito puede
	// leerse como definitivo.
	StateIdle SyncState = iota
	// StateLoading protocolo de carga en curso (mount o cambio de identidad).
	StateLoading
	// StateSyncing un push o una secuencia de remociones está en vuelo.
	StateSyncing
)

// String representación legible del estado.
func (s SyncState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateSyncing:
		return "syncing"
	default:
		return "idle"
	}
}

// Store lista autoritativa en memoria de las líneas del carrito de la sesión.
// Solo el motor de reconciliación y el orquestador de checkout (vía
// RemoveMany) la mutan; el resto de componentes solo lee snapshots.
type Store struct {
	mu    sync.Mutex
	cart  entity.Cart
	state SyncState
}

// NewStore crea un Store vacío en estado Idle.
func NewStore() *Store {
	return &Store{}
}

// Snapshot devuelve una copia del carrito actual.
func (s *Store) Snapshot() entity.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// Replace reemplaza el carrito completo, normalizando invariantes.
// El carrito nunca se desmonta parcialmente: siempre full-replace o full-clear.
func (s *Store) Replace(cart entity.Cart) {
	normalized := cart.Normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = normalized
}

// Clear vacía el carrito.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = entity.Cart{}
}

// Update aplica una transformación bajo lock y devuelve el snapshot resultante.
func (s *Store) Update(fn func(cart *entity.Cart)) entity.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.cart)
	s.cart = s.cart.Normalize()
	return s.cart.Clone()
}

// State devuelve el SyncState actual.
func (s *Store) State() SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetState fija el SyncState.
func (s *Store) SetState(state SyncState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// TryTransition cambia de estado solo si el actual coincide con from.
// Devuelve false si otro flujo ya tomó la bandera.
func (s *Store) TryTransition(from, to SyncState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != from {
		return false
	}
	s.state = to
	return true
}
