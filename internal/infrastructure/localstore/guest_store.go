package localstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/ninzkie1/buildAble-sub000/internal/domain/entity"
)

// GuestStore persiste el carrito de sesiones no autenticadas como un archivo
// JSON bajo una ruta bien conocida (análogo durable del almacenamiento local
// del navegador). Las escrituras son síncronas en cada mutación invitada; la
// entrada se borra tras fusionarse en un carrito autenticado.
//
// El filesystem es un afero.Fs: OsFs en producción, MemMapFs en tests.
type GuestStore struct {
	mu   sync.Mutex
	fs   afero.Fs
	path string
}

// NewGuestStore construye el store sobre el filesystem indicado.
func NewGuestStore(fs afero.Fs, path string) *GuestStore {
	return &GuestStore{fs: fs, path: path}
}

// Load devuelve el carrito invitado y si existe una entrada. Un archivo
// ilegible o corrupto se reporta como error; el motor decide el respaldo.
func (s *GuestStore) Load() (entity.Cart, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return entity.Cart{}, false, nil
		}
		return entity.Cart{}, false, fmt.Errorf("guest store: leer %s: %w", s.path, err)
	}

	var lines []entity.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return entity.Cart{}, false, fmt.Errorf("guest store: carrito invitado corrupto: %w", err)
	}
	return entity.Cart{Lines: lines}, true, nil
}

// Save serializa el carrito invitado de forma síncrona.
func (s *GuestStore) Save(cart entity.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := cart.Lines
	if lines == nil {
		lines = []entity.CartLine{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("guest store: serializar carrito: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("guest store: crear directorio %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(s.fs, s.path, raw, 0o600); err != nil {
		return fmt.Errorf("guest store: escribir %s: %w", s.path, err)
	}
	return nil
}

// Delete elimina la entrada; que no exista no es error.
func (s *GuestStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fs.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("guest store: borrar %s: %w", s.path, err)
	}
	return nil
}
