package cart

import (
	"sync"
	"time"
)

// Scheduler debounce con un único timer pendiente: cada Schedule cancela el
// anterior y re-arma, de modo que mutaciones rápidas sucesivas colapsan en un
// solo disparo tras el periodo de quietud. Stop se usa en el teardown del
// componente dueño.
type Scheduler struct {
	mu      sync.Mutex
	quiet   time.Duration
	timer   *time.Timer
	stopped bool
}

// NewScheduler crea un scheduler con el periodo de quietud indicado.
func NewScheduler(quiet time.Duration) *Scheduler {
	return &Scheduler{quiet: quiet}
}

// Schedule agenda fn tras el periodo de quietud, cancelando cualquier disparo
// pendiente. fn corre en su propia goroutine.
func (s *Scheduler) Schedule(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.quiet, fn)
}

// Cancel descarta el disparo pendiente, si lo hay.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Stop cancela el disparo pendiente y rechaza agendados futuros.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
