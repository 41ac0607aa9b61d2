package mockapi

import (
	"sync"

	"github.com/casebridge/casebridge/internal/domain"
)

// memory keeps appointments in insertion order.
type memory struct {
	mu    sync.RWMutex
	byID  map[string]domain.Appointment
	order []string
}

func newMemory() *memory {
	return &memory{byID: make(map[string]domain.Appointment)}
}

func (m *memory) put(a domain.Appointment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[a.ID]; !ok {
		m.order = append(m.order, a.ID)
	}
	m.byID[a.ID] = a
}

func (m *memory) get(id string) (domain.Appointment, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.byID[id]
	return a, ok
}

func (m *memory) list(keep func(domain.Appointment) bool) []domain.Appointment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Appointment, 0, len(m.order))
	for _, id := range m.order {
		if a := m.byID[id]; keep(a) {
			out = append(out, a)
		}
	}
	return out
}

// update applies fn to the stored record under the write lock. fn's error is
// returned and nothing is stored.
func (m *memory) update(id string, fn func(*domain.Appointment) error) (domain.Appointment, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return domain.Appointment{}, false, nil
	}
	if err := fn(&a); err != nil {
		return domain.Appointment{}, true, err
	}
	m.byID[id] = a
	return a, true, nil
}
