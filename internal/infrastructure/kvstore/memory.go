package kvstore

import (
	"maps"
	"sync"
)

// Memory is a process-local Store.
type Memory[V any] struct {
	mu   sync.Mutex
	data map[string]V
}

func NewMemory[V any]() *Memory[V] {
	return &Memory[V]{data: make(map[string]V)}
}

func (m *Memory[V]) Update(fn func(map[string]V) (bool, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	work := maps.Clone(m.data)
	changed, err := fn(work)
	if err != nil {
		return err
	}
	if changed {
		m.data = work
	}
	return nil
}

func (m *Memory[V]) View(fn func(map[string]V) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.data)
}
