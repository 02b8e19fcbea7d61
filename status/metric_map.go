package status

import (
	"maps"
	"slices"
	"sync"
)

// MetricMap hands out one stable *T per key
// Components fetch their pointers once at construction and then update them
// without touching the map again
type MetricMap[T any] struct {
	mu    sync.Mutex
	byKey map[string]*T
}

func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{byKey: make(map[string]*T)}
}

// Get returns the pointer registered under key, allocating it on first use
func (m *MetricMap[T]) Get(key string) *T {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.byKey[key]
	if !ok {
		p = new(T)
		m.byKey[key] = p
	}
	return p
}

// Keys returns every registered key in sorted order
func (m *MetricMap[T]) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Sorted(maps.Keys(m.byKey))
}

// Range visits every metric in key order
// fn runs without the map lock, so it may call Get
func (m *MetricMap[T]) Range(fn func(key string, ptr *T)) {
	for _, k := range m.Keys() {
		fn(k, m.Get(k))
	}
}

func (m *MetricMap[T]) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byKey)
}
