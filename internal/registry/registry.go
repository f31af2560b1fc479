// Package registry trzyma tabele referencyjne zbudowane na starcie eksportu.
package registry

import (
	"strings"
	"sync"
)

// Resolver – widok tylko do odczytu, przekazywany do buildera
type Resolver interface {
	Get(key string) (any, bool)
}

type Registry struct {
	mu    sync.RWMutex
	items map[string]any
}

func New() *Registry {
	return &Registry{items: map[string]any{}}
}

// Set rejestruje wartość pod kluczem (lowercase). Pierwszy zapis wygrywa,
// zwraca false gdy klucz był już zajęty.
func (r *Registry) Set(key string, value any) bool {
	key = strings.ToLower(key)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[key]; ok {
		return false
	}
	r.items[key] = value
	return true
}

func (r *Registry) Get(key string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.items[strings.ToLower(key)]
	return v, ok
}

func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.items))
	for k := range r.items {
		out = append(out, k)
	}
	return out
}

// Lookup zwraca wartość o konkretnym typie; zły typ traktujemy jak brak
func Lookup[T any](r Resolver, key string) (T, bool) {
	var zero T
	if r == nil {
		return zero, false
	}
	v, ok := r.Get(key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}
