// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package backend

import (
	"fmt"
	"slices"
	"sync"
)

// Factory constructs a backend. Backend packages pass one to Register from
// their init function.
type Factory func() Backend

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}

	// priority is the automatic selection order. Names not listed here are
	// tried afterwards in lexical order.
	priority = []string{NameOpenGL, NameWGPU, NameSoftware}
)

// Register makes a backend available under name, replacing any earlier
// registration of the same name.
func Register(name string, f Factory) {
	mu.Lock()
	factories[name] = f
	mu.Unlock()
}

// Unregister forgets the backend registered under name.
func Unregister(name string) {
	mu.Lock()
	delete(factories, name)
	mu.Unlock()
}

// Available lists the registered backend names in lexical order.
func Available() []string {
	mu.RLock()
	defer mu.RUnlock()
	return sortedNames(func(string) bool { return true })
}

// IsRegistered reports whether name has a factory.
func IsRegistered(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	return factories[name] != nil
}

// Get builds the backend registered under name, or returns nil.
func Get(name string) Backend {
	mu.RLock()
	f := factories[name]
	mu.RUnlock()
	if f == nil {
		return nil
	}
	return f()
}

// Default builds the highest priority registered backend, or returns nil
// when nothing is registered.
func Default() Backend {
	return pick(func(Backend) bool { return true })
}

// Select returns the backend for a run. An empty name picks by priority,
// skipping windowed backends when headless is set. A named backend must be
// registered and, for a headless run, must not need a window.
func Select(name string, headless bool) (Backend, error) {
	if name == "" {
		b := pick(func(b Backend) bool { return !headless || !b.Windowed() })
		if b == nil {
			return nil, fmt.Errorf("%w: no backend registered (have %v)", ErrBackendNotAvailable, Available())
		}
		return b, nil
	}

	b := Get(name)
	if b == nil {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrBackendNotAvailable, name, Available())
	}
	if headless && b.Windowed() {
		return nil, fmt.Errorf("%w: %q", ErrNeedsWindow, name)
	}
	return b, nil
}

// pick builds candidates in selection order and returns the first one ok
// accepts.
func pick(ok func(Backend) bool) Backend {
	mu.RLock()
	order := slices.DeleteFunc(slices.Clone(priority), func(n string) bool {
		return factories[n] == nil
	})
	order = append(order, sortedNames(func(n string) bool {
		return !slices.Contains(priority, n)
	})...)
	fs := make([]Factory, len(order))
	for i, n := range order {
		fs[i] = factories[n]
	}
	mu.RUnlock()

	for _, f := range fs {
		if b := f(); b != nil && ok(b) {
			return b
		}
	}
	return nil
}

// sortedNames returns the registered names accepted by keep, sorted.
// Callers hold mu.
func sortedNames(keep func(string) bool) []string {
	var names []string
	for n := range factories {
		if keep(n) {
			names = append(names, n)
		}
	}
	slices.Sort(names)
	return names
}
