// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package store

import (
	"sort"
	"sync"

	"github.com/odahub/renku-aqs/internal/rdfgraph"
	aqserr "github.com/odahub/renku-aqs/pkg/errors"
)

// GraphStoreFactory creates an empty triple store. Stores are scratch space
// for a single invocation, so factories must not return leftover triples.
type GraphStoreFactory func(path string) (rdfgraph.Store, error)

var (
	factories   = map[string]GraphStoreFactory{}
	factoriesMu sync.RWMutex
)

func init() {
	RegisterBackend("memory", func(string) (rdfgraph.Store, error) {
		return rdfgraph.NewMemory(), nil
	})
}

// RegisterBackend registers a factory for a named storage backend.
// Backend packages call this from init(). This function is goroutine-safe.
func RegisterBackend(name string, factory GraphStoreFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = factory
}

// Backends lists the registered backend names.
func Backends() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// resolveBackend returns the effective backend name, defaulting to "memory".
func resolveBackend(cfg *StorageConfig) string {
	if cfg == nil || cfg.Backend == "" {
		return "memory"
	}
	return cfg.Backend
}

// NewGraphStore creates the triple store used by the display pipeline.
func NewGraphStore(cfg *StorageConfig) (rdfgraph.Store, error) {
	backend := resolveBackend(cfg)

	factoriesMu.RLock()
	factory, ok := factories[backend]
	factoriesMu.RUnlock()
	if !ok {
		return nil, aqserr.Errorf(aqserr.CodeStoreBackendUnsupported, "unsupported storage backend: %q", backend)
	}

	path := ""
	if cfg != nil {
		path = cfg.Path
	}
	return factory(path)
}
