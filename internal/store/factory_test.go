// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package store_test

import (
	"path/filepath"
	"testing"

	"github.com/odahub/renku-aqs/internal/rdfgraph"
	"github.com/odahub/renku-aqs/internal/store"
	_ "github.com/odahub/renku-aqs/internal/store/sqlite" // register sqlite backend
	aqserr "github.com/odahub/renku-aqs/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGraphStore_DefaultsToMemory(t *testing.T) {
	st, err := store.NewGraphStore(&store.StorageConfig{})
	require.NoError(t, err)
	defer st.Close()

	_, ok := st.(*rdfgraph.Memory)
	assert.True(t, ok)
}

func TestNewGraphStore_SQLite(t *testing.T) {
	cfg := &store.StorageConfig{
		Backend: "sqlite",
		Path:    filepath.Join(t.TempDir(), "graph.db"),
	}

	st, err := store.NewGraphStore(cfg)
	require.NoError(t, err)
	defer st.Close()

	st.Add(rdfgraph.T(rdfgraph.IRI("urn:a"), rdfgraph.RDFType, rdfgraph.SchemaAction))
	assert.Equal(t, 1, st.Len())
	assert.NoError(t, st.Err())
}

func TestNewGraphStore_UnknownBackend(t *testing.T) {
	_, err := store.NewGraphStore(&store.StorageConfig{Backend: "unknown"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown")
	assert.True(t, aqserr.HasCode(err, aqserr.CodeStoreBackendUnsupported))
}

func TestBackends(t *testing.T) {
	assert.Subset(t, store.Backends(), []string{"memory", "sqlite"})
}
