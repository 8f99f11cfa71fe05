// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odahub/renku-aqs/internal/render"
	"github.com/odahub/renku-aqs/pkg/types"
)

type fakeRenderer struct{ err error }

func (f fakeRenderer) Render(_ context.Context, dot []byte, _ types.ImageFormat, path string) error {
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(path, dot, 0o600)
}

func useRenderer(t *testing.T, r render.Renderer) {
	t.Helper()
	old := rendererFactory
	rendererFactory = func() render.Renderer { return r }
	t.Cleanup(func() { rendererFactory = old })
}

func TestDoctor_RunsAllChecks(t *testing.T) {
	useRenderer(t, fakeRenderer{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/sparql-results+json")
		_, _ = w.Write([]byte(`{"boolean": true}`))
	}))
	t.Cleanup(srv.Close)

	graph := filepath.Join(t.TempDir(), "provenance.json")
	require.NoError(t, os.WriteFile(graph, []byte("{}"), 0o600))
	t.Setenv("RENKU_AQS_PROVENANCE_ENDPOINT", srv.URL)
	t.Setenv("RENKU_AQS_PROVENANCE_GRAPH_PATH", graph)
	t.Setenv("RENKU_AQS_DISPLAY_FILENAME", filepath.Join(t.TempDir(), "graph.png"))

	out, err := execute(t, "", "doctor")
	require.NoError(t, err)

	for _, name := range []string{"Binary:", "Config:", "Provenance graph:", "Endpoint:", "Renderer:", "Annotations:", "Disk Space:"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "reachable at "+srv.URL)
	assert.Contains(t, out, "graphviz available")
	assert.Contains(t, out, "no annotations directory")
}

func TestDoctor_Unconfigured(t *testing.T) {
	useRenderer(t, fakeRenderer{})
	t.Setenv("RENKU_AQS_PROVENANCE_GRAPH_PATH", filepath.Join(t.TempDir(), "absent.json"))

	out, err := execute(t, "", "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "provenance.endpoint is not set")
	assert.Contains(t, out, "renku graph generate")
}

func TestDoctor_InvalidConfig(t *testing.T) {
	t.Setenv("RENKU_AQS_STORAGE_BACKEND", "bolt")

	out, err := execute(t, "", "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "storage.backend")
	assert.NotContains(t, out, "Endpoint:")
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 bytes", formatBytes(512))
	assert.Equal(t, "1.5 MB", formatBytes(3*512*1024))
	assert.Equal(t, "2.0 GB", formatBytes(2*1024*1024*1024))
}
