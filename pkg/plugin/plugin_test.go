// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package plugin_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aqserr "github.com/odahub/renku-aqs/pkg/errors"
	"github.com/odahub/renku-aqs/pkg/plugin"
)

func validManifest() plugin.Manifest {
	return plugin.DefaultManifest("1.0.0")
}

func TestManifestValidate(t *testing.T) {
	require.NoError(t, func() *plugin.Manifest { m := validManifest(); return &m }().Validate())

	tests := []struct {
		name    string
		mutate  func(m *plugin.Manifest)
		wantMsg string
	}{
		{"empty name", func(m *plugin.Manifest) { m.Name = " " }, "name must not be empty"},
		{"uppercase name", func(m *plugin.Manifest) { m.Name = "Renku" }, "lowercase"},
		{"missing version", func(m *plugin.Manifest) { m.Version = "" }, "version must not be empty"},
		{"v prefix", func(m *plugin.Manifest) { m.Version = "v1.0.0" }, "semver"},
		{"no hooks", func(m *plugin.Manifest) { m.Hooks = nil }, "at least one hook"},
		{"unknown hook", func(m *plugin.Manifest) { m.Hooks = []plugin.Hook{"post_run"} }, "unknown hook"},
		{"duplicate hook", func(m *plugin.Manifest) {
			m.Hooks = []plugin.Hook{plugin.HookPreRun, plugin.HookPreRun}
		}, "duplicate hook"},
		{"missing dir", func(m *plugin.Manifest) { m.Annotations.Dir = "" }, "annotations.dir is required"},
		{"escaping dir", func(m *plugin.Manifest) { m.Annotations.Dir = "../outside" }, "inside the renku home"},
		{"absolute dir", func(m *plugin.Manifest) { m.Annotations.Dir = "/tmp/aqs" }, "inside the renku home"},
		{"bad glob", func(m *plugin.Manifest) { m.Annotations.Patterns = []string{"[*.json"} }, "malformed glob"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validManifest()
			tt.mutate(&m)
			err := m.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.True(t, aqserr.HasCode(err, aqserr.CodePluginManifestValidateInvalid))
		})
	}
}

func TestManifest_PreRunOnlyNeedsNoDir(t *testing.T) {
	m := validManifest()
	m.Hooks = []plugin.Hook{plugin.HookPreRun}
	m.Annotations = plugin.AnnotationConfig{}
	assert.NoError(t, m.Validate())
}

func TestManifest_RoundTrip(t *testing.T) {
	m := validManifest()
	data, err := m.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "process_run_annotations")

	got, err := plugin.ParseManifest(data)
	require.NoError(t, err)
	assert.Equal(t, m, *got)
}

func TestParseManifest_RejectsUnknownKeys(t *testing.T) {
	_, err := plugin.ParseManifest([]byte("name: renku-aqs\nversion: 1.0.0\nhooks: [pre_run]\ntier: wasm\n"))
	require.Error(t, err)
	assert.True(t, aqserr.HasCode(err, aqserr.CodePluginManifestValidateInvalid))
}

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plugin.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: renku-aqs
version: 0.3.1
hooks:
  - process_run_annotations
annotations:
  dir: aqs/common
  patterns: ["*.jsonld"]
`), 0o600))

	m, err := plugin.LoadManifest(path)
	require.NoError(t, err)
	assert.True(t, m.Implements(plugin.HookProcessRunAnnotations))
	assert.False(t, m.Implements(plugin.HookPreRun))

	_, err = plugin.LoadManifest(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
