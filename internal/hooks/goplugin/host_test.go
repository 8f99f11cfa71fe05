// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package goplugin_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odahub/renku-aqs/internal/hooks"
	"github.com/odahub/renku-aqs/internal/hooks/goplugin"
	aqserr "github.com/odahub/renku-aqs/pkg/errors"
	aqsplugin "github.com/odahub/renku-aqs/pkg/plugin"
)

func TestHost_HandshakeConfig(t *testing.T) {
	config := goplugin.HandshakeConfig()
	assert.NotEmpty(t, config.ProtocolVersion)
	assert.Equal(t, "RENKU_AQS_PLUGIN", config.MagicCookieKey)
	assert.NotEmpty(t, config.MagicCookieValue)
}

func TestHost_ClientConfig(t *testing.T) {
	args := make([]string, 2, 10)
	args[0], args[1] = "hooks", "serve"

	config := goplugin.ClientConfig("/nonexistent/renku-aqs", args...)
	assert.Equal(t, "/nonexistent/renku-aqs", config.Cmd.Path)
	assert.Equal(t, []string{"/nonexistent/renku-aqs", "hooks", "serve"}, config.Cmd.Args)
	assert.Equal(t, []plugin.Protocol{plugin.ProtocolNetRPC}, config.AllowedProtocols)
	_, ok := config.Plugins[goplugin.HooksPlugin]
	assert.True(t, ok)
}

func dispense(t *testing.T, impl aqsplugin.Hooks) aqsplugin.Hooks {
	t.Helper()
	client, _ := plugin.TestPluginRPCConn(t, goplugin.PluginMap(impl), nil)
	t.Cleanup(func() { _ = client.Close() })

	raw, err := client.Dispense(goplugin.HooksPlugin)
	require.NoError(t, err)
	h, ok := raw.(aqsplugin.Hooks)
	require.True(t, ok)
	return h
}

func TestHooksOverRPC(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "aqs")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	impl := hooks.New(hooks.Options{
		ShimPath:       filepath.Join(root, "sitecustomize.py"),
		AnnotationsDir: dir,
	})
	remote := dispense(t, impl)
	ctx := context.Background()

	require.NoError(t, remote.PreRun(ctx, aqsplugin.Tool{Command: []string{"python"}}))
	assert.FileExists(t, impl.ShimPath())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "run.jsonld"),
		[]byte(`{"@id": "r1", "http://odahub.io/ontology#isUsing": {"@id": "odas:SimbadClass"}}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zz.jsonld"), []byte(`[]`), 0o600))

	got, err := remote.ProcessRunAnnotations(ctx, aqsplugin.Run{ActivityID: "act"})
	require.Error(t, err)
	assert.True(t, aqserr.HasCode(err, aqserr.CodeAnnotationFileInvalidFormat))
	require.Len(t, got, 1)
	assert.Equal(t, "act/annotations/aqs/r1", got[0].ID)
	nested, ok := got[0].Body["http://odahub.io/ontology#isUsing"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "odas:SimbadClass", nested["@id"])
	assert.NoFileExists(t, impl.ShimPath())
}

type failingHooks struct{}

func (failingHooks) PreRun(context.Context, aqsplugin.Tool) error {
	return aqserr.New(aqserr.CodeAnnotationShimWriteFailure, "read-only filesystem")
}

func (failingHooks) ProcessRunAnnotations(context.Context, aqsplugin.Run) ([]aqsplugin.Annotation, error) {
	return nil, nil
}

func TestHooksOverRPC_Error(t *testing.T) {
	remote := dispense(t, failingHooks{})

	err := remote.PreRun(context.Background(), aqsplugin.Tool{})
	require.Error(t, err)
	assert.True(t, aqserr.HasCode(err, aqserr.CodePluginRuntimeCallFailure))
	assert.Contains(t, err.Error(), "read-only filesystem")
}
