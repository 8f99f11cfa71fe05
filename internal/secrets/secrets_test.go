// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package secrets_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/odahub/renku-aqs/internal/secrets"
	aqserr "github.com/odahub/renku-aqs/pkg/errors"
)

func init() {
	keyring.MockInit()
}

func TestKeyringStore(t *testing.T) {
	ks := secrets.NewKeyringStore()

	require.NoError(t, ks.Set("svc-roundtrip", "provenance", "s3cret"))
	val, err := ks.Get("svc-roundtrip", "provenance")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", val)

	require.NoError(t, ks.Delete("svc-roundtrip", "provenance"))
	_, err = ks.Get("svc-roundtrip", "provenance")
	assert.True(t, aqserr.HasCode(err, aqserr.CodeSecretNotFound))

	err = ks.Delete("svc-roundtrip", "provenance")
	assert.True(t, aqserr.IsNotFound(err))
}

func TestKeyringStore_EmptyRef(t *testing.T) {
	ks := secrets.NewKeyringStore()
	for _, err := range []error{
		ks.Set("", "k", "v"),
		ks.Delete("svc", ""),
		func() error { _, err := ks.Get("", ""); return err }(),
	} {
		require.Error(t, err)
		assert.True(t, aqserr.IsInvalidInput(err))
	}
}

func TestParseURI(t *testing.T) {
	tests := []struct {
		uri         string
		wantService string
		wantKey     string
		wantErr     bool
	}{
		{"keyring://renku-aqs/provenance", "renku-aqs", "provenance", false},
		{"keyring://renku-aqs/graphs/prod", "renku-aqs", "graphs/prod", false},
		{"keyring://", "", "", true},
		{"keyring://renku-aqs", "", "", true},
		{"keyring:///key", "", "", true},
		{"vault://renku-aqs/key", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			service, key, err := secrets.ParseURI(tt.uri)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, aqserr.HasCode(err, aqserr.CodeSecretInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantService, service)
			assert.Equal(t, tt.wantKey, key)
		})
	}
	assert.Equal(t, "keyring://a/b", secrets.URI("a", "b"))
}

func TestResolve(t *testing.T) {
	ks := secrets.NewKeyringStore()
	require.NoError(t, ks.Set("svc-resolve", "pw", "hunter2"))

	got, err := secrets.Resolve(ks, "plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", got)

	got, err = secrets.Resolve(ks, "keyring://svc-resolve/pw")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", got)

	_, err = secrets.Resolve(ks, "keyring://svc-resolve/missing")
	require.Error(t, err)
	assert.True(t, aqserr.HasCode(err, aqserr.CodeSecretNotFound) || aqserr.HasCode(err, aqserr.CodeSecretResolveFailure))
}
