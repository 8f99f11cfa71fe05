// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package secrets

import (
	"strings"

	aqserr "github.com/odahub/renku-aqs/pkg/errors"
)

const scheme = "keyring://"

// IsURI reports whether value uses the keyring:// scheme.
func IsURI(value string) bool {
	return strings.HasPrefix(value, scheme)
}

// URI formats a keyring reference.
func URI(service, key string) string {
	return scheme + service + "/" + key
}

// ParseURI splits keyring://service/key. The key may contain slashes.
func ParseURI(uri string) (service, key string, err error) {
	if !IsURI(uri) {
		return "", "", aqserr.Errorf(aqserr.CodeSecretInvalidInput, "not a keyring URI: %q", uri)
	}
	service, key, ok := strings.Cut(strings.TrimPrefix(uri, scheme), "/")
	if !ok || service == "" || key == "" {
		return "", "", aqserr.Errorf(aqserr.CodeSecretInvalidInput,
			"invalid keyring URI %q: expected keyring://service/key", uri)
	}
	return service, key, nil
}

// Resolve returns value itself unless it is a keyring URI, in which case the
// referenced secret is returned.
func Resolve(store Store, value string) (string, error) {
	if !IsURI(value) {
		return value, nil
	}
	service, key, err := ParseURI(value)
	if err != nil {
		return "", err
	}
	secret, err := store.Get(service, key)
	if err != nil {
		return "", aqserr.Wrapf(err, aqserr.CodeSecretResolveFailure, "resolving %s", value)
	}
	return secret, nil
}
