// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package secrets

import (
	"errors"

	"github.com/zalando/go-keyring"

	aqserr "github.com/odahub/renku-aqs/pkg/errors"
)

// KeyringStore implements Store on the OS keyring: Keychain on macOS,
// secret-service on Linux and Credential Manager on Windows.
type KeyringStore struct{}

func NewKeyringStore() *KeyringStore {
	return &KeyringStore{}
}

func checkRef(op, service, key string) error {
	if service == "" || key == "" {
		return aqserr.Errorf(aqserr.CodeSecretInvalidInput, "secret %s: service and key must not be empty", op)
	}
	return nil
}

func (s *KeyringStore) Set(service, key, value string) error {
	if err := checkRef("set", service, key); err != nil {
		return err
	}
	if err := keyring.Set(service, key, value); err != nil {
		return aqserr.Wrapf(err, aqserr.CodeSecretStoreFailure, "storing secret %s/%s", service, key)
	}
	return nil
}

func (s *KeyringStore) Get(service, key string) (string, error) {
	if err := checkRef("get", service, key); err != nil {
		return "", err
	}
	val, err := keyring.Get(service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", aqserr.Errorf(aqserr.CodeSecretNotFound, "secret %s/%s not found", service, key)
	}
	if err != nil {
		return "", aqserr.Wrapf(err, aqserr.CodeSecretStoreFailure, "retrieving secret %s/%s", service, key)
	}
	return val, nil
}

func (s *KeyringStore) Delete(service, key string) error {
	if err := checkRef("delete", service, key); err != nil {
		return err
	}
	err := keyring.Delete(service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return aqserr.Errorf(aqserr.CodeSecretNotFound, "secret %s/%s not found", service, key)
	}
	if err != nil {
		return aqserr.Wrapf(err, aqserr.CodeSecretStoreFailure, "deleting secret %s/%s", service, key)
	}
	return nil
}
