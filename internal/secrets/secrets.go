// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

// Package secrets keeps endpoint credentials out of config files. Config
// values of the form keyring://service/key are looked up in the OS keyring.
package secrets

// DefaultService is the keyring service used by `renku-aqs secret`.
const DefaultService = "renku-aqs"

// Store reads and writes secrets by service and key.
type Store interface {
	Set(service, key, value string) error
	// Get returns an error with code secret.get.not_found for unknown keys.
	Get(service, key string) (string, error)
	Delete(service, key string) error
}
