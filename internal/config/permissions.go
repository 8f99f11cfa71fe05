// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

//go:build !windows

package config

import (
	"io/fs"
	"log/slog"
	"os"
)

// WarnInsecurePermissions logs a warning when the config file at path holds
// a plaintext provenance password and is readable by group or others.
// It never fails.
func WarnInsecurePermissions(path string, cfg *Config) {
	if path == "" || cfg == nil || !cfg.HasPlaintextPassword() {
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		slog.Debug("could not stat config file for permission check", "path", path, "error", err)
		return
	}

	const groupOrOtherRead fs.FileMode = 0o044
	if mode := info.Mode(); mode.Perm()&groupOrOtherRead != 0 {
		slog.Warn("config file with a plaintext password has insecure permissions",
			"path", path,
			"mode", mode,
			"recommended", "0600",
			"hint", "store the password with `renku-aqs secret set` and use a keyring:// reference",
		)
	}
}
