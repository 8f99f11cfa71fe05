// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package plugin

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	aqserr "github.com/odahub/renku-aqs/pkg/errors"
)

// semverRe matches strict semver (no "v" prefix): MAJOR.MINOR.PATCH[-prerelease][+build].
var semverRe = regexp.MustCompile(
	`^(?:0|[1-9]\d*)\.(?:0|[1-9]\d*)\.(?:0|[1-9]\d*)` +
		`(?:-(?:[0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?` +
		`(?:\+(?:[0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?$`,
)

var nameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

var knownHooks = map[Hook]bool{
	HookPreRun:                true,
	HookProcessRunAnnotations: true,
}

// Validate returns the first problem found in the manifest, or nil.
func (m *Manifest) Validate() error {
	for _, check := range []func() error{
		m.validateName,
		m.validateVersion,
		m.validateHooks,
		m.validateAnnotations,
	} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return aqserr.Errorf(aqserr.CodePluginManifestValidateInvalid, "manifest validation: "+format, args...)
}

func (m *Manifest) validateName() error {
	if strings.TrimSpace(m.Name) == "" {
		return invalid("name must not be empty")
	}
	if !nameRe.MatchString(m.Name) {
		return invalid("name must be lowercase alphanumeric with dashes, got %q", m.Name)
	}
	return nil
}

func (m *Manifest) validateVersion() error {
	if m.Version == "" {
		return invalid("version must not be empty")
	}
	if !semverRe.MatchString(m.Version) {
		return invalid("version must be valid semver (MAJOR.MINOR.PATCH), got %q", m.Version)
	}
	return nil
}

func (m *Manifest) validateHooks() error {
	if len(m.Hooks) == 0 {
		return invalid("at least one hook is required")
	}
	seen := make(map[Hook]bool, len(m.Hooks))
	for i, h := range m.Hooks {
		if !knownHooks[h] {
			return invalid("hooks[%d]: unknown hook %q", i, h)
		}
		if seen[h] {
			return invalid("hooks[%d]: duplicate hook %q", i, h)
		}
		seen[h] = true
	}
	return nil
}

func (m *Manifest) validateAnnotations() error {
	if !m.Implements(HookProcessRunAnnotations) {
		return nil
	}
	dir := m.Annotations.Dir
	if dir == "" {
		return invalid("annotations.dir is required by %s", HookProcessRunAnnotations)
	}
	if filepath.IsAbs(dir) || strings.HasPrefix(filepath.Clean(dir), "..") {
		return invalid("annotations.dir must stay inside the renku home, got %q", dir)
	}
	for i, p := range m.Annotations.Patterns {
		if !doublestar.ValidatePattern(p) {
			return invalid("annotations.patterns[%d]: malformed glob %q", i, p)
		}
	}
	return nil
}
