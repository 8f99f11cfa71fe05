// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package plugin

import (
	"bytes"
	"os"

	"gopkg.in/yaml.v3"

	aqserr "github.com/odahub/renku-aqs/pkg/errors"
)

// DefaultManifest returns the manifest of the renku-aqs plugin itself.
func DefaultManifest(version string) Manifest {
	return Manifest{
		Name:        "renku-aqs",
		Version:     version,
		Description: "Astroquery provenance annotations for renku",
		Hooks:       []Hook{HookPreRun, HookProcessRunAnnotations},
		Annotations: AnnotationConfig{
			Dir:      "aqs/common",
			Patterns: []string{"*.json", "*.jsonld"},
		},
		Execution: ExecutionConfig{Command: []string{"renku-aqs", "hooks", "serve"}},
	}
}

// ParseManifest decodes and validates a YAML manifest. Unknown keys are
// rejected.
func ParseManifest(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, aqserr.Wrap(err, aqserr.CodePluginManifestValidateInvalid, "parsing manifest")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadManifest reads and parses the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, aqserr.Wrapf(err, aqserr.CodePluginManifestValidateInvalid, "reading manifest %s", path)
	}
	return ParseManifest(data)
}

// Marshal encodes m as YAML.
func (m *Manifest) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, aqserr.Wrap(err, aqserr.CodeInternalFailure, "encoding manifest")
	}
	if err := enc.Close(); err != nil {
		return nil, aqserr.Wrap(err, aqserr.CodeInternalFailure, "encoding manifest")
	}
	return buf.Bytes(), nil
}
