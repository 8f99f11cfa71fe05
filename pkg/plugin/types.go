// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

// Package plugin provides the types shared between renku-aqs and the host
// that drives its hooks.
package plugin

import "context"

// Hook names a host callback implemented by the plugin.
type Hook string

const (
	HookPreRun                Hook = "pre_run"
	HookProcessRunAnnotations Hook = "process_run_annotations"
)

// AnnotationSource is the source recorded on every annotation the plugin
// produces.
const AnnotationSource = "AQS plugin"

// Annotation is attached by the host to the activity that produced it.
type Annotation struct {
	ID     string         `json:"id"`
	Source string         `json:"source"`
	Body   map[string]any `json:"body"`
}

// Run identifies the activity whose annotations are being collected.
type Run struct {
	// ActivityID is the activity IRI assigned by the host.
	ActivityID string `json:"activity_id"`
	// RenkuHome is the project metadata directory; empty means the
	// configured default.
	RenkuHome string `json:"renku_home,omitempty"`
}

// Tool describes the command about to be run.
type Tool struct {
	Command []string `json:"command"`
}

// Hooks is implemented by the plugin and called by the host around each
// tracked command.
type Hooks interface {
	// PreRun prepares the interception of astroquery calls.
	PreRun(ctx context.Context, tool Tool) error
	// ProcessRunAnnotations collects the annotations written during run.
	// Annotations read before a failure are returned along with the error.
	ProcessRunAnnotations(ctx context.Context, run Run) ([]Annotation, error)
}

// Manifest describes the plugin to the host. It is written as plugin.yaml.
type Manifest struct {
	Name        string           `yaml:"name"`
	Version     string           `yaml:"version"`
	Description string           `yaml:"description,omitempty"`
	Hooks       []Hook           `yaml:"hooks"`
	Annotations AnnotationConfig `yaml:"annotations"`
	Execution   ExecutionConfig  `yaml:"execution,omitempty"`
}

// AnnotationConfig locates the annotation files written by the converters.
type AnnotationConfig struct {
	// Dir is relative to the project's renku home.
	Dir string `yaml:"dir"`
	// Patterns are doublestar globs matched against file names in Dir.
	Patterns []string `yaml:"patterns,omitempty"`
}

// ExecutionConfig tells the host how to start the hook server.
type ExecutionConfig struct {
	Command []string `yaml:"command,omitempty"`
}

// Implements reports whether the manifest lists h.
func (m *Manifest) Implements(h Hook) bool {
	for _, got := range m.Hooks {
		if got == h {
			return true
		}
	}
	return false
}
