// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

// Package hooks implements the callbacks the host runs around each tracked
// command: installing the astroquery interception shim before the command
// and turning the annotation files it leaves behind into annotations.
package hooks

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	aqserr "github.com/odahub/renku-aqs/pkg/errors"
	"github.com/odahub/renku-aqs/pkg/plugin"
)

// Shim is written to the shim path before the command runs. Python imports
// sitecustomize on startup, which enables astroquery autologging.
const Shim = `import aqsconverters.aq

aqsconverters.aq.autolog()
`

const (
	DefaultShimPath       = "../sitecustomize.py"
	DefaultAnnotationsDir = "aqs/common"
)

const (
	jsonPattern   = "*.json"
	jsonLDPattern = "*.jsonld"
)

// Options configures Hooks.
type Options struct {
	ShimPath string
	// AnnotationsDir is used when a run does not name its renku home.
	AnnotationsDir string
	Logger         *slog.Logger
}

// Hooks implements plugin.Hooks on the local filesystem.
type Hooks struct {
	shimPath       string
	annotationsDir string
	logger         *slog.Logger
}

var _ plugin.Hooks = (*Hooks)(nil)

// New returns Hooks with defaults filled in.
func New(opts Options) *Hooks {
	h := &Hooks{
		shimPath:       opts.ShimPath,
		annotationsDir: opts.AnnotationsDir,
		logger:         opts.Logger,
	}
	if h.shimPath == "" {
		h.shimPath = DefaultShimPath
	}
	if h.annotationsDir == "" {
		h.annotationsDir = filepath.Join(".renku", DefaultAnnotationsDir)
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	return h
}

// ShimPath returns the path PreRun writes to.
func (h *Hooks) ShimPath() string { return h.shimPath }

// AnnotationsDir returns the directory scanned for run.
func (h *Hooks) AnnotationsDir(run plugin.Run) string {
	if run.RenkuHome != "" {
		return filepath.Join(run.RenkuHome, DefaultAnnotationsDir)
	}
	return h.annotationsDir
}

// PreRun writes the interception shim.
func (h *Hooks) PreRun(ctx context.Context, tool plugin.Tool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.logger.Debug("preparing astroquery hooks", "command", tool.Command, "shim", h.shimPath)
	if err := os.WriteFile(h.shimPath, []byte(Shim), 0o644); err != nil {
		return aqserr.Wrap(err, aqserr.CodeAnnotationShimWriteFailure, "writing interception shim",
			aqserr.FieldPath(h.shimPath))
	}
	return nil
}

// RemoveShim deletes the shim written by PreRun. A missing shim is not an
// error.
func (h *Hooks) RemoveShim() error {
	err := os.Remove(h.shimPath)
	if err == nil || stderrors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return aqserr.Wrap(err, aqserr.CodeAnnotationShimWriteFailure, "removing interception shim",
		aqserr.FieldPath(h.shimPath))
}

// ProcessRunAnnotations removes the shim and collects one annotation per
// JSON-LD file in the annotations directory, deleting each file once read.
// Plain JSON files are only logged. Malformed files are left in place and
// reported in the returned error; the remaining files are still processed.
func (h *Hooks) ProcessRunAnnotations(ctx context.Context, run plugin.Run) ([]plugin.Annotation, error) {
	if err := h.RemoveShim(); err != nil {
		return nil, err
	}

	dir := h.AnnotationsDir(run)
	entries, err := os.ReadDir(dir)
	if stderrors.Is(err, fs.ErrNotExist) {
		h.logger.Info("nothing to process in process_run_annotations", "dir", dir)
		return nil, nil
	}
	if err != nil {
		return nil, aqserr.Wrap(err, aqserr.CodeAnnotationFileReadFailure, "listing annotations",
			aqserr.FieldPath(dir))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var (
		annotations []plugin.Annotation
		errs        []error
	)
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return annotations, err
		}
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		switch {
		case matches(jsonPattern, e.Name()):
			h.logJSON(path)
		case matches(jsonLDPattern, e.Name()):
			a, err := h.readAnnotation(path, run.ActivityID)
			if err != nil {
				h.logger.Warn("skipping malformed annotation file", "path", path, "error", err)
				errs = append(errs, err)
				continue
			}
			annotations = append(annotations, a)
		}
	}

	if len(errs) > 0 {
		return annotations, aqserr.Wrapf(stderrors.Join(errs...), aqserr.CodeAnnotationFileInvalidFormat,
			"%d annotation file(s) skipped", len(errs))
	}
	return annotations, nil
}

func matches(pattern, name string) bool {
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}

func (h *Hooks) logJSON(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		h.logger.Warn("reading json annotation", "path", path, "error", err)
		return
	}
	h.logger.Info("found json annotation", "path", path, "content", string(data))
}

func (h *Hooks) readAnnotation(path, activityID string) (plugin.Annotation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return plugin.Annotation{}, aqserr.Wrap(err, aqserr.CodeAnnotationFileReadFailure,
			"reading annotation", aqserr.FieldPath(path))
	}

	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		return plugin.Annotation{}, aqserr.Wrap(err, aqserr.CodeAnnotationFileInvalidFormat,
			"decoding annotation", aqserr.FieldPath(path))
	}
	id, ok := body["@id"].(string)
	if !ok || id == "" {
		return plugin.Annotation{}, aqserr.New(aqserr.CodeAnnotationFileInvalidFormat,
			"annotation has no @id", aqserr.FieldPath(path))
	}
	h.logger.Debug("found json-ld annotation", "path", path, "id", id)

	if err := os.Remove(path); err != nil {
		return plugin.Annotation{}, aqserr.Wrap(err, aqserr.CodeAnnotationFileReadFailure,
			"removing annotation", aqserr.FieldPath(path))
	}
	return plugin.Annotation{
		ID:     AnnotationID(activityID, id),
		Source: plugin.AnnotationSource,
		Body:   body,
	}, nil
}

// AnnotationID is the identifier of the annotation with the given @id
// attached to an activity.
func AnnotationID(activityID, id string) string {
	return fmt.Sprintf("%s/annotations/aqs/%s", activityID, id)
}
