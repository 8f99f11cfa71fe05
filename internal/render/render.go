// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

// Package render rasterizes visual graphs.
package render

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/odahub/renku-aqs/internal/visual"
	aqserr "github.com/odahub/renku-aqs/pkg/errors"
	"github.com/odahub/renku-aqs/pkg/types"
)

// Renderer writes DOT source to path in the requested format.
type Renderer interface {
	Render(ctx context.Context, dot []byte, format types.ImageFormat, path string) error
}

// Graphviz renders with the embedded Graphviz engine.
type Graphviz struct {
	logger *slog.Logger
}

// NewGraphviz creates a Graphviz renderer.
func NewGraphviz() *Graphviz {
	return &Graphviz{logger: slog.Default()}
}

func (r *Graphviz) Render(ctx context.Context, dot []byte, format types.ImageFormat, path string) error {
	start := time.Now()
	switch format {
	case types.ImageFormatDOT:
		if err := os.WriteFile(path, dot, 0o644); err != nil {
			return aqserr.Wrap(err, aqserr.CodeRenderFailure, "write dot file", aqserr.FieldPath(path))
		}
	case types.ImageFormatPNG, types.ImageFormatSVG:
		if err := r.rasterize(ctx, dot, graphviz.Format(format), path); err != nil {
			return err
		}
	default:
		return aqserr.Errorf(aqserr.CodeRenderFormatInvalid, "unsupported image format: %q", format)
	}

	r.logger.Debug("graph rendered", "path", path, "format", format, "duration", time.Since(start))
	return nil
}

func (r *Graphviz) rasterize(ctx context.Context, dot []byte, format graphviz.Format, path string) error {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return aqserr.Wrap(err, aqserr.CodeRenderFailure, "start graphviz")
	}
	defer func() { _ = gv.Close() }()

	graph, err := graphviz.ParseBytes(dot)
	if err != nil {
		return aqserr.Wrap(err, aqserr.CodeRenderFailure, "parse dot")
	}
	defer func() { _ = graph.Close() }()

	return writeImage(path, func(f *os.File) error {
		return gv.Render(ctx, graph, format, f)
	})
}

// writeImage creates path and hands it to render, reporting close errors.
func writeImage(path string, render func(f *os.File) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return aqserr.Wrap(err, aqserr.CodeRenderFailure, "create image file", aqserr.FieldPath(path))
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = aqserr.Wrap(cerr, aqserr.CodeRenderFailure, "close image file", aqserr.FieldPath(path))
		}
	}()

	if err := render(f); err != nil {
		return aqserr.Wrap(err, aqserr.CodeRenderFailure, "render graph", aqserr.FieldPath(path))
	}
	return nil
}

// Graph serializes g to DOT and hands it to r.
func Graph(ctx context.Context, r Renderer, g *visual.Graph, format types.ImageFormat, path string) error {
	var buf bytes.Buffer
	if err := visual.WriteDOT(&buf, g); err != nil {
		return err
	}
	return r.Render(ctx, buf.Bytes(), format, path)
}
