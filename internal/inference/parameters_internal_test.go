// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odahub/renku-aqs/internal/rdfgraph"
)

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"result.fits":        "fits",
		"dir.v2/result":      "",
		"archive.tar.gz":     "gz",
		".bashrc":            "",
		"notebooks/.x.ipynb": "ipynb",
		"plots/spectrum.png": "png",
		"no_extension":       "",
	}
	for in, want := range tests {
		assert.Equal(t, want, extension(in), in)
	}
}

func TestPositionLess(t *testing.T) {
	assert.True(t, positionLess(rdfgraph.Literal("2"), rdfgraph.Literal("10")))
	assert.False(t, positionLess(rdfgraph.Literal("10"), rdfgraph.Literal("2")))
	assert.True(t, positionLess(rdfgraph.Literal("7"), rdfgraph.Literal("x")))
	assert.True(t, positionLess(rdfgraph.Literal("a"), rdfgraph.Literal("b")))
}

func TestProgress(t *testing.T) {
	var p Progress
	assert.NoError(t, p.Advance("start-time"))
	assert.NoError(t, p.Advance("inputs"))
	assert.Error(t, p.Advance("cleanup"))
	assert.Equal(t, "inputs", string(p.Last()))
}
