// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package types

import (
	"strings"

	aqserr "github.com/odahub/renku-aqs/pkg/errors"
)

// TableFormat selects how leaderboard and params tables are printed.
type TableFormat string

const (
	TableFormatASCII    TableFormat = "ascii"
	TableFormatJSON     TableFormat = "json"
	TableFormatMarkdown TableFormat = "markdown"
)

// Valid reports whether f is a recognized table format.
func (f TableFormat) Valid() bool {
	switch f {
	case TableFormatASCII, TableFormatJSON, TableFormatMarkdown:
		return true
	default:
		return false
	}
}

// ParseTableFormat parses a case-insensitive string into a TableFormat.
func ParseTableFormat(s string) (TableFormat, error) {
	f := TableFormat(strings.ToLower(s))
	if !f.Valid() {
		return "", aqserr.Errorf(aqserr.CodeReportFormatInvalid,
			"invalid table format: %q", s)
	}
	return f, nil
}

// ImageFormat selects the output of the display command.
type ImageFormat string

const (
	ImageFormatPNG ImageFormat = "png"
	ImageFormatSVG ImageFormat = "svg"
	ImageFormatDOT ImageFormat = "dot"
)

// Valid reports whether f is a recognized image format.
func (f ImageFormat) Valid() bool {
	switch f {
	case ImageFormatPNG, ImageFormatSVG, ImageFormatDOT:
		return true
	default:
		return false
	}
}

// ParseImageFormat parses a case-insensitive string into an ImageFormat.
func ParseImageFormat(s string) (ImageFormat, error) {
	f := ImageFormat(strings.ToLower(s))
	if !f.Valid() {
		return "", aqserr.Errorf(aqserr.CodeRenderFormatInvalid,
			"invalid image format: %q", s)
	}
	return f, nil
}
