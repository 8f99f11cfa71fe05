// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

// Package query builds the SPARQL queries run against the provenance graph.
package query

import (
	_ "embed"
	"regexp"
	"strings"

	"github.com/odahub/renku-aqs/internal/rdfgraph"
	aqserr "github.com/odahub/renku-aqs/pkg/errors"
)

//go:embed queries.rq
var bankSource string

var bank = mustLoadBank()

func mustLoadBank() *Bank {
	b, err := LoadBank(strings.NewReader(bankSource))
	if err != nil {
		panic(err)
	}
	return b
}

// Query names in the embedded bank.
const (
	Prologue         = "prologue"
	DisplayWhere     = "display-where"
	DisplayConstruct = "display-construct"
	AstroPairs       = "astro-pairs"
	Leaderboard      = "leaderboard"
	ParamsObjects    = "params-objects"
	ParamsRegions    = "params-regions"
	ParamsSubgraph   = "params-subgraph"
)

// Options narrows the display query.
type Options struct {
	// InputNotebook keeps only actions whose CommandInput has this
	// defaultValue. Empty means no filter.
	InputNotebook string
	// NoODAInfo leaves the astroquery run block out of both clauses.
	NoODAInfo bool
}

// BuildWhere returns the WHERE clause of the display query.
func BuildWhere(opts Options) (string, error) {
	return bank.Prepare(DisplayWhere, opts)
}

// BuildConstruct returns the CONSTRUCT clause of the display query.
func BuildConstruct(opts Options) (string, error) {
	return bank.Prepare(DisplayConstruct, opts)
}

// Display returns the complete display query.
func Display(opts Options) (string, error) {
	construct, err := BuildConstruct(opts)
	if err != nil {
		return "", err
	}
	where, err := BuildWhere(opts)
	if err != nil {
		return "", err
	}
	return withPrologue(construct + "\n" + where)
}

// Named returns a complete query from the bank that takes no parameters.
func Named(name string) (string, error) {
	body, err := bank.Prepare(name, nil)
	if err != nil {
		return "", err
	}
	return withPrologue(body)
}

var metricRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_\-]*$`)

// LeaderboardQuery selects runs with a value for metric, read from the oda
// namespace.
func LeaderboardQuery(metric string) (string, error) {
	if !metricRe.MatchString(metric) {
		return "", aqserr.Errorf(aqserr.CodeCLIInputInvalid, "invalid metric name %q", metric)
	}
	body, err := bank.Prepare(Leaderboard, struct{ MetricPredicate string }{rdfgraph.NSODA + metric})
	if err != nil {
		return "", err
	}
	return withPrologue(body)
}

func withPrologue(body string) (string, error) {
	prologue, err := bank.Prepare(Prologue, nil)
	if err != nil {
		return "", err
	}
	return prologue + "\n\n" + body + "\n", nil
}
