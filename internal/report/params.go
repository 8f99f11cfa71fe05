// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package report

import (
	"io"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/odahub/renku-aqs/internal/provenance"
	"github.com/odahub/renku-aqs/internal/rdfgraph"
	aqserr "github.com/odahub/renku-aqs/pkg/errors"
)

// InvalidEntriesWarning is printed when targets had to be skipped.
const InvalidEntriesWarning = "Some entries within the graph are not valid and therefore the store should be recreated"

// Request is one astroquery call recorded in the graph.
type Request struct {
	RunID  string
	Module string
	// Target is the IRI of the requested object or region.
	Target string
	// Name is the target's title.
	Name string
}

// Params holds the object and region requests of a project.
type Params struct {
	Objects []Request
	Regions []Request
	// Invalid counts targets rejected because their IRI contains whitespace.
	Invalid int
}

// BuildParams reads the params-objects and params-regions query results.
func BuildParams(objects, regions []provenance.Solution) *Params {
	p := &Params{}
	p.Objects = p.collect(objects, "a_object", "a_object_name")
	p.Regions = p.collect(regions, "a_region", "a_region_name")
	return p
}

func (p *Params) collect(sols []provenance.Solution, targetVar, nameVar string) []Request {
	var out []Request
	for _, s := range sols {
		target := s.Get(targetVar)
		if err := ValidateTarget(target); err != nil {
			p.Invalid++
			slog.Debug("skipping invalid target", "error", err)
			continue
		}
		out = append(out, Request{
			RunID:  RunID(s.Get("runId")),
			Module: s.Get("aq_module_name"),
			Target: target,
			Name:   s.Get(nameVar),
		})
	}
	return out
}

// ValidateTarget rejects target IRIs containing whitespace.
func ValidateTarget(target string) error {
	if strings.IndexFunc(target, unicode.IsSpace) >= 0 {
		return aqserr.New(aqserr.CodeReportTargetInvalid, "target IRI contains whitespace",
			aqserr.Field("target", target))
	}
	return nil
}

// Tables returns the object and region tables.
func (p *Params) Tables() []Table {
	return []Table{
		requestTable("Astro Objects", "Astro Object", p.Objects),
		requestTable("Astro Regions", "Astro Region", p.Regions),
	}
}

// Notes returns the warnings to print after the tables.
func (p *Params) Notes() []string {
	if p.Invalid > 0 {
		return []string{InvalidEntriesWarning}
	}
	return nil
}

func requestTable(title, column string, reqs []Request) Table {
	t := Table{Title: title, Headers: []string{"Run ID", "AstroQuery Module", column}}
	for _, r := range reqs {
		t.Rows = append(t.Rows, []string{r.RunID, r.Module, r.Name})
	}
	return t
}

// Diff lists the targets requested by only one of two runs.
func (p *Params) Diff(runA, runB string) Table {
	targets := func(run string) map[string]string {
		out := make(map[string]string)
		for _, reqs := range [][]Request{p.Objects, p.Regions} {
			for _, r := range reqs {
				if r.RunID == run {
					out[r.Target] = r.Name
				}
			}
		}
		return out
	}
	a, b := targets(runA), targets(runB)

	t := Table{Title: "Difference", Headers: []string{"Run ID", "Astro Target"}}
	add := func(run string, only, other map[string]string) {
		names := make([]string, 0, len(only))
		for target, name := range only {
			if _, ok := other[target]; !ok {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		for _, n := range names {
			t.Rows = append(t.Rows, []string{run, n})
		}
	}
	add(runA, a, b)
	add(runB, b, a)
	return t
}

// SubgraphNamespaces binds the prefixes used when printing the params
// subgraph.
func SubgraphNamespaces(renkuPath string) *rdfgraph.Namespaces {
	ns := rdfgraph.NewNamespaces()
	ns.Bind("oda", rdfgraph.NSODA)
	ns.Bind("odas", rdfgraph.NSODAS)
	ns.Bind("local-renku", "file://"+strings.TrimSuffix(renkuPath, "/")+"/")
	return ns
}

// WriteSubgraph writes triples as Turtle.
func WriteSubgraph(w io.Writer, triples []rdfgraph.Triple, ns *rdfgraph.Namespaces) error {
	return rdfgraph.Serialize(w, triples, ns, rdfgraph.FormatTurtle)
}
