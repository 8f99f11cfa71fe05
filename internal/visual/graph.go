// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

// Package visual turns a triple store into a styled node/edge graph ready
// for DOT serialization.
package visual

import (
	"fmt"
	"sort"

	"github.com/odahub/renku-aqs/internal/rdfgraph"
)

// Font is the font element wrapped around cell or edge text.
type Font struct {
	PointSize int
	Color     string
}

// Cell is one table cell of a node label.
type Cell struct {
	Text    string
	Align   string
	ColSpan int
	BgColor string
	Href    string
	Font    *Font
	Bold    bool
	Italic  bool
}

// Row is a table row. Predicate holds the qname of the literal property a
// detail row was built from.
type Row struct {
	Predicate string
	Cells     []Cell
}

// Table is an HTML-like node label.
type Table struct {
	Color       string
	Border      int
	CellBorder  int
	CellSpacing int
	Rows        []Row
}

// Node is a graph vertex. Title is the label text the node was built with.
type Node struct {
	ID    string
	Term  rdfgraph.Term
	Title string
	Shape string
	Color string
	Style string
	Table Table
}

// Edge connects two nodes and carries the predicate qname as its label.
type Edge struct {
	From  string
	To    string
	Color string
	Label string
	Font  Font
}

// Graph is the visual form of a triple store.
type Graph struct {
	FontName string
	Nodes    []*Node
	Edges    []*Edge
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// NodeByTitle returns the first node whose title is title.
func (g *Graph) NodeByTitle(title string) (*Node, bool) {
	for _, n := range g.Nodes {
		if n.Title == title {
			return n, true
		}
	}
	return nil, false
}

const (
	defaultFont  = "DejaVu Sans"
	defaultColor = "BLACK"
	edgeColor    = "#336633"
	tableColor   = "#666666"
	iriColor     = "#6666ff"
)

type field struct {
	predicate string
	value     string
}

// FromStore lays out every triple of st: IRI and blank node objects become
// edges labeled with the predicate qname, literal objects become sorted
// detail rows of the subject's table. rdfs:label triples are skipped.
func FromStore(st rdfgraph.Store, ns *rdfgraph.Namespaces) *Graph {
	g := &Graph{FontName: defaultFont}
	ids := make(map[rdfgraph.Term]string)
	var order []rdfgraph.Term
	fields := make(map[rdfgraph.Term]map[field]struct{})

	node := func(t rdfgraph.Term) string {
		if id, ok := ids[t]; ok {
			return id
		}
		id := fmt.Sprintf("node%d", len(ids))
		ids[t] = id
		order = append(order, t)
		return id
	}

	for _, t := range rdfgraph.Triples(st) {
		from := node(t.S)
		if t.P == rdfgraph.RDFSLabel {
			continue
		}
		if t.O.IsLiteral() {
			if fields[t.S] == nil {
				fields[t.S] = make(map[field]struct{})
			}
			fields[t.S][field{predicate: ns.Compact(t.P.Value), value: formatLiteral(t.O, ns)}] = struct{}{}
			continue
		}
		g.Edges = append(g.Edges, &Edge{
			From:  from,
			To:    node(t.O),
			Color: defaultColor,
			Label: ns.Compact(t.P.Value),
			Font:  Font{PointSize: 10, Color: edgeColor},
		})
	}

	for _, term := range order {
		title := rdfgraph.Label(st, ns, term)
		n := &Node{
			ID:    ids[term],
			Term:  term,
			Title: title,
			Shape: "none",
			Color: defaultColor,
			Table: Table{Color: tableColor, Border: 1},
		}
		n.Table.Rows = append(n.Table.Rows,
			Row{Cells: []Cell{{Text: title, ColSpan: 2, BgColor: "grey", Bold: true}}},
			Row{Cells: []Cell{{
				Text:    term.Value,
				ColSpan: 2,
				BgColor: "#eeeeee",
				Href:    term.Value,
				Font:    &Font{PointSize: 10, Color: iriColor},
			}}},
		)

		sorted := make([]field, 0, len(fields[term]))
		for f := range fields[term] {
			sorted = append(sorted, f)
		}
		sort.Slice(sorted, func(i, j int) bool {
			if sorted[i].predicate != sorted[j].predicate {
				return sorted[i].predicate < sorted[j].predicate
			}
			return sorted[i].value < sorted[j].value
		})
		for _, f := range sorted {
			n.Table.Rows = append(n.Table.Rows, Row{
				Predicate: f.predicate,
				Cells: []Cell{
					{Text: f.predicate, Align: "left"},
					{Text: f.value, Align: "left"},
				},
			})
		}
		g.Nodes = append(g.Nodes, n)
	}
	return g
}

// formatLiteral renders a literal as "value", "value"^^qname or
// "value"@lang.
func formatLiteral(t rdfgraph.Term, ns *rdfgraph.Namespaces) string {
	switch {
	case t.Datatype != "":
		return `"` + t.Value + `"^^` + ns.Compact(t.Datatype)
	case t.Lang != "":
		return `"` + t.Value + `"@` + t.Lang
	}
	return `"` + t.Value + `"`
}
