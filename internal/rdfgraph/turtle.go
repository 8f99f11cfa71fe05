// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package rdfgraph

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"

	aqserr "github.com/odahub/renku-aqs/pkg/errors"
)

// WriteTurtle writes triples grouped by subject, in first-seen order, using
// the prefixes bound in ns. Only prefixes that are used are declared.
func WriteTurtle(w io.Writer, triples []Triple, ns *Namespaces) error {
	tw := &turtleWriter{ns: ns, used: make(map[string]bool)}

	var order []Term
	bySubject := make(map[Term][]Triple)
	for _, t := range triples {
		if _, ok := bySubject[t.S]; !ok {
			order = append(order, t.S)
		}
		bySubject[t.S] = append(bySubject[t.S], t)
	}

	var body strings.Builder
	for _, s := range order {
		group := bySubject[s]
		body.WriteString(tw.term(s))
		var lastPred Term
		for i, t := range group {
			switch {
			case i == 0:
				body.WriteString(" " + tw.predicate(t.P) + " ")
			case t.P == lastPred:
				body.WriteString(",\n        ")
			default:
				body.WriteString(" ;\n    " + tw.predicate(t.P) + " ")
			}
			body.WriteString(tw.term(t.O))
			lastPred = t.P
		}
		body.WriteString(" .\n\n")
	}

	bw := bufio.NewWriter(w)
	for _, prefix := range ns.Prefixes() {
		if !tw.used[prefix] {
			continue
		}
		iri, _ := ns.Namespace(prefix)
		fmt.Fprintf(bw, "@prefix %s: <%s> .\n", prefix, iri)
	}
	if len(tw.used) > 0 {
		bw.WriteString("\n")
	}
	bw.WriteString(body.String())
	if err := bw.Flush(); err != nil {
		return aqserr.Wrap(err, aqserr.CodeRDFSerializeFailure, "writing turtle")
	}
	return nil
}

type turtleWriter struct {
	ns   *Namespaces
	used map[string]bool
}

func (tw *turtleWriter) predicate(p Term) string {
	if p == RDFType {
		return "a"
	}
	return tw.term(p)
}

func (tw *turtleWriter) term(t Term) string {
	switch t.Kind {
	case KindIRI:
		return tw.iri(t.Value)
	case KindLiteral:
		s := `"` + escapeLiteral(t.Value) + `"`
		switch {
		case t.Lang != "":
			return s + "@" + t.Lang
		case t.Datatype != "":
			return s + "^^" + tw.iri(t.Datatype)
		}
		return s
	default:
		return t.N3()
	}
}

// iri prefers a prefixed name when the namespace is already bound and the
// local part is a safe PN_LOCAL.
func (tw *turtleWriter) iri(iri string) string {
	best := ""
	for _, prefix := range tw.ns.Prefixes() {
		ns, _ := tw.ns.Namespace(prefix)
		if strings.HasPrefix(iri, ns) && len(ns) > len(best) && validLocal(iri[len(ns):]) {
			best = ns
		}
	}
	if best == "" {
		return "<" + iri + ">"
	}
	prefix := tw.ns.byNS[best]
	tw.used[prefix] = true
	return prefix + ":" + iri[len(best):]
}

func validLocal(local string) bool {
	if local == "" || strings.HasSuffix(local, ".") {
		return false
	}
	for i, r := range local {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		default:
			return false
		}
	}
	return true
}
