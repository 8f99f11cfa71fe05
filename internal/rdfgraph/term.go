// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package rdfgraph

import (
	"strings"

	aqserr "github.com/odahub/renku-aqs/pkg/errors"
)

// TermKind distinguishes the three RDF term types. The zero value marks a
// wildcard in match and remove patterns.
type TermKind uint8

const (
	KindAny TermKind = iota
	KindIRI
	KindBlank
	KindLiteral
)

// Term is a comparable RDF term usable as a map key.
type Term struct {
	Kind     TermKind
	Value    string
	Datatype string
	Lang     string
}

// Any matches every term in a pattern position.
var Any = Term{}

// IRI returns a named node.
func IRI(iri string) Term { return Term{Kind: KindIRI, Value: iri} }

// Blank returns a blank node with the given label, without the "_:" prefix.
func Blank(id string) Term { return Term{Kind: KindBlank, Value: strings.TrimPrefix(id, "_:")} }

// Literal returns a plain literal.
func Literal(v string) Term { return Term{Kind: KindLiteral, Value: v} }

// TypedLiteral returns a literal with a datatype IRI.
func TypedLiteral(v, datatype string) Term {
	if datatype == XSDString {
		return Literal(v)
	}
	return Term{Kind: KindLiteral, Value: v, Datatype: datatype}
}

// LangLiteral returns a language-tagged literal.
func LangLiteral(v, lang string) Term {
	return Term{Kind: KindLiteral, Value: v, Lang: strings.ToLower(lang)}
}

func (t Term) IsAny() bool     { return t.Kind == KindAny }
func (t Term) IsIRI() bool     { return t.Kind == KindIRI }
func (t Term) IsBlank() bool   { return t.Kind == KindBlank }
func (t Term) IsLiteral() bool { return t.Kind == KindLiteral }

// String returns the lexical value of the term.
func (t Term) String() string { return t.Value }

// N3 renders the term in N-Triples/N3 syntax.
func (t Term) N3() string {
	switch t.Kind {
	case KindIRI:
		return "<" + t.Value + ">"
	case KindBlank:
		return "_:" + t.Value
	case KindLiteral:
		s := `"` + escapeLiteral(t.Value) + `"`
		switch {
		case t.Lang != "":
			return s + "@" + t.Lang
		case t.Datatype != "":
			return s + "^^<" + t.Datatype + ">"
		}
		return s
	default:
		return "*"
	}
}

const keySep = "\x1f"

// Key encodes the term into a reversible string used by persistent stores.
func (t Term) Key() string {
	return string('0'+rune(t.Kind)) + keySep + t.Value + keySep + t.Datatype + keySep + t.Lang
}

// ParseKey decodes a string produced by Key.
func ParseKey(key string) (Term, error) {
	parts := strings.SplitN(key, keySep, 4)
	if len(parts) != 4 || len(parts[0]) != 1 {
		return Term{}, aqserr.Errorf(aqserr.CodeRDFTermInvalid, "malformed term key %q", key)
	}
	kind := TermKind(parts[0][0] - '0')
	if kind < KindIRI || kind > KindLiteral {
		return Term{}, aqserr.Errorf(aqserr.CodeRDFTermInvalid, "unknown term kind in key %q", key)
	}
	return Term{Kind: kind, Value: parts[1], Datatype: parts[2], Lang: parts[3]}, nil
}

func escapeLiteral(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)
	return r.Replace(s)
}

// Triple is a single subject-predicate-object statement.
type Triple struct {
	S, P, O Term
}

// T builds a triple.
func T(s, p, o Term) Triple { return Triple{S: s, P: p, O: o} }

// String renders the triple as an N-Triples line without the newline.
func (t Triple) String() string {
	return t.S.N3() + " " + t.P.N3() + " " + t.O.N3() + " ."
}

// Matches reports whether t is consistent with the pattern s, p, o.
func (t Triple) Matches(s, p, o Term) bool {
	return (s.IsAny() || s == t.S) && (p.IsAny() || p == t.P) && (o.IsAny() || o == t.O)
}
