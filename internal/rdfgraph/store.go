// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package rdfgraph

// Store is a set of triples with wildcard pattern matching. Any position of a
// pattern may be Any. Match returns a snapshot, so callers may add and remove
// triples while ranging over the result.
//
// Mutating methods do not return errors. Backends that can fail record the
// first failure and report it from Err, in the manner of bufio.Writer.
type Store interface {
	Add(t Triple)
	Remove(s, p, o Term) int
	Match(s, p, o Term) []Triple
	Len() int
	Err() error
	Close() error
}

// AddAll adds every triple to st.
func AddAll(st Store, triples []Triple) {
	for _, t := range triples {
		st.Add(t)
	}
}

// Objects returns the objects of every (s, p, *) triple.
func Objects(st Store, s, p Term) []Term {
	matches := st.Match(s, p, Any)
	out := make([]Term, 0, len(matches))
	for _, t := range matches {
		out = append(out, t.O)
	}
	return out
}

// Subjects returns the subjects of every (*, p, o) triple.
func Subjects(st Store, p, o Term) []Term {
	matches := st.Match(Any, p, o)
	out := make([]Term, 0, len(matches))
	for _, t := range matches {
		out = append(out, t.S)
	}
	return out
}

// Value returns one object of (s, p, *), if any.
func Value(st Store, s, p Term) (Term, bool) {
	matches := st.Match(s, p, Any)
	if len(matches) == 0 {
		return Term{}, false
	}
	return matches[0].O, true
}

// Triples returns every triple in the store.
func Triples(st Store) []Triple {
	return st.Match(Any, Any, Any)
}

// Has reports whether at least one triple matches the pattern.
func Has(st Store, s, p, o Term) bool {
	return len(st.Match(s, p, o)) > 0
}
