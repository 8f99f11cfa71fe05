// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package rdfgraph

import "sort"

type tripleSet map[Triple]struct{}

// Memory is an in-memory Store indexed by subject, predicate and object.
// Match results come back in insertion order.
type Memory struct {
	seq     uint64
	triples map[Triple]uint64
	bySubj  map[Term]tripleSet
	byPred  map[Term]tripleSet
	byObj   map[Term]tripleSet
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		triples: make(map[Triple]uint64),
		bySubj:  make(map[Term]tripleSet),
		byPred:  make(map[Term]tripleSet),
		byObj:   make(map[Term]tripleSet),
	}
}

func (m *Memory) Add(t Triple) {
	if _, ok := m.triples[t]; ok {
		return
	}
	m.seq++
	m.triples[t] = m.seq
	index(m.bySubj, t.S, t)
	index(m.byPred, t.P, t)
	index(m.byObj, t.O, t)
}

func (m *Memory) Remove(s, p, o Term) int {
	matches := m.Match(s, p, o)
	for _, t := range matches {
		delete(m.triples, t)
		unindex(m.bySubj, t.S, t)
		unindex(m.byPred, t.P, t)
		unindex(m.byObj, t.O, t)
	}
	return len(matches)
}

func (m *Memory) Match(s, p, o Term) []Triple {
	var candidates tripleSet
	pick := func(idx map[Term]tripleSet, key Term) bool {
		if key.IsAny() {
			return true
		}
		set, ok := idx[key]
		if !ok {
			return false
		}
		if candidates == nil || len(set) < len(candidates) {
			candidates = set
		}
		return true
	}
	if !pick(m.bySubj, s) || !pick(m.byPred, p) || !pick(m.byObj, o) {
		return nil
	}

	var out []Triple
	if candidates == nil {
		out = make([]Triple, 0, len(m.triples))
		for t := range m.triples {
			out = append(out, t)
		}
	} else {
		for t := range candidates {
			if t.Matches(s, p, o) {
				out = append(out, t)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return m.triples[out[i]] < m.triples[out[j]] })
	return out
}

func (m *Memory) Len() int     { return len(m.triples) }
func (m *Memory) Err() error   { return nil }
func (m *Memory) Close() error { return nil }

func index(idx map[Term]tripleSet, key Term, t Triple) {
	set, ok := idx[key]
	if !ok {
		set = make(tripleSet)
		idx[key] = set
	}
	set[t] = struct{}{}
}

func unindex(idx map[Term]tripleSet, key Term, t Triple) {
	set := idx[key]
	delete(set, t)
	if len(set) == 0 {
		delete(idx, key)
	}
}
