// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package inference

import "github.com/odahub/renku-aqs/internal/rdfgraph"

// CleanupPredicates are removed graph-wide once inference is complete.
var CleanupPredicates = []rdfgraph.Term{
	rdfgraph.ProvHadPlan,
	rdfgraph.DCTermsTitle,
	rdfgraph.ProvQualifiedAssociation,
	rdfgraph.OAHasTarget,
	rdfgraph.RenkuPosition,
	rdfgraph.RenkuHasArguments,
	rdfgraph.RDFType,
}

// Cleanup removes every triple whose predicate is in CleanupPredicates and
// returns how many were removed.
func Cleanup(st rdfgraph.Store) int {
	removed := 0
	for _, p := range CleanupPredicates {
		removed += st.Remove(anyTerm, p, anyTerm)
	}
	return removed
}

// IndexTypes maps each typed node's label to the local name of its type.
// When a node has several types the last one wins.
func IndexTypes(st rdfgraph.Store, ns *rdfgraph.Namespaces) map[string]string {
	index := make(map[string]string)
	for _, t := range st.Match(anyTerm, rdfgraph.RDFType, anyTerm) {
		if !t.O.IsIRI() {
			continue
		}
		q, err := ns.QName(t.O.Value)
		if err != nil {
			continue
		}
		index[rdfgraph.Label(st, ns, t.S)] = q.Local
	}
	return index
}
