// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package inference

import (
	"github.com/bmatcuk/doublestar/v4"

	"github.com/odahub/renku-aqs/internal/rdfgraph"
	aqserr "github.com/odahub/renku-aqs/pkg/errors"
)

var parameterLinks = []rdfgraph.Term{
	rdfgraph.RenkuHasInputs,
	rdfgraph.RenkuHasArguments,
	rdfgraph.RenkuHasOutputs,
}

// FilterPaths keeps only the actions with at least one parameter value
// matching one of the glob patterns. Everything hanging off a dropped action
// goes with it: its parameters, the associations and activities that ran it
// and the runs annotating those activities. It returns the number of actions
// kept.
func FilterPaths(st rdfgraph.Store, patterns []string) (int, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return 0, aqserr.Errorf(aqserr.CodeCLIInputInvalid, "invalid path pattern %q", p)
		}
	}
	if len(patterns) == 0 {
		return len(rdfgraph.Subjects(st, rdfgraph.RDFType, rdfgraph.SchemaAction)), nil
	}

	kept := 0
	for _, action := range rdfgraph.Subjects(st, rdfgraph.RDFType, rdfgraph.SchemaAction) {
		if actionMatches(st, action, patterns) {
			kept++
			continue
		}
		dropAction(st, action)
	}
	return kept, nil
}

func actionMatches(st rdfgraph.Store, action rdfgraph.Term, patterns []string) bool {
	for _, link := range parameterLinks {
		for _, param := range rdfgraph.Objects(st, action, link) {
			for _, v := range rdfgraph.Objects(st, param, rdfgraph.SchemaDefaultValue) {
				for _, p := range patterns {
					if ok, _ := doublestar.Match(p, v.Value); ok {
						return true
					}
				}
			}
		}
	}
	return false
}

func dropAction(st rdfgraph.Store, action rdfgraph.Term) {
	for _, link := range parameterLinks {
		for _, param := range rdfgraph.Objects(st, action, link) {
			st.Remove(param, anyTerm, anyTerm)
		}
	}
	for _, assoc := range rdfgraph.Subjects(st, rdfgraph.ProvHadPlan, action) {
		for _, activity := range rdfgraph.Subjects(st, rdfgraph.ProvQualifiedAssociation, assoc) {
			for _, run := range rdfgraph.Subjects(st, rdfgraph.OAHasTarget, activity) {
				st.Remove(run, anyTerm, anyTerm)
			}
			st.Remove(activity, anyTerm, anyTerm)
		}
		st.Remove(assoc, anyTerm, anyTerm)
	}
	st.Remove(action, anyTerm, anyTerm)
}
