// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package inference

import (
	"log/slog"

	"github.com/odahub/renku-aqs/internal/astro"
	"github.com/odahub/renku-aqs/internal/rdfgraph"
	aqserr "github.com/odahub/renku-aqs/pkg/errors"
)

var anyTerm = rdfgraph.Any

// RelocateStartTimes moves every activity's startedAtTime onto the plan
// reached through its qualified association.
func RelocateStartTimes(st rdfgraph.Store) int {
	moved := 0
	for _, t := range st.Match(anyTerm, rdfgraph.ProvStartedAtTime, anyTerm) {
		activity, started := t.S, t.O
		for _, assoc := range rdfgraph.Objects(st, activity, rdfgraph.ProvQualifiedAssociation) {
			for _, plan := range rdfgraph.Objects(st, assoc, rdfgraph.ProvHadPlan) {
				st.Add(rdfgraph.T(plan, rdfgraph.ProvStartedAtTime, started))
				st.Remove(activity, rdfgraph.ProvStartedAtTime, started)
				moved++
			}
		}
	}
	return moved
}

// FoldODAInfo turns each annotated run into edges on the astroquery module it
// used: isUsedDuring the plan, plus requestsAstroObject or
// requestsAstroRegion. Region sky coordinates and radius get a normalized
// defaultValue. The run's isUsing and isRequesting* triples are removed.
//
// Unparseable coordinates or radius abort the fold.
func FoldODAInfo(st rdfgraph.Store, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	for _, t := range st.Match(anyTerm, rdfgraph.OAHasTarget, anyTerm) {
		run, activity := t.S, t.O
		for _, assoc := range rdfgraph.Objects(st, activity, rdfgraph.ProvQualifiedAssociation) {
			for _, plan := range rdfgraph.Objects(st, assoc, rdfgraph.ProvHadPlan) {
				modules := rdfgraph.Objects(st, run, rdfgraph.ODAIsUsing)
				if len(modules) == 0 {
					logger.Warn("annotated run has no astroquery module", "run", run.Value, "plan", plan.Value)
					continue
				}
				module := modules[0]

				if objects := rdfgraph.Objects(st, run, rdfgraph.ODAIsRequestingAstroObject); len(objects) > 0 {
					st.Add(rdfgraph.T(module, rdfgraph.ODAIsUsedDuring, plan))
					st.Add(rdfgraph.T(module, rdfgraph.ODARequestsAstroObject, objects[0]))
				}
				st.Remove(run, rdfgraph.ODAIsRequestingAstroObject, anyTerm)

				if regions := rdfgraph.Objects(st, run, rdfgraph.ODAIsRequestingAstroRegion); len(regions) > 0 {
					region := regions[0]
					st.Add(rdfgraph.T(module, rdfgraph.ODAIsUsedDuring, plan))
					st.Add(rdfgraph.T(module, rdfgraph.ODARequestsAstroRegion, region))
					if err := normalizeRegion(st, region); err != nil {
						return err
					}
				}
				st.Remove(run, rdfgraph.ODAIsRequestingAstroRegion, anyTerm)
				st.Remove(run, rdfgraph.ODAIsUsing, anyTerm)
			}
		}
	}
	return nil
}

func normalizeRegion(st rdfgraph.Store, region rdfgraph.Term) error {
	normalize := func(pred rdfgraph.Term, fn func(string) (string, error)) error {
		nodes := rdfgraph.Objects(st, region, pred)
		if len(nodes) != 1 {
			return nil
		}
		titles := rdfgraph.Objects(st, nodes[0], rdfgraph.DCTermsTitle)
		if len(titles) != 1 {
			return nil
		}
		v, err := fn(titles[0].Value)
		if err != nil {
			return aqserr.With(err, aqserr.FieldNode(nodes[0].Value))
		}
		st.Add(rdfgraph.T(nodes[0], rdfgraph.SchemaDefaultValue, rdfgraph.Literal(v)))
		return nil
	}

	if err := normalize(rdfgraph.ODAIsUsingSkyCoordinates, astro.NormalizeSkyCoord); err != nil {
		return err
	}
	return normalize(rdfgraph.ODAIsUsingRadius, astro.NormalizeRadius)
}
