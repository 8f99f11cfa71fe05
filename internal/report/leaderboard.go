// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package report

import (
	"log/slog"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/odahub/renku-aqs/internal/provenance"
)

// RunID returns the last path segment of an activity or annotation target.
func RunID(target string) string {
	return target[strings.LastIndex(target, "/")+1:]
}

// Entry is one leaderboard row.
type Entry struct {
	RunID   string
	Module  string
	Queries []string
	Metric  float64
	// MetricText is the metric as stored in the graph.
	MetricText string
}

// BuildLeaderboard groups solutions of the leaderboard query per run and
// orders runs by metric, highest first. Runs whose metric is not numeric
// are skipped.
func BuildLeaderboard(sols []provenance.Solution) []Entry {
	byRun := make(map[string]*Entry)
	var order []string
	for _, s := range sols {
		id := RunID(s.Get("runId"))
		e, ok := byRun[id]
		if !ok {
			text := s.Get("metric")
			v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
			if err != nil {
				slog.Debug("skipping run with non-numeric metric", "run", id, "metric", text)
				continue
			}
			e = &Entry{RunID: id, Module: s.Get("aq_module_name"), Metric: v, MetricText: text}
			byRun[id] = e
			order = append(order, id)
		}
		if q := s.Get("a_object_name"); q != "" && !slices.Contains(e.Queries, q) {
			e.Queries = append(e.Queries, q)
		}
	}

	out := make([]Entry, 0, len(order))
	for _, id := range order {
		e := byRun[id]
		sort.Strings(e.Queries)
		out = append(out, *e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Metric > out[j].Metric })
	return out
}

// LeaderboardTable lays out entries under the metric's column.
func LeaderboardTable(entries []Entry, metric string) Table {
	t := Table{
		Title:        "Leaderboard",
		Headers:      []string{"Run ID", "Module", "Query", metric},
		RightAligned: map[int]bool{3: true},
	}
	for _, e := range entries {
		t.Rows = append(t.Rows, []string{e.RunID, e.Module, strings.Join(e.Queries, ", "), e.MetricText})
	}
	return t
}

// PairsTable lists the distinct (astro object, module) pairs in the graph.
func PairsTable(sols []provenance.Solution) Table {
	t := Table{Title: "Requests", Headers: []string{"Astro Object", "AstroQuery Module"}}
	for _, s := range sols {
		t.Rows = append(t.Rows, []string{s.Get("a_object"), s.Get("aq_module")})
	}
	return t
}
