// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package inference

import (
	"context"
	"log/slog"
	"time"

	"github.com/odahub/renku-aqs/internal/rdfgraph"
	aqserr "github.com/odahub/renku-aqs/pkg/errors"
	"github.com/odahub/renku-aqs/pkg/types"
)

// Result collects what the passes learned about the graph before cleanup
// erased it.
type Result struct {
	// TypeLabels maps node labels to the local name of their rdf:type.
	TypeLabels map[string]string
	// Inputs, Arguments and Outputs hold values per action label.
	Inputs    map[string][]string
	Arguments map[string][]string
	Outputs   map[string][]string
	// Removed counts triples dropped by cleanup.
	Removed int
}

func newResult() *Result {
	return &Result{
		TypeLabels: make(map[string]string),
		Inputs:     make(map[string][]string),
		Arguments:  make(map[string][]string),
		Outputs:    make(map[string][]string),
	}
}

// Requirement is a predicate that must occur in the graph when a stage
// starts. With a Guard set, the predicate is only required if the guard
// predicate occurs.
type Requirement struct {
	Predicate rdfgraph.Term
	Guard     rdfgraph.Term
}

// Env is what a stage operates on.
type Env struct {
	Store  rdfgraph.Store
	NS     *rdfgraph.Namespaces
	Result *Result
	Logger *slog.Logger
}

// Stage is one step of the pipeline. Requires and Forbids are checked
// against the graph before Run.
type Stage struct {
	Name     types.Stage
	Requires []Requirement
	Forbids  []rdfgraph.Term
	Run      func(*Env) error
}

func (s Stage) check(st rdfgraph.Store) error {
	for _, p := range s.Forbids {
		if rdfgraph.Has(st, anyTerm, p, anyTerm) {
			return aqserr.New(aqserr.CodePipelineStagePrecondition,
				"predicate must be absent: "+p.Value, aqserr.FieldStage(string(s.Name)))
		}
	}
	for _, r := range s.Requires {
		if !r.Guard.IsAny() && !rdfgraph.Has(st, anyTerm, r.Guard, anyTerm) {
			continue
		}
		if !rdfgraph.Has(st, anyTerm, r.Predicate, anyTerm) {
			return aqserr.New(aqserr.CodePipelineStagePrecondition,
				"predicate must be present: "+r.Predicate.Value, aqserr.FieldStage(string(s.Name)))
		}
	}
	return nil
}

// PathFilterStage keeps only actions touching the given path patterns.
func PathFilterStage(patterns []string) Stage {
	return Stage{
		Name:    types.StagePathFilter,
		Forbids: []rdfgraph.Term{rdfgraph.RenkuIsInputOf},
		Run: func(env *Env) error {
			kept, err := FilterPaths(env.Store, patterns)
			if err != nil {
				return err
			}
			env.Logger.Debug("path filter applied", "patterns", patterns, "actions", kept)
			return nil
		},
	}
}

// StartTimeStage relocates start times from activities to plans.
func StartTimeStage() Stage {
	return Stage{
		Name: types.StageStartTime,
		Requires: []Requirement{
			{Predicate: rdfgraph.ProvHadPlan, Guard: rdfgraph.ProvQualifiedAssociation},
		},
		Run: func(env *Env) error {
			moved := RelocateStartTimes(env.Store)
			env.Logger.Debug("start times relocated", "count", moved)
			return nil
		},
	}
}

// ODAInfoStage folds astroquery annotations onto modules.
func ODAInfoStage() Stage {
	return Stage{
		Name: types.StageODAInfo,
		Requires: []Requirement{
			{Predicate: rdfgraph.ProvHadPlan, Guard: rdfgraph.ProvQualifiedAssociation},
		},
		Run: func(env *Env) error {
			return FoldODAInfo(env.Store, env.Logger)
		},
	}
}

// InputsStage inverts hasInputs into isInputOf.
func InputsStage() Stage {
	return Stage{
		Name:    types.StageInputs,
		Forbids: []rdfgraph.Term{rdfgraph.RenkuIsInputOf},
		Run: func(env *Env) error {
			AnalyzeInputs(env.Store, env.NS, env.Result)
			return nil
		},
	}
}

// ArgumentsStage merges positional arguments into parameters.
func ArgumentsStage() Stage {
	return Stage{
		Name:    types.StageArguments,
		Forbids: []rdfgraph.Term{rdfgraph.RenkuHasInputs, rdfgraph.RenkuIsArgumentOf},
		Run: func(env *Env) error {
			n := AnalyzeArguments(env.Store, env.NS, env.Result)
			env.Logger.Debug("parameters created", "count", n)
			return nil
		},
	}
}

// OutputsStage retypes outputs by file extension.
func OutputsStage() Stage {
	return Stage{
		Name:    types.StageOutputs,
		Forbids: []rdfgraph.Term{rdfgraph.RenkuHasInputs},
		Requires: []Requirement{
			{Predicate: rdfgraph.RDFType, Guard: rdfgraph.RenkuHasOutputs},
		},
		Run: func(env *Env) error {
			AnalyzeOutputs(env.Store, env.NS, env.Result)
			return nil
		},
	}
}

// TypesStage indexes node types by label.
func TypesStage() Stage {
	return Stage{
		Name:    types.StageTypes,
		Forbids: []rdfgraph.Term{rdfgraph.RenkuHasInputs},
		Run: func(env *Env) error {
			env.Result.TypeLabels = IndexTypes(env.Store, env.NS)
			return nil
		},
	}
}

// CleanupStage strips provenance bookkeeping triples.
func CleanupStage() Stage {
	return Stage{
		Name:    types.StageCleanup,
		Forbids: []rdfgraph.Term{rdfgraph.RenkuHasInputs},
		Run: func(env *Env) error {
			env.Result.Removed = Cleanup(env.Store)
			return nil
		},
	}
}

// Options selects the optional stages of the default pipeline.
type Options struct {
	NoODAInfo bool
	Paths     []string
	Logger    *slog.Logger
}

// Pipeline runs stages in order over one graph.
type Pipeline struct {
	stages []Stage
	logger *slog.Logger
}

// NewPipeline creates a pipeline from stages. Order is validated when it
// runs.
func NewPipeline(logger *slog.Logger, stages ...Stage) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{stages: stages, logger: logger}
}

// Default returns the display pipeline.
func Default(opts Options) *Pipeline {
	var stages []Stage
	if len(opts.Paths) > 0 {
		stages = append(stages, PathFilterStage(opts.Paths))
	}
	stages = append(stages, StartTimeStage())
	if !opts.NoODAInfo {
		stages = append(stages, ODAInfoStage())
	}
	stages = append(stages,
		InputsStage(),
		ArgumentsStage(),
		OutputsStage(),
		TypesStage(),
		CleanupStage(),
	)
	return NewPipeline(opts.Logger, stages...)
}

// Stages returns the stage names in run order.
func (p *Pipeline) Stages() []types.Stage {
	names := make([]types.Stage, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name
	}
	return names
}

// Run executes every stage against st. The graph is left in whatever state
// the failing stage produced when an error is returned.
func (p *Pipeline) Run(ctx context.Context, st rdfgraph.Store, ns *rdfgraph.Namespaces) (*Result, error) {
	env := &Env{Store: st, NS: ns, Result: newResult(), Logger: p.logger}
	var progress Progress

	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return nil, aqserr.Wrap(err, aqserr.CodePipelineStageFailure, "pipeline cancelled",
				aqserr.FieldStage(string(stage.Name)))
		}
		if err := progress.Advance(stage.Name); err != nil {
			return nil, err
		}
		if err := stage.check(st); err != nil {
			return nil, err
		}

		start := time.Now()
		if err := stage.Run(env); err != nil {
			if aqserr.CodeOf(err) == "" {
				return nil, aqserr.Wrap(err, aqserr.CodePipelineStageFailure, "stage failed",
					aqserr.FieldStage(string(stage.Name)))
			}
			return nil, aqserr.With(err, aqserr.FieldStage(string(stage.Name)))
		}
		if err := st.Err(); err != nil {
			return nil, aqserr.Wrap(err, aqserr.CodePipelineStageFailure, "graph store failed",
				aqserr.FieldStage(string(stage.Name)))
		}
		p.logger.Debug("stage completed",
			"stage", stage.Name,
			"triples", st.Len(),
			"duration", time.Since(start))
	}
	return env.Result, nil
}
