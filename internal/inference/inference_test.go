// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package inference_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odahub/renku-aqs/internal/inference"
	"github.com/odahub/renku-aqs/internal/rdfgraph"
	"github.com/odahub/renku-aqs/internal/store"
	_ "github.com/odahub/renku-aqs/internal/store/sqlite"
	aqserr "github.com/odahub/renku-aqs/pkg/errors"
	"github.com/odahub/renku-aqs/pkg/types"
)

const base = "https://renku.example.org/"

func iri(path string) rdfgraph.Term { return rdfgraph.IRI(base + path) }

type workflow struct {
	plan, activity, assoc rdfgraph.Term
}

// addWorkflow seeds one executed plan with a notebook input, the given
// positional arguments and outputs.
func addWorkflow(st rdfgraph.Store, name string, args []string, outputs ...string) workflow {
	w := workflow{
		plan:     iri("plans/" + name),
		activity: iri("activities/" + name),
		assoc:    iri("activities/" + name + "/association"),
	}
	st.Add(rdfgraph.T(w.activity, rdfgraph.ProvQualifiedAssociation, w.assoc))
	st.Add(rdfgraph.T(w.activity, rdfgraph.ProvStartedAtTime,
		rdfgraph.TypedLiteral("2023-03-01T10:20:30", rdfgraph.XSDDateTime)))
	st.Add(rdfgraph.T(w.assoc, rdfgraph.ProvHadPlan, w.plan))
	st.Add(rdfgraph.T(w.plan, rdfgraph.RDFType, rdfgraph.SchemaAction))
	st.Add(rdfgraph.T(w.plan, rdfgraph.RenkuCommand, rdfgraph.Literal("papermill")))

	in := iri("plans/" + name + "/inputs/in1")
	st.Add(rdfgraph.T(w.plan, rdfgraph.RenkuHasInputs, in))
	st.Add(rdfgraph.T(in, rdfgraph.RDFType, rdfgraph.RenkuCommandInput))
	st.Add(rdfgraph.T(in, rdfgraph.SchemaDefaultValue, rdfgraph.Literal(name+"/analysis.ipynb")))

	for i, a := range args {
		arg := iri(fmt.Sprintf("plans/%s/arguments/%d", name, i+1))
		st.Add(rdfgraph.T(w.plan, rdfgraph.RenkuHasArguments, arg))
		st.Add(rdfgraph.T(arg, rdfgraph.SchemaDefaultValue, rdfgraph.Literal(a)))
		st.Add(rdfgraph.T(arg, rdfgraph.RenkuPosition, rdfgraph.TypedLiteral(fmt.Sprint(i+1), rdfgraph.XSDInteger)))
	}
	for i, o := range outputs {
		out := iri(fmt.Sprintf("plans/%s/outputs/out%d", name, i+1))
		st.Add(rdfgraph.T(w.plan, rdfgraph.RenkuHasOutputs, out))
		st.Add(rdfgraph.T(out, rdfgraph.RDFType, rdfgraph.RenkuCommandOutput))
		st.Add(rdfgraph.T(out, rdfgraph.SchemaDefaultValue, rdfgraph.Literal(o)))
	}
	return w
}

func backends(t *testing.T) map[string]rdfgraph.Store {
	t.Helper()
	out := map[string]rdfgraph.Store{}
	for _, cfg := range []store.StorageConfig{
		{Backend: "memory"},
		{Backend: "sqlite", Path: filepath.Join(t.TempDir(), "graph.db")},
	} {
		st, err := store.NewGraphStore(&cfg)
		require.NoError(t, err)
		t.Cleanup(func() { _ = st.Close() })
		out[cfg.Backend] = st
	}
	return out
}

func TestRelocateStartTimes(t *testing.T) {
	st := rdfgraph.NewMemory()
	w := addWorkflow(st, "fit", nil)
	started, ok := rdfgraph.Value(st, w.activity, rdfgraph.ProvStartedAtTime)
	require.True(t, ok)

	moved := inference.RelocateStartTimes(st)

	assert.Equal(t, 1, moved)
	assert.False(t, rdfgraph.Has(st, w.activity, rdfgraph.ProvStartedAtTime, rdfgraph.Any))
	assert.True(t, rdfgraph.Has(st, w.plan, rdfgraph.ProvStartedAtTime, started))
}

func TestAnalyzeArguments_PairsByPosition(t *testing.T) {
	tests := []struct {
		args []string
		want []string
	}{
		{nil, nil},
		{[]string{"--threshold"}, nil},
		{[]string{"--threshold", "5"}, []string{"--threshold 5"}},
		{[]string{"--threshold", "5", "--band"}, []string{"--threshold 5"}},
		{[]string{"--threshold", "5", "--band", "r"}, []string{"--band r", "--threshold 5"}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(len(tt.args)), func(t *testing.T) {
			st := rdfgraph.NewMemory()
			w := addWorkflow(st, "fit", tt.args)

			res, err := inference.NewPipeline(nil, inference.StartTimeStage(), inference.InputsStage(),
				inference.ArgumentsStage()).Run(context.Background(), st, rdfgraph.NewNamespaces())
			require.NoError(t, err)

			params := rdfgraph.Subjects(st, rdfgraph.RenkuIsArgumentOf, w.plan)
			assert.Len(t, params, len(tt.args)/2)

			var got []string
			for _, p := range params {
				v, ok := rdfgraph.Value(st, p, rdfgraph.SchemaDefaultValue)
				require.True(t, ok)
				got = append(got, v.Value)
				assert.True(t, rdfgraph.Has(st, p, rdfgraph.RDFType, rdfgraph.RenkuCommandParam))
			}
			sort.Strings(got)
			assert.Equal(t, tt.want, got)

			if len(tt.want) > 0 {
				assert.ElementsMatch(t, tt.want, res.Arguments["fit"])
			}
		})
	}
}

func TestAnalyzeArguments_NumericPositionOrder(t *testing.T) {
	st := rdfgraph.NewMemory()
	plan := iri("plans/order")
	for _, a := range []struct{ value, pos string }{
		{"5", "10"}, {"--threshold", "9"}, {"--band", "1"}, {"r", "2"},
	} {
		arg := iri("plans/order/arguments/" + a.pos)
		st.Add(rdfgraph.T(plan, rdfgraph.RenkuHasArguments, arg))
		st.Add(rdfgraph.T(arg, rdfgraph.SchemaDefaultValue, rdfgraph.Literal(a.value)))
		st.Add(rdfgraph.T(arg, rdfgraph.RenkuPosition, rdfgraph.Literal(a.pos)))
	}

	res := &inference.Result{Arguments: map[string][]string{}}
	n := inference.AnalyzeArguments(st, rdfgraph.NewNamespaces(), res)

	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"--band r", "--threshold 5"}, res.Arguments["order"])
}

func TestParameterIRI_Deterministic(t *testing.T) {
	a := iri("plans/a")
	b := iri("plans/b")

	assert.Equal(t, inference.ParameterIRI(a, "--x 1"), inference.ParameterIRI(a, "--x 1"))
	assert.NotEqual(t, inference.ParameterIRI(a, "--x 1"), inference.ParameterIRI(a, "--x 2"))
	assert.NotEqual(t, inference.ParameterIRI(a, "--x 1"), inference.ParameterIRI(b, "--x 1"))
	assert.Contains(t, inference.ParameterIRI(a, "--x 1").Value, inference.ParameterBase)
	assert.Contains(t, inference.ParameterIRI(a, "--x 1").Value, "/parameters/")
}

func TestAnalyzeOutputs_TypesByExtension(t *testing.T) {
	tests := []struct {
		path string
		want rdfgraph.Term
	}{
		{"plots/spectrum.png", rdfgraph.RenkuOutputImage},
		{"plots/spectrum.JPG", rdfgraph.RenkuCommandOutput},
		{"data/result.fits", rdfgraph.RenkuOutputFitsFile},
		{"out/report.ipynb", rdfgraph.RenkuOutputNotebook},
		{"logs/run.txt", rdfgraph.RenkuCommandOutput},
		{"logs/.hidden", rdfgraph.RenkuCommandOutput},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			st := rdfgraph.NewMemory()
			addWorkflow(st, "out", nil, tt.path)
			out := iri("plans/out/outputs/out1")

			res := &inference.Result{Outputs: map[string][]string{}}
			inference.AnalyzeOutputs(st, rdfgraph.NewNamespaces(), res)

			assert.Equal(t, []rdfgraph.Term{tt.want}, rdfgraph.Objects(st, out, rdfgraph.RDFType))
			assert.Equal(t, []string{tt.path}, res.Outputs["out"])
		})
	}
}

func TestAnalyzeOutputs_SkipsMultiValuedOutputs(t *testing.T) {
	st := rdfgraph.NewMemory()
	addWorkflow(st, "out", nil, "a.fits")
	out := iri("plans/out/outputs/out1")
	st.Add(rdfgraph.T(out, rdfgraph.SchemaDefaultValue, rdfgraph.Literal("b.fits")))

	res := &inference.Result{Outputs: map[string][]string{}}
	inference.AnalyzeOutputs(st, rdfgraph.NewNamespaces(), res)

	assert.Equal(t, []rdfgraph.Term{rdfgraph.RenkuCommandOutput}, rdfgraph.Objects(st, out, rdfgraph.RDFType))
	assert.Empty(t, res.Outputs["out"])
}

func TestCleanup_Idempotent(t *testing.T) {
	st := rdfgraph.NewMemory()
	addWorkflow(st, "fit", []string{"--threshold", "5"}, "data/result.fits")

	first := inference.Cleanup(st)
	once := rdfgraph.Triples(st)
	second := inference.Cleanup(st)

	assert.Positive(t, first)
	assert.Zero(t, second)
	assert.ElementsMatch(t, once, rdfgraph.Triples(st))
	for _, p := range inference.CleanupPredicates {
		assert.False(t, rdfgraph.Has(st, rdfgraph.Any, p, rdfgraph.Any), p.Value)
	}
}

func TestFoldODAInfo_NormalizesRegion(t *testing.T) {
	st := rdfgraph.NewMemory()
	w := addWorkflow(st, "query", nil)

	run := iri("annotations/run-1")
	module := rdfgraph.IRI(rdfgraph.NSODA + "AQModuleSimbad")
	region := iri("regions/r1")
	coords := iri("regions/r1/coords")
	radius := iri("regions/r1/radius")

	st.Add(rdfgraph.T(run, rdfgraph.OAHasTarget, w.activity))
	st.Add(rdfgraph.T(run, rdfgraph.ODAIsUsing, module))
	st.Add(rdfgraph.T(run, rdfgraph.ODAIsRequestingAstroRegion, region))
	st.Add(rdfgraph.T(region, rdfgraph.ODAIsUsingSkyCoordinates, coords))
	st.Add(rdfgraph.T(region, rdfgraph.ODAIsUsingRadius, radius))
	st.Add(rdfgraph.T(coords, rdfgraph.DCTermsTitle, rdfgraph.Literal("10.5 20.3")))
	st.Add(rdfgraph.T(radius, rdfgraph.DCTermsTitle, rdfgraph.Literal("5 arcmin")))

	require.NoError(t, inference.FoldODAInfo(st, nil))

	assert.True(t, rdfgraph.Has(st, module, rdfgraph.ODAIsUsedDuring, w.plan))
	assert.True(t, rdfgraph.Has(st, module, rdfgraph.ODARequestsAstroRegion, region))
	assert.True(t, rdfgraph.Has(st, coords, rdfgraph.SchemaDefaultValue, rdfgraph.Literal("20.3 10.5 unit=deg")))
	assert.True(t, rdfgraph.Has(st, radius, rdfgraph.SchemaDefaultValue, rdfgraph.Literal("5.0 unit=arcmin")))
	assert.Empty(t, st.Match(run, rdfgraph.ODAIsUsing, rdfgraph.Any))
	assert.Empty(t, st.Match(run, rdfgraph.ODAIsRequestingAstroRegion, rdfgraph.Any))
}

func TestFoldODAInfo_AstroObject(t *testing.T) {
	st := rdfgraph.NewMemory()
	w := addWorkflow(st, "query", nil)

	run := iri("annotations/run-2")
	module := rdfgraph.IRI(rdfgraph.NSODA + "AQModuleSimbad")
	object := iri("objects/Crab")
	st.Add(rdfgraph.T(run, rdfgraph.OAHasTarget, w.activity))
	st.Add(rdfgraph.T(run, rdfgraph.ODAIsUsing, module))
	st.Add(rdfgraph.T(run, rdfgraph.ODAIsRequestingAstroObject, object))

	require.NoError(t, inference.FoldODAInfo(st, nil))

	assert.True(t, rdfgraph.Has(st, module, rdfgraph.ODARequestsAstroObject, object))
	assert.True(t, rdfgraph.Has(st, module, rdfgraph.ODAIsUsedDuring, w.plan))
	assert.Empty(t, st.Match(run, rdfgraph.ODAIsRequestingAstroObject, rdfgraph.Any))
}

func TestFoldODAInfo_BadCoordinatesAbort(t *testing.T) {
	st := rdfgraph.NewMemory()
	w := addWorkflow(st, "query", nil)

	run := iri("annotations/run-3")
	region := iri("regions/bad")
	coords := iri("regions/bad/coords")
	st.Add(rdfgraph.T(run, rdfgraph.OAHasTarget, w.activity))
	st.Add(rdfgraph.T(run, rdfgraph.ODAIsUsing, rdfgraph.IRI(rdfgraph.NSODA+"AQModuleSimbad")))
	st.Add(rdfgraph.T(run, rdfgraph.ODAIsRequestingAstroRegion, region))
	st.Add(rdfgraph.T(region, rdfgraph.ODAIsUsingSkyCoordinates, coords))
	st.Add(rdfgraph.T(coords, rdfgraph.DCTermsTitle, rdfgraph.Literal("north east")))

	err := inference.FoldODAInfo(st, nil)
	require.Error(t, err)
	assert.True(t, aqserr.HasCode(err, aqserr.CodeAstroUnitInvalidFormat))
}

func TestPipeline_Scenario(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			w := addWorkflow(st, "fit", []string{"--threshold", "5"}, "data/result.fits")

			res, err := inference.Default(inference.Options{}).Run(context.Background(), st, rdfgraph.NewNamespaces())
			require.NoError(t, err)

			params := rdfgraph.Subjects(st, rdfgraph.RenkuIsArgumentOf, w.plan)
			require.Len(t, params, 1)
			v, ok := rdfgraph.Value(st, params[0], rdfgraph.SchemaDefaultValue)
			require.True(t, ok)
			assert.Equal(t, "--threshold 5", v.Value)

			var fits []string
			for label, typ := range res.TypeLabels {
				if typ == "CommandOutputFitsFile" {
					fits = append(fits, label)
				}
			}
			assert.Len(t, fits, 1)

			for _, p := range []rdfgraph.Term{rdfgraph.RenkuHasInputs, rdfgraph.RenkuHasArguments} {
				assert.Empty(t, st.Match(rdfgraph.Any, p, rdfgraph.Any), p.Value)
			}
			assert.Empty(t, st.Match(rdfgraph.Any, rdfgraph.RDFType, rdfgraph.Any))
			assert.True(t, rdfgraph.Has(st, w.plan, rdfgraph.ProvStartedAtTime, rdfgraph.Any))
			assert.Len(t, st.Match(rdfgraph.Any, rdfgraph.RenkuIsInputOf, w.plan), 1)
			assert.Equal(t, []string{"fit/analysis.ipynb"}, res.Inputs["fit"])
			assert.Equal(t, []string{"data/result.fits"}, res.Outputs["fit"])
		})
	}
}

func TestPipeline_DefaultStages(t *testing.T) {
	full := inference.Default(inference.Options{Paths: []string{"data/**"}})
	assert.Equal(t, []types.Stage{
		types.StagePathFilter, types.StageStartTime, types.StageODAInfo, types.StageInputs,
		types.StageArguments, types.StageOutputs, types.StageTypes, types.StageCleanup,
	}, full.Stages())

	bare := inference.Default(inference.Options{NoODAInfo: true})
	assert.NotContains(t, bare.Stages(), types.StageODAInfo)
	assert.NotContains(t, bare.Stages(), types.StagePathFilter)
}

func TestPipeline_RejectsOutOfOrderStages(t *testing.T) {
	tests := map[string][]inference.Stage{
		"inputs first":         {inference.InputsStage()},
		"cleanup before types": {inference.StartTimeStage(), inference.InputsStage(), inference.ArgumentsStage(), inference.OutputsStage(), inference.CleanupStage()},
		"repeated stage":       {inference.StartTimeStage(), inference.StartTimeStage()},
	}
	for name, stages := range tests {
		t.Run(name, func(t *testing.T) {
			st := rdfgraph.NewMemory()
			addWorkflow(st, "fit", nil)

			_, err := inference.NewPipeline(nil, stages...).Run(context.Background(), st, rdfgraph.NewNamespaces())
			require.Error(t, err)
			assert.True(t, aqserr.HasCode(err, aqserr.CodePipelineStageOrderInvalid))
		})
	}
}

func TestPipeline_Preconditions(t *testing.T) {
	t.Run("inputs already inverted", func(t *testing.T) {
		st := rdfgraph.NewMemory()
		w := addWorkflow(st, "fit", nil)
		st.Add(rdfgraph.T(iri("stray"), rdfgraph.RenkuIsInputOf, w.plan))

		_, err := inference.Default(inference.Options{}).Run(context.Background(), st, rdfgraph.NewNamespaces())
		require.Error(t, err)
		assert.True(t, aqserr.HasCode(err, aqserr.CodePipelineStagePrecondition))
		assert.Equal(t, string(types.StageInputs), aqserr.FieldsOf(err)["stage"])
	})

	t.Run("association without plan", func(t *testing.T) {
		st := rdfgraph.NewMemory()
		st.Add(rdfgraph.T(iri("activities/x"), rdfgraph.ProvQualifiedAssociation, iri("assoc/x")))

		_, err := inference.Default(inference.Options{}).Run(context.Background(), st, rdfgraph.NewNamespaces())
		require.Error(t, err)
		assert.True(t, aqserr.HasCode(err, aqserr.CodePipelineStagePrecondition))
	})

	t.Run("empty graph", func(t *testing.T) {
		res, err := inference.Default(inference.Options{}).Run(context.Background(), rdfgraph.NewMemory(), rdfgraph.NewNamespaces())
		require.NoError(t, err)
		assert.Empty(t, res.TypeLabels)
	})
}

func TestPipeline_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := inference.Default(inference.Options{}).Run(ctx, rdfgraph.NewMemory(), rdfgraph.NewNamespaces())
	require.Error(t, err)
	assert.True(t, aqserr.HasCode(err, aqserr.CodePipelineStageFailure))
}

func TestFilterPaths(t *testing.T) {
	st := rdfgraph.NewMemory()
	keep := addWorkflow(st, "fit", nil, "data/result.fits")
	drop := addWorkflow(st, "plot", nil, "plots/spectrum.png")
	run := iri("annotations/plot-run")
	st.Add(rdfgraph.T(run, rdfgraph.OAHasTarget, drop.activity))

	kept, err := inference.FilterPaths(st, []string{"data/**"})
	require.NoError(t, err)

	assert.Equal(t, 1, kept)
	assert.True(t, rdfgraph.Has(st, keep.plan, rdfgraph.RDFType, rdfgraph.SchemaAction))
	for _, gone := range []rdfgraph.Term{drop.plan, drop.activity, drop.assoc, run, iri("plans/plot/outputs/out1")} {
		assert.Empty(t, st.Match(gone, rdfgraph.Any, rdfgraph.Any), gone.Value)
	}
}

func TestFilterPaths_InvalidPattern(t *testing.T) {
	_, err := inference.FilterPaths(rdfgraph.NewMemory(), []string{"data/[a"})
	require.Error(t, err)
	assert.True(t, aqserr.IsInvalidInput(err))
}
