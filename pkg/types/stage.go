// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package types

// Stage identifies a step of the display transformation pipeline.
type Stage string

const (
	// StagePathFilter narrows the graph to actions touching the requested paths.
	StagePathFilter Stage = "path-filter"
	// StageStartTime moves activity start times onto their plans.
	StageStartTime Stage = "start-time"
	// StageODAInfo folds run annotations into module/target edges.
	StageODAInfo Stage = "oda-info"
	// StageInputs links input parameters back to their action.
	StageInputs Stage = "inputs"
	// StageArguments merges positional arguments into CommandParameter nodes.
	StageArguments Stage = "arguments"
	// StageOutputs specializes output types by file extension.
	StageOutputs Stage = "outputs"
	// StageTypes indexes node labels by type name.
	StageTypes Stage = "types"
	// StageCleanup drops predicates that are not meant for display.
	StageCleanup Stage = "cleanup"
)

// Valid reports whether the stage is a known pipeline stage.
func (s Stage) Valid() bool {
	switch s {
	case StagePathFilter, StageStartTime, StageODAInfo, StageInputs,
		StageArguments, StageOutputs, StageTypes, StageCleanup:
		return true
	default:
		return false
	}
}
