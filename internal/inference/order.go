// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package inference

import (
	aqserr "github.com/odahub/renku-aqs/pkg/errors"
	"github.com/odahub/renku-aqs/pkg/types"
)

// stageStart is the position of a pipeline before any stage ran.
const stageStart types.Stage = ""

// validTransitions defines the allowed stage order as an adjacency list.
var validTransitions = map[types.Stage]map[types.Stage]bool{
	stageStart: {
		types.StagePathFilter: true,
		types.StageStartTime:  true,
	},
	types.StagePathFilter: {
		types.StageStartTime: true,
	},
	types.StageStartTime: {
		types.StageODAInfo: true,
		types.StageInputs:  true,
	},
	types.StageODAInfo: {
		types.StageInputs: true,
	},
	types.StageInputs: {
		types.StageArguments: true,
	},
	types.StageArguments: {
		types.StageOutputs: true,
	},
	types.StageOutputs: {
		types.StageTypes: true,
	},
	types.StageTypes: {
		types.StageCleanup: true,
	},
	types.StageCleanup: {},
}

// ValidTransition returns true if stage to may run directly after stage from.
func ValidTransition(from, to types.Stage) bool {
	allowed, exists := validTransitions[from][to]
	return exists && allowed
}

// Progress records the last stage that ran on a graph.
type Progress struct {
	last types.Stage
}

// Last returns the most recent stage, or "" before the first one.
func (p *Progress) Last() types.Stage {
	return p.last
}

// Advance moves to next. Returns an error if next may not follow the
// current stage.
func (p *Progress) Advance(next types.Stage) error {
	if !ValidTransition(p.last, next) {
		from := p.last
		if from == stageStart {
			from = "start"
		}
		return aqserr.Errorf(aqserr.CodePipelineStageOrderInvalid,
			"invalid stage order: %s -> %s", from, next)
	}
	p.last = next
	return nil
}
