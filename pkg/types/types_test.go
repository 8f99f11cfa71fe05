// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package types

import (
	"testing"

	aqserr "github.com/odahub/renku-aqs/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageConstants_Valid(t *testing.T) {
	tests := []struct {
		name  string
		stage Stage
	}{
		{"StagePathFilter", StagePathFilter},
		{"StageStartTime", StageStartTime},
		{"StageODAInfo", StageODAInfo},
		{"StageInputs", StageInputs},
		{"StageArguments", StageArguments},
		{"StageOutputs", StageOutputs},
		{"StageTypes", StageTypes},
		{"StageCleanup", StageCleanup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.stage.Valid(), "stage constant %q must pass Valid()", tt.stage)
		})
	}
}

func TestStage_Valid_RejectsUnknown(t *testing.T) {
	assert.False(t, Stage("render").Valid())
}

func TestParseTableFormat(t *testing.T) {
	f, err := ParseTableFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, TableFormatJSON, f)

	_, err = ParseTableFormat("csv")
	require.Error(t, err)
	assert.True(t, aqserr.HasCode(err, aqserr.CodeReportFormatInvalid))
}

func TestParseImageFormat(t *testing.T) {
	for _, in := range []string{"png", "SVG", "dot"} {
		f, err := ParseImageFormat(in)
		require.NoError(t, err, in)
		assert.True(t, f.Valid())
	}

	_, err := ParseImageFormat("jpeg")
	require.Error(t, err)
	assert.True(t, aqserr.IsInvalidInput(err))
}
