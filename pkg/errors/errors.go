// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/samber/oops"
)

// Code is the machine-readable identifier for an error.
type Code string

const (
	CodeStoreBackendUnsupported Code = "store.backend.unsupported"
	CodeStoreDatabaseFailure    Code = "store.database.failure"
	CodeStoreInvalidInput       Code = "store.invalid_input"

	CodeConfigLoadReadFailure      Code = "config.load.read.failure"
	CodeConfigParseInvalidFormat   Code = "config.parse.invalid_format"
	CodeConfigValidateInvalidValue Code = "config.validate.invalid_value"

	CodeRDFParseInvalidFormat Code = "rdf.parse.invalid_format"
	CodeRDFSerializeFailure   Code = "rdf.serialize.failure"
	CodeRDFTermInvalid        Code = "rdf.term.invalid"

	CodeProvenanceGraphNotFound   Code = "provenance.graph.not_found"
	CodeProvenanceQueryFailure    Code = "provenance.query.upstream.failure"
	CodeProvenanceRevisionInvalid Code = "provenance.revision.invalid"
	CodeProvenanceEndpointInvalid Code = "provenance.endpoint.invalid"

	CodeQueryTemplateNotFound Code = "query.template.not_found"
	CodeQueryBuildFailure     Code = "query.build.failure"

	CodePipelineStagePrecondition Code = "pipeline.stage.precondition.failed"
	CodePipelineStageOrderInvalid Code = "pipeline.stage.order.invalid"
	CodePipelineStageFailure      Code = "pipeline.stage.failure"

	CodeAstroUnitInvalidFormat Code = "astro.unit.invalid_format"

	CodeAnnotationFileInvalidFormat Code = "annotation.file.invalid_format"
	CodeAnnotationFileReadFailure   Code = "annotation.file.read.failure"
	CodeAnnotationShimWriteFailure  Code = "annotation.shim.write.failure"

	CodeReportTargetInvalid Code = "report.target.invalid"
	CodeReportFormatInvalid Code = "report.format.invalid"

	CodeRenderFormatInvalid Code = "render.format.invalid"
	CodeRenderFailure       Code = "render.output.failure"

	CodePluginManifestValidateInvalid Code = "plugin.manifest.validate.invalid"
	CodePluginRuntimeStartFailure     Code = "plugin.runtime.start.failure"
	CodePluginRuntimeCallFailure      Code = "plugin.runtime.call.failure"

	CodeSecretResolveFailure Code = "secret.resolve.failure"
	CodeSecretNotFound       Code = "secret.get.not_found"
	CodeSecretInvalidInput   Code = "secret.invalid_input"
	CodeSecretStoreFailure   Code = "secret.store.failure"

	CodeCLISetupFailure Code = "cli.setup.failure"
	CodeCLIInputInvalid Code = "cli.input.invalid"
	CodeInternalFailure Code = "internal.failure"
)

// Field is a structured key/value context attached to an error.
type Attr struct {
	Key   string
	Value any
}

// Field creates a structured error field.
func FieldValue(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Field is kept as the primary helper for terse callsites.
func Field(key string, value any) Attr {
	return FieldValue(key, value)
}

func FieldPath(value string) Attr {
	return Field("path", value)
}

func FieldStage(value string) Attr {
	return Field("stage", value)
}

func FieldNode(value string) Attr {
	return Field("node", value)
}

func FieldRunID(value string) Attr {
	return Field("run_id", value)
}

func FieldPlugin(value string) Attr {
	return Field("plugin", value)
}

func New(code Code, msg string, fields ...Attr) error {
	return oops.Code(code).With(flatten(fields)...).New(msg)
}

func Errorf(code Code, format string, args ...any) error {
	return oops.Code(code).Errorf(format, args...)
}

func Wrap(err error, code Code, msg string, fields ...Attr) error {
	if err == nil {
		return nil
	}

	return oops.Code(code).With(flatten(fields)...).Wrapf(err, "%s", msg)
}

func Wrapf(err error, code Code, format string, args ...any) error {
	if err == nil {
		return nil
	}

	return oops.Code(code).Wrapf(err, format, args...)
}

// With adds structured fields to an existing error chain.
func With(err error, fields ...Attr) error {
	if err == nil {
		return nil
	}

	code := CodeOf(err)
	if code == "" {
		code = CodeInternalFailure
	}

	return oops.Code(code).With(flatten(fields)...).Wrap(err)
}

func CodeOf(err error) Code {
	if err == nil {
		return ""
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}

	if code, ok := oopsErr.Code().(Code); ok {
		return code
	}

	if code, ok := oopsErr.Code().(string); ok {
		return Code(code)
	}

	return Code(fmt.Sprintf("%v", oopsErr.Code()))
}

func FieldsOf(err error) map[string]any {
	if err == nil {
		return nil
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return nil
	}

	return oopsErr.Context()
}

func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

func IsNotFound(err error) bool {
	return reason(CodeOf(err)) == "not_found"
}

func IsConflict(err error) bool {
	return reason(CodeOf(err)) == "conflict"
}

func IsInvalidInput(err error) bool {
	r := reason(CodeOf(err))
	return r == "invalid" || r == "invalid_input" || r == "invalid_value" || r == "invalid_format"
}

func IsTimeout(err error) bool {
	return reason(CodeOf(err)) == "timeout"
}

func IsUpstreamFailure(err error) bool {
	code := CodeOf(err)
	return strings.Contains(string(code), "upstream") && reason(code) == "failure"
}

// ExitCode maps an error onto the process exit status used by the CLI.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case IsInvalidInput(err):
		return 2
	case IsNotFound(err):
		return 3
	case IsUpstreamFailure(err):
		return 4
	default:
		return 1
	}
}

func Join(errs ...error) error {
	return oops.Code(CodeInternalFailure).Wrap(stderrors.Join(errs...))
}

func flatten(fields []Attr) []any {
	pairs := make([]any, 0, len(fields)*2)
	for _, field := range fields {
		if field.Key == "" {
			continue
		}
		pairs = append(pairs, field.Key, field.Value)
	}
	return pairs
}

func reason(code Code) string {
	if code == "" {
		return ""
	}

	raw := string(code)
	idx := strings.LastIndex(raw, ".")
	if idx == -1 || idx == len(raw)-1 {
		return raw
	}
	return raw[idx+1:]
}
