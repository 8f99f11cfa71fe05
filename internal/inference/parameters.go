// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package inference

import (
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/odahub/renku-aqs/internal/rdfgraph"
)

// ParameterBase prefixes the IRIs of synthesized CommandParameter nodes.
const ParameterBase = "https://github.com/plans/"

// AnalyzeInputs links every input back to its action with isInputOf,
// records the input values per action label and drops all hasInputs triples.
func AnalyzeInputs(st rdfgraph.Store, ns *rdfgraph.Namespaces, res *Result) {
	for _, t := range st.Match(anyTerm, rdfgraph.RenkuHasInputs, anyTerm) {
		action, input := t.S, t.O
		label := rdfgraph.Label(st, ns, action)
		values := res.Inputs[label]
		for _, v := range rdfgraph.Objects(st, input, rdfgraph.SchemaDefaultValue) {
			values = append(values, v.Value)
		}
		res.Inputs[label] = values
		st.Add(rdfgraph.T(input, rdfgraph.RenkuIsInputOf, action))
	}
	st.Remove(anyTerm, rdfgraph.RenkuHasInputs, anyTerm)
}

type positionalArg struct {
	value    string
	position rdfgraph.Term
}

// AnalyzeArguments folds positional arguments into CommandParameter nodes.
// Arguments carrying exactly one position lose their defaultValue; the
// values are ordered by position and merged two at a time into
// "<flag> <value>". A trailing unpaired value is dropped.
func AnalyzeArguments(st rdfgraph.Store, ns *rdfgraph.Namespaces, res *Result) int {
	var actions []rdfgraph.Term
	collected := make(map[rdfgraph.Term][]positionalArg)

	for _, t := range st.Match(anyTerm, rdfgraph.RenkuHasArguments, anyTerm) {
		action, arg := t.S, t.O
		if _, seen := collected[action]; !seen {
			actions = append(actions, action)
			collected[action] = nil
		}
		for _, v := range rdfgraph.Objects(st, arg, rdfgraph.SchemaDefaultValue) {
			positions := rdfgraph.Objects(st, arg, rdfgraph.RenkuPosition)
			if len(positions) != 1 {
				continue
			}
			collected[action] = append(collected[action], positionalArg{value: v.Value, position: positions[0]})
			st.Remove(arg, rdfgraph.SchemaDefaultValue, v)
		}
	}

	created := 0
	for _, action := range actions {
		args := collected[action]
		sort.SliceStable(args, func(i, j int) bool { return positionLess(args[i].position, args[j].position) })

		label := rdfgraph.Label(st, ns, action)
		merged := res.Arguments[label]
		for i := 0; i+1 < len(args); i += 2 {
			text := strings.TrimSpace(args[i].value + " " + args[i+1].value)
			node := ParameterIRI(action, text)
			st.Add(rdfgraph.T(node, rdfgraph.RenkuIsArgumentOf, action))
			st.Add(rdfgraph.T(node, rdfgraph.SchemaDefaultValue, rdfgraph.Literal(text)))
			st.Add(rdfgraph.T(node, rdfgraph.RDFType, rdfgraph.RenkuCommandParam))
			merged = append(merged, text)
			created++
		}
		res.Arguments[label] = merged
	}
	return created
}

// ParameterIRI derives a stable IRI for the parameter text of an action.
func ParameterIRI(action rdfgraph.Term, text string) rdfgraph.Term {
	plan := uuid.NewSHA1(uuid.NameSpaceURL, []byte(action.Value))
	param := uuid.NewSHA1(plan, []byte(text))
	return rdfgraph.IRI(ParameterBase + plan.String() + "/parameters/" + param.String())
}

// positionLess orders numeric positions numerically and places anything
// non-numeric after them, in lexical order.
func positionLess(a, b rdfgraph.Term) bool {
	fa, errA := strconv.ParseFloat(strings.TrimSpace(a.Value), 64)
	fb, errB := strconv.ParseFloat(strings.TrimSpace(b.Value), 64)
	switch {
	case errA == nil && errB == nil:
		return fa < fb
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a.Value < b.Value
}

var imageExtensions = map[string]bool{
	"jpeg": true, "jpg": true, "png": true, "gif": true, "bmp": true,
}

// AnalyzeOutputs specializes the type of outputs with a single defaultValue
// by file extension.
func AnalyzeOutputs(st rdfgraph.Store, ns *rdfgraph.Namespaces, res *Result) {
	for _, t := range st.Match(anyTerm, rdfgraph.RenkuHasOutputs, anyTerm) {
		action, output := t.S, t.O
		label := rdfgraph.Label(st, ns, action)
		if _, ok := res.Outputs[label]; !ok {
			res.Outputs[label] = nil
		}

		values := rdfgraph.Objects(st, output, rdfgraph.SchemaDefaultValue)
		if len(values) != 1 {
			continue
		}

		ext := extension(values[0].Value)
		if imageExtensions[ext] {
			retype(st, output, rdfgraph.RenkuOutputImage)
		}
		// The notebook check sits in the else branch of the fits check.
		if ext == "fits" {
			retype(st, output, rdfgraph.RenkuOutputFitsFile)
		} else if ext == "ipynb" {
			retype(st, output, rdfgraph.RenkuOutputNotebook)
		}

		res.Outputs[label] = append(res.Outputs[label], values[0].Value)
	}
}

func retype(st rdfgraph.Store, node, typ rdfgraph.Term) {
	st.Remove(node, rdfgraph.RDFType, anyTerm)
	st.Add(rdfgraph.T(node, rdfgraph.RDFType, typ))
}

// extension returns the file extension of a slash separated path without the
// dot. Leading dots of the file name do not start an extension.
func extension(path string) string {
	base := path[strings.LastIndex(path, "/")+1:]
	name := strings.TrimLeft(base, ".")
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return name[i+1:]
}
