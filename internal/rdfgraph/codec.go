// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package rdfgraph

import (
	"io"
	"strings"

	"github.com/knakk/rdf"

	aqserr "github.com/odahub/renku-aqs/pkg/errors"
)

// Format is an RDF serialization syntax.
type Format string

const (
	FormatTurtle   Format = "turtle"
	FormatNTriples Format = "ntriples"
)

// ParseFormat accepts the usual names and file extensions of a format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "turtle", "ttl", "n3":
		return FormatTurtle, nil
	case "ntriples", "n-triples", "nt":
		return FormatNTriples, nil
	default:
		return "", aqserr.Errorf(aqserr.CodeRDFParseInvalidFormat, "unsupported RDF format %q", s)
	}
}

func (f Format) knakk() rdf.Format {
	if f == FormatNTriples {
		return rdf.NTriples
	}
	return rdf.Turtle
}

// Decode parses every triple from r.
func Decode(r io.Reader, format Format) ([]Triple, error) {
	raw, err := rdf.NewTripleDecoder(r, format.knakk()).DecodeAll()
	if err != nil {
		return nil, aqserr.Wrapf(err, aqserr.CodeRDFParseInvalidFormat, "decoding %s", format)
	}
	out := make([]Triple, 0, len(raw))
	for _, kt := range raw {
		t, err := FromKnakk(kt)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Load decodes r into st. Nothing is added when the input is malformed.
func Load(st Store, r io.Reader, format Format) error {
	triples, err := Decode(r, format)
	if err != nil {
		return err
	}
	AddAll(st, triples)
	return st.Err()
}

// Serialize writes triples in the given format. Turtle output uses the
// prefixes bound in ns.
func Serialize(w io.Writer, triples []Triple, ns *Namespaces, format Format) error {
	if format == FormatTurtle {
		return WriteTurtle(w, triples, ns)
	}

	enc := rdf.NewTripleEncoder(w, rdf.NTriples)
	for _, t := range triples {
		kt, err := ToKnakk(t)
		if err != nil {
			return err
		}
		if err := enc.Encode(kt); err != nil {
			return aqserr.Wrap(err, aqserr.CodeRDFSerializeFailure, "encoding triple")
		}
	}
	if err := enc.Close(); err != nil {
		return aqserr.Wrap(err, aqserr.CodeRDFSerializeFailure, "flushing encoder")
	}
	return nil
}

// FromKnakk converts a decoded triple into the package representation.
func FromKnakk(kt rdf.Triple) (Triple, error) {
	s, err := fromKnakkTerm(kt.Subj)
	if err != nil {
		return Triple{}, err
	}
	p, err := fromKnakkTerm(kt.Pred)
	if err != nil {
		return Triple{}, err
	}
	o, err := fromKnakkTerm(kt.Obj)
	if err != nil {
		return Triple{}, err
	}
	return Triple{S: s, P: p, O: o}, nil
}

func fromKnakkTerm(term rdf.Term) (Term, error) {
	switch v := term.(type) {
	case rdf.IRI:
		return IRI(v.String()), nil
	case rdf.Blank:
		return Blank(v.String()), nil
	case rdf.Literal:
		if lang := v.Lang(); lang != "" {
			return LangLiteral(v.String(), lang), nil
		}
		dt := v.DataType.String()
		if dt == NSRDF+"langString" {
			dt = ""
		}
		return TypedLiteral(v.String(), dt), nil
	default:
		return Term{}, aqserr.Errorf(aqserr.CodeRDFTermInvalid, "unsupported term %T", term)
	}
}

// ToKnakk converts a triple for encoding.
func ToKnakk(t Triple) (rdf.Triple, error) {
	var out rdf.Triple
	invalid := func(err error) (rdf.Triple, error) {
		return rdf.Triple{}, aqserr.Wrapf(err, aqserr.CodeRDFTermInvalid, "converting %s", t)
	}

	switch t.S.Kind {
	case KindIRI:
		iri, err := rdf.NewIRI(t.S.Value)
		if err != nil {
			return invalid(err)
		}
		out.Subj = iri
	case KindBlank:
		b, err := rdf.NewBlank(t.S.Value)
		if err != nil {
			return invalid(err)
		}
		out.Subj = b
	default:
		return rdf.Triple{}, aqserr.Errorf(aqserr.CodeRDFTermInvalid, "subject must be an IRI or blank node: %s", t)
	}

	pred, err := rdf.NewIRI(t.P.Value)
	if err != nil {
		return invalid(err)
	}
	out.Pred = pred

	switch t.O.Kind {
	case KindIRI:
		iri, err := rdf.NewIRI(t.O.Value)
		if err != nil {
			return invalid(err)
		}
		out.Obj = iri
	case KindBlank:
		b, err := rdf.NewBlank(t.O.Value)
		if err != nil {
			return invalid(err)
		}
		out.Obj = b
	case KindLiteral:
		switch {
		case t.O.Lang != "":
			lit, err := rdf.NewLangLiteral(t.O.Value, t.O.Lang)
			if err != nil {
				return invalid(err)
			}
			out.Obj = lit
		case t.O.Datatype != "":
			dt, err := rdf.NewIRI(t.O.Datatype)
			if err != nil {
				return invalid(err)
			}
			out.Obj = rdf.NewTypedLiteral(t.O.Value, dt)
		default:
			lit, err := rdf.NewLiteral(t.O.Value)
			if err != nil {
				return invalid(err)
			}
			out.Obj = lit
		}
	default:
		return rdf.Triple{}, aqserr.Errorf(aqserr.CodeRDFTermInvalid, "wildcard object in %s", t)
	}
	return out, nil
}
