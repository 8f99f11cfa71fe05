// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package rdfgraph

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	aqserr "github.com/odahub/renku-aqs/pkg/errors"
)

// QName is a namespace-qualified name.
type QName struct {
	Prefix    string
	Namespace string
	Local     string
}

// String renders the name as prefix:local.
func (q QName) String() string { return q.Prefix + ":" + q.Local }

// Namespaces binds prefixes to namespace IRIs and splits IRIs into
// qualified names. Unknown namespaces are bound on demand as ns1, ns2, ...
type Namespaces struct {
	byPrefix map[string]string
	byNS     map[string]string
	cache    map[string]QName
}

// DefaultPrefixes are bound by NewNamespaces.
var DefaultPrefixes = map[string]string{
	"xml":     NSXML,
	"rdf":     NSRDF,
	"rdfs":    NSRDFS,
	"xsd":     NSXSD,
	"prov":    NSProv,
	"oa":      NSOA,
	"dcterms": NSDCTerms,
	"schema":  NSSchema,
	"renku":   NSRenku,
	"oda":     NSODA,
	"odas":    NSODAS,
}

// NewNamespaces returns a namespace table with DefaultPrefixes bound.
func NewNamespaces() *Namespaces {
	n := &Namespaces{
		byPrefix: make(map[string]string),
		byNS:     make(map[string]string),
		cache:    make(map[string]QName),
	}
	for p, ns := range DefaultPrefixes {
		n.Bind(p, ns)
	}
	return n
}

// Bind associates prefix with namespace, replacing any previous binding of
// the prefix.
func (n *Namespaces) Bind(prefix, namespace string) {
	if old, ok := n.byPrefix[prefix]; ok && n.byNS[old] == prefix {
		delete(n.byNS, old)
	}
	n.byPrefix[prefix] = namespace
	n.byNS[namespace] = prefix
	clear(n.cache)
}

// Namespace returns the namespace bound to prefix.
func (n *Namespaces) Namespace(prefix string) (string, bool) {
	ns, ok := n.byPrefix[prefix]
	return ns, ok
}

// Prefixes returns the bound prefixes in sorted order.
func (n *Namespaces) Prefixes() []string {
	out := make([]string, 0, len(n.byPrefix))
	for p := range n.byPrefix {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// QName splits iri into a prefix, namespace and local name.
func (n *Namespaces) QName(iri string) (QName, error) {
	if q, ok := n.cache[iri]; ok {
		return q, nil
	}
	if strings.ContainsAny(iri, "<>\" {}|\\^`") {
		return QName{}, aqserr.Errorf(aqserr.CodeRDFTermInvalid, "not a valid IRI: %q", iri)
	}

	ns, local, ok := splitIRI(iri)
	if !ok {
		prefix, bound := n.byNS[iri]
		if !bound {
			return QName{}, aqserr.Errorf(aqserr.CodeRDFTermInvalid, "cannot split IRI %q", iri)
		}
		q := QName{Prefix: prefix, Namespace: iri}
		n.cache[iri] = q
		return q, nil
	}

	// A longer bound namespace wins over the syntactic split point.
	for bound := range n.byNS {
		if len(bound) > len(ns) && strings.HasPrefix(bound, ns) && strings.HasPrefix(iri, bound) {
			ns, local = bound, iri[len(bound):]
		}
	}

	prefix, bound := n.byNS[ns]
	if !bound {
		for i := 1; ; i++ {
			prefix = fmt.Sprintf("ns%d", i)
			if _, taken := n.byPrefix[prefix]; !taken {
				break
			}
		}
		n.Bind(prefix, ns)
	}

	q := QName{Prefix: prefix, Namespace: ns, Local: local}
	n.cache[iri] = q
	return q, nil
}

// Compact returns prefix:local for iri, or the IRI itself when it cannot be
// split.
func (n *Namespaces) Compact(iri string) string {
	q, err := n.QName(iri)
	if err != nil {
		return iri
	}
	return q.String()
}

var allowedNameChars = map[rune]bool{
	'\u00B7': true, '\u0387': true, '-': true, '.': true, '_': true, '%': true, '(': true, ')': true,
}

func isNameChar(r rune) bool {
	return unicode.In(r, unicode.Ll, unicode.Lu, unicode.Lo, unicode.Lt, unicode.Nl,
		unicode.Mc, unicode.Me, unicode.Mn, unicode.Lm, unicode.Nd)
}

func isSplitStart(r rune) bool {
	return r == '_' || unicode.In(r, unicode.Ll, unicode.Lu, unicode.Lo, unicode.Lt, unicode.Nl, unicode.Nd)
}

// splitIRI finds the local name: scanning backwards to the last character
// that cannot appear in a name, then forward to the first character that may
// start one.
func splitIRI(iri string) (ns, local string, ok bool) {
	if strings.HasPrefix(iri, NSXML) {
		return NSXML, iri[len(NSXML):], true
	}
	rs := []rune(iri)
	for i := len(rs) - 1; i >= 0; i-- {
		if isNameChar(rs[i]) || allowedNameChars[rs[i]] {
			continue
		}
		for j := i; j < len(rs); j++ {
			if isSplitStart(rs[j]) {
				return string(rs[:j]), string(rs[j:]), true
			}
		}
		return "", "", false
	}
	return "", "", false
}
