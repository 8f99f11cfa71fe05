// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package rdfgraph

// Label resolves a human readable name for node: the first non-empty value of
// LabelProperties, then the local part of its qualified name, then the raw
// identifier.
func Label(st Store, ns *Namespaces, node Term) string {
	for _, p := range LabelProperties {
		for _, v := range Objects(st, node, p) {
			if v.Value != "" {
				return v.Value
			}
		}
	}
	if node.IsIRI() {
		if q, err := ns.QName(node.Value); err == nil {
			return q.Local
		}
	}
	return node.Value
}
