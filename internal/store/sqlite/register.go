// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package sqlite

import (
	"github.com/odahub/renku-aqs/internal/rdfgraph"
	"github.com/odahub/renku-aqs/internal/store"
)

func init() {
	store.RegisterBackend("sqlite", newGraphStore)
}

func newGraphStore(path string) (rdfgraph.Store, error) {
	return NewTripleStore(path)
}
