// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

// Package provenance gives read access to the host's provenance graph.
package provenance

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/odahub/renku-aqs/internal/rdfgraph"
	aqserr "github.com/odahub/renku-aqs/pkg/errors"
)

// HeadRevision is the only revision the endpoint can serve.
const HeadRevision = "HEAD"

// MissingGraphMessage is shown when the host has not generated the graph.
const MissingGraphMessage = "Provenance graph has not been generated!\n" +
	"Please run 'renku graph generate' to create the project's provenance graph"

// Solution is one row of a SELECT result.
type Solution map[string]rdfgraph.Term

// Get returns the value bound to name, or "" when unbound.
func (s Solution) Get(name string) string {
	return s[name].Value
}

// Graph answers SPARQL queries.
type Graph interface {
	Select(ctx context.Context, q string) ([]Solution, error)
	Construct(ctx context.Context, q string) ([]rdfgraph.Triple, error)
}

// Config locates the provenance graph.
type Config struct {
	// GraphPath is the file the host writes when it generates the graph.
	GraphPath string
	Endpoint  string
	Username  string
	Password  string
	Timeout   time.Duration
	Revision  string
}

// Open checks that the graph exists and returns a client for it.
func Open(cfg Config) (*Client, error) {
	if rev := strings.TrimSpace(cfg.Revision); rev != "" && rev != HeadRevision {
		return nil, aqserr.Errorf(aqserr.CodeProvenanceRevisionInvalid,
			"revision %q is not available: only %s can be queried", rev, HeadRevision)
	}

	if cfg.GraphPath == "" {
		return nil, aqserr.New(aqserr.CodeProvenanceGraphNotFound, MissingGraphMessage)
	}
	if _, err := os.Stat(cfg.GraphPath); err != nil {
		if os.IsNotExist(err) {
			return nil, aqserr.New(aqserr.CodeProvenanceGraphNotFound, MissingGraphMessage,
				aqserr.FieldPath(cfg.GraphPath))
		}
		return nil, aqserr.Wrap(err, aqserr.CodeProvenanceQueryFailure, "stat provenance graph",
			aqserr.FieldPath(cfg.GraphPath))
	}

	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, aqserr.New(aqserr.CodeProvenanceEndpointInvalid,
			"provenance.endpoint is not set: configure the SPARQL endpoint serving the project graph")
	}

	var opts []ClientOption
	if cfg.Timeout > 0 {
		opts = append(opts, WithTimeout(cfg.Timeout))
	}
	if cfg.Username != "" {
		opts = append(opts, WithBasicAuth(cfg.Username, cfg.Password))
	}
	return NewClient(cfg.Endpoint, opts...), nil
}
