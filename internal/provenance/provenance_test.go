// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package provenance_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odahub/renku-aqs/internal/provenance"
	"github.com/odahub/renku-aqs/internal/rdfgraph"
	aqserr "github.com/odahub/renku-aqs/pkg/errors"
)

const selectResults = `{
  "head": {"vars": ["run", "name", "started", "label", "node"]},
  "results": {"bindings": [
    {
      "run": {"type": "uri", "value": "https://renku.example.org/activities/abc"},
      "name": {"type": "literal", "value": "Crab"},
      "started": {"type": "literal", "value": "2023-03-01T10:20:30", "datatype": "http://www.w3.org/2001/XMLSchema#dateTime"},
      "label": {"type": "literal", "value": "Krebs", "xml:lang": "de"},
      "node": {"type": "bnode", "value": "b0"}
    },
    {
      "run": {"type": "uri", "value": "https://renku.example.org/activities/def"}
    }
  ]}
}`

const constructResult = `<https://renku.example.org/plans/fit> <https://swissdatasciencecenter.github.io/renku-ontology#command> "papermill" .
<https://renku.example.org/plans/fit> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://schema.org/Action> .
`

type fakeEndpoint struct {
	queries []string
	auth    string
	accept  string
}

func (f *fakeEndpoint) router() http.Handler {
	r := chi.NewRouter()
	r.Post("/sparql", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		q := r.PostForm.Get("query")
		f.queries = append(f.queries, q)
		f.accept = r.Header.Get("Accept")
		if user, pass, ok := r.BasicAuth(); ok {
			f.auth = user + ":" + pass
		}

		switch {
		case strings.Contains(q, "BROKEN"):
			http.Error(w, "Parse error: unexpected token", http.StatusBadRequest)
		case strings.HasPrefix(q, "ASK"):
			w.Header().Set("Content-Type", "application/sparql-results+json")
			_, _ = w.Write([]byte(`{"head": {}, "boolean": true}`))
		case strings.HasPrefix(q, "CONSTRUCT"):
			w.Header().Set("Content-Type", "application/n-triples; charset=utf-8")
			_, _ = w.Write([]byte(constructResult))
		default:
			w.Header().Set("Content-Type", "application/sparql-results+json")
			_, _ = w.Write([]byte(selectResults))
		}
	})
	return r
}

func newEndpoint(t *testing.T) (*fakeEndpoint, string) {
	t.Helper()
	f := &fakeEndpoint{}
	srv := httptest.NewServer(f.router())
	t.Cleanup(srv.Close)
	return f, srv.URL + "/sparql"
}

func TestClient_Select(t *testing.T) {
	f, url := newEndpoint(t)
	c := provenance.NewClient(url, provenance.WithBasicAuth("renku", "s3cret"))

	sols, err := c.Select(context.Background(), "SELECT * WHERE { ?s ?p ?o }")
	require.NoError(t, err)
	require.Len(t, sols, 2)

	first := sols[0]
	assert.Equal(t, rdfgraph.IRI("https://renku.example.org/activities/abc"), first["run"])
	assert.Equal(t, rdfgraph.Literal("Crab"), first["name"])
	assert.Equal(t, rdfgraph.TypedLiteral("2023-03-01T10:20:30", rdfgraph.XSDDateTime), first["started"])
	assert.Equal(t, rdfgraph.LangLiteral("Krebs", "de"), first["label"])
	assert.Equal(t, rdfgraph.Blank("b0"), first["node"])
	assert.Equal(t, "", sols[1].Get("name"))

	assert.Equal(t, []string{"SELECT * WHERE { ?s ?p ?o }"}, f.queries)
	assert.Equal(t, "renku:s3cret", f.auth)
}

func TestClient_Construct(t *testing.T) {
	f, url := newEndpoint(t)
	c := provenance.NewClient(url, provenance.WithTimeout(5*time.Second))

	triples, err := c.Construct(context.Background(), "CONSTRUCT { ?s ?p ?o } WHERE { ?s ?p ?o }")
	require.NoError(t, err)
	require.Len(t, triples, 2)
	assert.Equal(t, rdfgraph.Literal("papermill"), triples[0].O)
	assert.Equal(t, rdfgraph.SchemaAction, triples[1].O)
	assert.Contains(t, f.accept, "application/n-triples")
}

func TestClient_EndpointError(t *testing.T) {
	_, url := newEndpoint(t)
	c := provenance.NewClient(url)

	_, err := c.Select(context.Background(), "SELECT BROKEN")
	require.Error(t, err)
	assert.True(t, aqserr.IsUpstreamFailure(err))
	assert.Contains(t, err.Error(), "Parse error")
}

func TestClient_Unreachable(t *testing.T) {
	c := provenance.NewClient("http://127.0.0.1:1/sparql", provenance.WithTimeout(time.Second))
	_, err := c.Select(context.Background(), "SELECT * WHERE { ?s ?p ?o }")
	require.Error(t, err)
	assert.True(t, aqserr.HasCode(err, aqserr.CodeProvenanceQueryFailure))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "provenance.json")

	t.Run("missing graph", func(t *testing.T) {
		_, err := provenance.Open(provenance.Config{GraphPath: marker, Endpoint: "http://localhost/sparql"})
		require.Error(t, err)
		assert.True(t, aqserr.IsNotFound(err))
		assert.Contains(t, err.Error(), "renku graph generate")
	})

	t.Run("graph present without endpoint", func(t *testing.T) {
		require.NoError(t, os.WriteFile(marker, []byte("{}"), 0o600))
		_, err := provenance.Open(provenance.Config{GraphPath: marker})
		require.Error(t, err)
		assert.True(t, aqserr.HasCode(err, aqserr.CodeProvenanceEndpointInvalid))
		assert.True(t, aqserr.IsInvalidInput(err))
		assert.False(t, aqserr.IsNotFound(err))
		assert.Contains(t, err.Error(), "provenance.endpoint")
		assert.NotContains(t, err.Error(), "renku graph generate")
	})

	t.Run("missing graph without endpoint", func(t *testing.T) {
		_, err := provenance.Open(provenance.Config{GraphPath: filepath.Join(dir, "absent.json")})
		require.Error(t, err)
		assert.True(t, aqserr.HasCode(err, aqserr.CodeProvenanceGraphNotFound))
	})

	t.Run("historical revision", func(t *testing.T) {
		_, err := provenance.Open(provenance.Config{GraphPath: marker, Endpoint: "http://localhost/sparql", Revision: "HEAD~1"})
		require.Error(t, err)
		assert.True(t, aqserr.IsInvalidInput(err))
	})

	t.Run("ok", func(t *testing.T) {
		require.NoError(t, os.WriteFile(marker, []byte("{}"), 0o600))
		c, err := provenance.Open(provenance.Config{GraphPath: marker, Endpoint: "http://localhost/sparql", Revision: "HEAD"})
		require.NoError(t, err)
		assert.NotNil(t, c)
	})
}

func TestClient_Ping(t *testing.T) {
	f, url := newEndpoint(t)
	c := provenance.NewClient(url)

	require.NoError(t, c.Ping(context.Background()))
	assert.Equal(t, "ASK { ?s ?p ?o }", f.queries[0])
	assert.Equal(t, url, c.Endpoint())

	ok, err := c.Ask(context.Background(), "SELECT * WHERE { ?s ?p ?o }")
	require.Error(t, err, "select results carry no boolean")
	assert.False(t, ok)
}
