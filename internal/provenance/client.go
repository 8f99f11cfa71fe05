// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package provenance

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/odahub/renku-aqs/internal/rdfgraph"
	aqserr "github.com/odahub/renku-aqs/pkg/errors"
)

const (
	resultsJSON = "application/sparql-results+json"
	nTriples    = "application/n-triples"
	turtle      = "text/turtle"

	maxErrorBody = 512
)

// Client talks to a SPARQL 1.1 protocol endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	username string
	password string
	logger   *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.http.Timeout = d }
}

// WithBasicAuth sends credentials with every request.
func WithBasicAuth(username, password string) ClientOption {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// NewClient creates a client for endpoint.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 60 * time.Second},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Select runs a SELECT query and returns its bindings.
func (c *Client) Select(ctx context.Context, q string) ([]Solution, error) {
	body, _, err := c.do(ctx, q, resultsJSON)
	if err != nil {
		return nil, err
	}
	return parseResults(body)
}

// Ask runs an ASK query.
func (c *Client) Ask(ctx context.Context, q string) (bool, error) {
	body, _, err := c.do(ctx, q, resultsJSON)
	if err != nil {
		return false, err
	}
	v := gjson.GetBytes(body, "boolean")
	if v.Type != gjson.True && v.Type != gjson.False {
		return false, aqserr.New(aqserr.CodeProvenanceQueryFailure, "ASK result carries no boolean")
	}
	return v.Bool(), nil
}

// Ping checks that the endpoint answers queries.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Ask(ctx, "ASK { ?s ?p ?o }")
	return err
}

// Endpoint returns the URL queries are sent to.
func (c *Client) Endpoint() string { return c.endpoint }

// Construct runs a CONSTRUCT query and returns the resulting triples.
func (c *Client) Construct(ctx context.Context, q string) ([]rdfgraph.Triple, error) {
	body, contentType, err := c.do(ctx, q, nTriples+", "+turtle+";q=0.9")
	if err != nil {
		return nil, err
	}

	format := rdfgraph.FormatTurtle
	if mt, _, err := mime.ParseMediaType(contentType); err == nil && (mt == nTriples || mt == "text/plain") {
		format = rdfgraph.FormatNTriples
	}
	triples, err := rdfgraph.Decode(bytes.NewReader(body), format)
	if err != nil {
		return nil, aqserr.Wrap(err, aqserr.CodeProvenanceQueryFailure, "decode construct result")
	}
	return triples, nil
}

func (c *Client) do(ctx context.Context, q, accept string) ([]byte, string, error) {
	form := url.Values{"query": {q}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, "", aqserr.Wrap(err, aqserr.CodeProvenanceQueryFailure, "build request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", accept)
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", aqserr.Wrap(err, aqserr.CodeProvenanceQueryFailure, "query endpoint",
			aqserr.Field("endpoint", c.endpoint))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", aqserr.Wrap(err, aqserr.CodeProvenanceQueryFailure, "read response")
	}
	c.logger.Debug("query completed",
		"endpoint", c.endpoint,
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(body)
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return nil, "", aqserr.New(aqserr.CodeProvenanceQueryFailure,
			"endpoint returned "+resp.Status+": "+strings.TrimSpace(msg),
			aqserr.Field("endpoint", c.endpoint))
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// parseResults reads the bindings of a SPARQL JSON results document.
func parseResults(body []byte) ([]Solution, error) {
	if !gjson.ValidBytes(body) {
		return nil, aqserr.New(aqserr.CodeProvenanceQueryFailure, "malformed SPARQL results document")
	}
	doc := gjson.ParseBytes(body)
	bindings := doc.Get("results.bindings")
	if !bindings.IsArray() {
		return nil, aqserr.New(aqserr.CodeProvenanceQueryFailure, "SPARQL results carry no bindings")
	}

	var out []Solution
	var failed error
	bindings.ForEach(func(_, binding gjson.Result) bool {
		sol := Solution{}
		binding.ForEach(func(name, value gjson.Result) bool {
			term, err := bindingTerm(value)
			if err != nil {
				failed = aqserr.With(err, aqserr.Field("variable", name.String()))
				return false
			}
			sol[name.String()] = term
			return true
		})
		if failed != nil {
			return false
		}
		out = append(out, sol)
		return true
	})
	if failed != nil {
		return nil, failed
	}
	return out, nil
}

func bindingTerm(v gjson.Result) (rdfgraph.Term, error) {
	value := v.Get("value").String()
	switch v.Get("type").String() {
	case "uri":
		return rdfgraph.IRI(value), nil
	case "bnode":
		return rdfgraph.Blank(value), nil
	case "literal", "typed-literal":
		if lang := v.Get("xml:lang").String(); lang != "" {
			return rdfgraph.LangLiteral(value, lang), nil
		}
		if dt := v.Get("datatype").String(); dt != "" {
			return rdfgraph.TypedLiteral(value, dt), nil
		}
		return rdfgraph.Literal(value), nil
	}
	return rdfgraph.Term{}, aqserr.Errorf(aqserr.CodeProvenanceQueryFailure,
		"unknown binding type %q", v.Get("type").String())
}
