// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package query

import (
	"bufio"
	"bytes"
	"io"
	"regexp"
	"sort"
	"strings"
	"text/template"

	aqserr "github.com/odahub/renku-aqs/pkg/errors"
)

var tagRe = regexp.MustCompile(`^#\s*tag:\s*(\S+)\s*$`)

// Bank holds named query templates. A bank file is a sequence of blocks,
// each introduced by a "# tag: <name>" line.
type Bank struct {
	root  *template.Template
	names []string
}

var funcs = template.FuncMap{
	"literal": Literal,
}

// LoadBank parses the tagged blocks of r.
func LoadBank(r io.Reader) (*Bank, error) {
	b := &Bank{root: template.New("queries").Funcs(funcs).Option("missingkey=error")}

	var name string
	var body strings.Builder
	flush := func() error {
		if name == "" {
			return nil
		}
		if _, err := b.root.New(name).Parse(strings.TrimSpace(body.String())); err != nil {
			return aqserr.Wrap(err, aqserr.CodeQueryBuildFailure, "parse query template", aqserr.Field("query", name))
		}
		b.names = append(b.names, name)
		body.Reset()
		return nil
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if m := tagRe.FindStringSubmatch(line); m != nil {
			if err := flush(); err != nil {
				return nil, err
			}
			name = m[1]
			continue
		}
		if name != "" {
			body.WriteString(line)
			body.WriteByte('\n')
		}
	}
	if err := sc.Err(); err != nil {
		return nil, aqserr.Wrap(err, aqserr.CodeQueryBuildFailure, "read query bank")
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return b, nil
}

// Names lists the queries of the bank.
func (b *Bank) Names() []string {
	names := append([]string(nil), b.names...)
	sort.Strings(names)
	return names
}

// Prepare executes the named template with data.
func (b *Bank) Prepare(name string, data any) (string, error) {
	t := b.root.Lookup(name)
	if t == nil {
		return "", aqserr.Errorf(aqserr.CodeQueryTemplateNotFound, "unknown query %q", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", aqserr.Wrap(err, aqserr.CodeQueryBuildFailure, "build query", aqserr.Field("query", name))
	}
	return buf.String(), nil
}

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// Literal quotes s as a single-quoted SPARQL string literal.
func Literal(s string) string {
	return "'" + literalEscaper.Replace(s) + "'"
}
