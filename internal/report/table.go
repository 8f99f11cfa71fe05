// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

// Package report builds the leaderboard and params tables.
package report

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	aqserr "github.com/odahub/renku-aqs/pkg/errors"
	"github.com/odahub/renku-aqs/pkg/types"
)

// Table is a titled grid of strings.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	// RightAligned lists columns printed flush right.
	RightAligned map[int]bool
}

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// ASCII renders t with box drawing borders.
func (t Table) ASCII() string {
	right := t.RightAligned
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(t.Headers...).
		Rows(t.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return cellStyle.Bold(true).Align(lipgloss.Center)
			}
			if right[col] {
				return cellStyle.Align(lipgloss.Right)
			}
			return cellStyle.Align(lipgloss.Left)
		})
	return tbl.String()
}

var markdownEscaper = strings.NewReplacer("|", `\|`, "\n", " ")

// Markdown renders t as a pipe table.
func (t Table) Markdown() string {
	var b strings.Builder
	line := func(cells []string) {
		b.WriteString("|")
		for _, c := range cells {
			b.WriteString(" " + markdownEscaper.Replace(c) + " |")
		}
		b.WriteString("\n")
	}
	line(t.Headers)
	b.WriteString("|")
	for i := range t.Headers {
		if t.RightAligned[i] {
			b.WriteString("---:|")
		} else {
			b.WriteString("---|")
		}
	}
	b.WriteString("\n")
	for _, row := range t.Rows {
		line(row)
	}
	return b.String()
}

type jsonTable struct {
	Title string              `json:"title,omitempty"`
	Rows  []map[string]string `json:"rows"`
}

func (t Table) records() jsonTable {
	out := jsonTable{Title: t.Title, Rows: make([]map[string]string, 0, len(t.Rows))}
	for _, row := range t.Rows {
		rec := make(map[string]string, len(t.Headers))
		for i, h := range t.Headers {
			if i < len(row) {
				rec[h] = row[i]
			}
		}
		out.Rows = append(out.Rows, rec)
	}
	return out
}

// Write prints tables to w in the given format. Notes are appended after
// the tables; JSON output carries them in a "notes" array.
func Write(w io.Writer, format types.TableFormat, tables []Table, notes ...string) error {
	var err error
	switch format {
	case types.TableFormatJSON:
		doc := struct {
			Tables []jsonTable `json:"tables"`
			Notes  []string    `json:"notes,omitempty"`
		}{Notes: notes}
		for _, t := range tables {
			doc.Tables = append(doc.Tables, t.records())
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(doc)
	case types.TableFormatMarkdown:
		err = writeText(w, tables, notes, func(t Table) string {
			if t.Title == "" {
				return t.Markdown()
			}
			return "### " + t.Title + "\n\n" + t.Markdown()
		})
	case types.TableFormatASCII, "":
		err = writeText(w, tables, notes, func(t Table) string { return t.ASCII() + "\n" })
	default:
		return aqserr.Errorf(aqserr.CodeReportFormatInvalid, "invalid table format: %q", format)
	}
	if err != nil {
		return aqserr.Wrap(err, aqserr.CodeInternalFailure, "write report")
	}
	return nil
}

func writeText(w io.Writer, tables []Table, notes []string, render func(Table) string) error {
	for _, t := range tables {
		if _, err := io.WriteString(w, render(t)+"\n"); err != nil {
			return err
		}
	}
	for _, n := range notes {
		if _, err := io.WriteString(w, n+"\n\n"); err != nil {
			return err
		}
	}
	return nil
}
