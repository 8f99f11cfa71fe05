// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package visual

import (
	"log/slog"
	"strings"
	"time"
)

const outputPrefix = "CommandOutput"

// Transform restyles g in place. typeLabels maps node titles to the local
// name of their type; nodes whose title is not in it keep their layout
// except for the title background.
func Transform(g *Graph, typeLabels map[string]string) {
	for _, e := range g.Edges {
		customizeEdge(e)
	}
	for _, n := range g.Nodes {
		if name, ok := typeLabels[n.Title]; ok {
			customizeNode(n, ParseNodeKind(name), name)
			continue
		}
		clearTitleBackground(n)
	}
}

// customizeEdge keeps only the local part of the predicate label.
func customizeEdge(e *Edge) {
	if parts := strings.Split(e.Label, ":"); len(parts) > 1 {
		e.Label = parts[1]
	}
}

func clearTitleBackground(n *Node) {
	if len(n.Table.Rows) > 0 && len(n.Table.Rows[0].Cells) > 0 {
		n.Table.Rows[0].Cells[0].BgColor = ""
	}
}

func customizeNode(n *Node, kind NodeKind, typeName string) {
	style := kind.Style()
	rows := n.Table.Rows
	if len(rows) < 2 {
		return
	}
	clearTitleBackground(n)

	title := &rows[0].Cells[0]
	if kind != KindCommandParameter {
		title.Text = typeName
	}
	if strings.HasPrefix(title.Text, outputPrefix) && title.Text != outputPrefix {
		title.Text = title.Text[len(outputPrefix):]
	}

	n.Style = "filled"
	n.Shape = style.Shape
	if style.Color != "" {
		n.Color = style.Color
	}
	n.Table.Border = 0
	if style.Bordered {
		n.Table.Border = 1
	}
	n.Table.CellBorder = 0

	var kept []Row
	var bottom []Row
	if !style.DropTitle {
		kept = append(kept, rows[0])
	}
	// rows[1] is the IRI row.
	for _, row := range rows[2:] {
		if len(row.Cells) != 2 {
			kept = append(kept, row)
			continue
		}
		value := row.Cells[1]
		value.Align = "center"
		value.ColSpan = 2
		text := unquote(value.Text)

		if hasSegment(row.Predicate, "startedAtTime") {
			bottom = append(bottom, Row{
				Predicate: row.Predicate,
				Cells:     []Cell{{Text: formatStartTime(text), Align: "center", ColSpan: 2}},
			})
			continue
		}

		if style.TitleFromValue && hasSegment(row.Predicate, "defaultValue") {
			words := strings.Split(text, " ")
			if !style.DropTitle {
				kept[0].Cells[0].Text = words[0]
			}
			text = strings.Join(words[1:], " ")
		}
		value.Text = text
		if style.BoldCommand && hasSegment(row.Predicate, "command") {
			value.Bold = true
		}
		if style.Emphasize {
			value.Bold = true
			value.Italic = true
		}
		kept = append(kept, Row{Predicate: row.Predicate, Cells: []Cell{value}})
	}
	n.Table.Rows = append(kept, bottom...)
}

// unquote strips the quotes of a formatted literal along with any datatype
// or language suffix.
func unquote(s string) string {
	if !strings.HasPrefix(s, `"`) {
		return s
	}
	end := strings.LastIndex(s, `"`)
	if end <= 0 {
		return s[1:]
	}
	return s[1:end]
}

func hasSegment(qname, name string) bool {
	for _, part := range strings.Split(qname, ":") {
		if part == name {
			return true
		}
	}
	return false
}

var startTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// formatStartTime renders a timestamp as "YYYY-MM-DD HH:MM:SS" in the
// offset it was recorded with. Unparseable text is returned unchanged.
func formatStartTime(text string) string {
	for _, layout := range startTimeLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t.Format(time.DateTime)
		}
	}
	slog.Warn("cannot parse start time", "value", text)
	return text
}
