// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package visual

import (
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	aqserr "github.com/odahub/renku-aqs/pkg/errors"
)

// WriteDOT serializes g as a Graphviz digraph with HTML-like labels.
func WriteDOT(w io.Writer, g *Graph) error {
	var b strings.Builder
	b.WriteString("digraph {\n")
	font := g.FontName
	if font == "" {
		font = defaultFont
	}
	fmt.Fprintf(&b, "\tnode [ fontname=%s ] ;\n", strconv.Quote(font))

	for _, e := range g.Edges {
		fmt.Fprintf(&b, "\t%s -> %s [ color=%s, label=< %s > ] ;\n",
			e.From, e.To, strconv.Quote(e.Color), fontMarkup(&e.Font, html.EscapeString(e.Label)))
	}
	for _, n := range g.Nodes {
		attrs := []string{"shape=" + strconv.Quote(n.Shape)}
		if n.Style != "" {
			attrs = append(attrs, "style="+strconv.Quote(n.Style))
		}
		if n.Color != "" {
			attrs = append(attrs, "color="+strconv.Quote(n.Color))
		}
		attrs = append(attrs, "label=< "+tableMarkup(&n.Table)+" >")
		fmt.Fprintf(&b, "\t%s [ %s ] ;\n", n.ID, strings.Join(attrs, ", "))
	}
	b.WriteString("}\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return aqserr.Wrap(err, aqserr.CodeRenderFailure, "write dot")
	}
	return nil
}

func tableMarkup(t *Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<table color='%s' border='%d' cellborder='%d' cellspacing='%d'>",
		t.Color, t.Border, t.CellBorder, t.CellSpacing)
	for _, row := range t.Rows {
		b.WriteString("<tr>")
		for i := range row.Cells {
			b.WriteString(cellMarkup(&row.Cells[i]))
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table>")
	return b.String()
}

func cellMarkup(c *Cell) string {
	var attrs strings.Builder
	if c.Align != "" {
		fmt.Fprintf(&attrs, " align='%s'", c.Align)
	}
	if c.ColSpan > 1 {
		fmt.Fprintf(&attrs, " colspan='%d'", c.ColSpan)
	}
	if c.BgColor != "" {
		fmt.Fprintf(&attrs, " bgcolor='%s'", c.BgColor)
	}
	if c.Href != "" {
		fmt.Fprintf(&attrs, " href='%s'", html.EscapeString(c.Href))
	}

	text := html.EscapeString(c.Text)
	if c.Italic {
		text = "<I>" + text + "</I>"
	}
	if c.Bold {
		text = "<B>" + text + "</B>"
	}
	if c.Font != nil {
		text = fontMarkup(c.Font, text)
	}
	return "<td" + attrs.String() + ">" + text + "</td>"
}

func fontMarkup(f *Font, inner string) string {
	if f == nil || (f.PointSize == 0 && f.Color == "") {
		return inner
	}
	var attrs strings.Builder
	if f.PointSize > 0 {
		fmt.Fprintf(&attrs, " point-size='%d'", f.PointSize)
	}
	if f.Color != "" {
		fmt.Fprintf(&attrs, " color='%s'", f.Color)
	}
	return "<font" + attrs.String() + ">" + inner + "</font>"
}
