// Package report renders column profiles and cleaning statistics as
// markdown, or as a standalone HTML page.
package report

import (
	"fmt"
	"math"
	"strings"

	"catalogclean/domain/run"
	"catalogclean/internal/profiling"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// ProfileReport is everything the profile command prints
type ProfileReport struct {
	Title    string
	Source   string
	Rows     int
	Columns  int
	Profiles []profiling.ColumnProfile
	// Stats is nil when the table was profiled without cleaning
	Stats *run.CleanStats
}

var profileHeader = []string{
	"column", "type", "count", "missing", "mean", "std", "min", "q1", "median", "q3", "max",
	"skew", "lower", "upper", "outliers",
}

// Markdown renders the report as GitHub-style markdown
func Markdown(r ProfileReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.Title)
	fmt.Fprintf(&b, "Source: `%s` (%d rows, %d columns)\n\n", r.Source, r.Rows, r.Columns)

	b.WriteString("## Numeric columns\n\n")
	if len(r.Profiles) == 0 {
		b.WriteString("No numeric columns.\n")
	} else {
		writeRow(&b, profileHeader)
		writeSeparator(&b, len(profileHeader))
		for _, p := range r.Profiles {
			writeRow(&b, profileRow(p))
		}
	}

	if r.Stats != nil {
		b.WriteString("\n## Cleaning\n\n")
		fmt.Fprintf(&b, "- Values imputed: %d\n", r.Stats.ValuesImputed)
		fmt.Fprintf(&b, "- Invalid dates: %d\n", r.Stats.InvalidDates)
		fmt.Fprintf(&b, "- Duplicates removed: %d\n", r.Stats.DuplicatesRemoved)
		fmt.Fprintf(&b, "- Values clipped: %d\n", r.Stats.ValuesClipped)

		if len(r.Stats.Bounds) > 0 {
			b.WriteString("\n")
			header := []string{"column", "q1", "q3", "iqr", "lower", "upper", "clipped"}
			writeRow(&b, header)
			writeSeparator(&b, len(header))
			for _, cb := range r.Stats.Bounds {
				writeRow(&b, []string{
					cb.Column, num(cb.Q1), num(cb.Q3), num(cb.IQR), num(cb.Lower), num(cb.Upper),
					fmt.Sprint(cb.Clipped),
				})
			}
		}
	}

	return b.String()
}

// HTML renders the markdown report as a complete HTML page
func HTML(r ProfileReport) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: r.Title,
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.ToHTML([]byte(Markdown(r)), p, renderer)
}

func profileRow(p profiling.ColumnProfile) []string {
	if p.Empty {
		row := []string{p.Column, string(p.Type), "0", fmt.Sprint(p.Missing)}
		for len(row) < len(profileHeader) {
			row = append(row, "")
		}
		return row
	}

	s := p.Summary
	return []string{
		p.Column,
		string(p.Type),
		fmt.Sprint(s.Count),
		fmt.Sprint(p.Missing),
		num(s.Mean),
		num(s.StdDev),
		num(s.Min),
		num(s.Bounds.Q1),
		num(s.Median),
		num(s.Bounds.Q3),
		num(s.Max),
		num(s.Skewness),
		num(s.Bounds.Lower),
		num(s.Bounds.Upper),
		fmt.Sprint(s.Outliers),
	}
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(strings.ReplaceAll(c, "|", `\|`))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

func writeSeparator(b *strings.Builder, n int) {
	b.WriteString("|")
	for i := 0; i < n; i++ {
		b.WriteString("---|")
	}
	b.WriteString("\n")
}

// num prints two decimals; NaN and infinities print as "n/a"
func num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}
