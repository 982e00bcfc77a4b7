// Package report renders analysis results as terminal tables, Markdown and
// HTML.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"

	"gomlready/domain/analysis"
)

// TopFeatures caps the feature table; the JSON result keeps all of them.
const TopFeatures = 10

// Markdown renders the full report.
func Markdown(res *analysis.Result) string {
	var b strings.Builder
	title := res.Source
	if title == "" {
		title = res.ID.String()
	}
	fmt.Fprintf(&b, "# ML Readiness Report: %s\n\n", title)
	writeSections(&b, res, ModeMarkdown)
	return b.String()
}

// Text renders the report for a terminal, using box-drawn tables.
func Text(res *analysis.Result) string {
	var b strings.Builder
	writeSections(&b, res, ModeASCII)
	return b.String()
}

// HTML converts the Markdown report to a standalone HTML page.
func HTML(res *analysis.Result) []byte {
	body := markdown.ToHTML([]byte(Markdown(res)), nil, nil)

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>ML Readiness Report %s</title>\n", res.ID)
	page.WriteString("<style>body{font-family:sans-serif;max-width:960px;margin:2em auto}table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:4px 8px}</style>\n")
	page.WriteString("</head>\n<body>\n")
	page.Write(body)
	page.WriteString("</body>\n</html>\n")
	return page.Bytes()
}

func writeSections(b *strings.Builder, res *analysis.Result, mode Mode) {
	heading := func(s string) {
		if mode == ModeMarkdown {
			fmt.Fprintf(b, "## %s\n\n", s)
		} else {
			fmt.Fprintf(b, "%s\n%s\n", s, strings.Repeat("=", len(s)))
		}
	}

	heading("Dataset")
	info := res.DatasetInfo
	fmt.Fprintf(b, "- Rows: %d\n- Columns: %d\n- Memory: %.2f MB\n", info.Rows, info.Columns, info.MemoryUsageMB)
	if res.Quality != nil {
		fmt.Fprintf(b, "- Quality score: %.1f/100\n", res.Quality.QualityScore)
	}
	fmt.Fprintf(b, "- Pipeline ready: %v\n\n", res.PipelineReady)

	if len(res.StageErrors) > 0 {
		heading("Errors")
		for _, e := range res.StageErrors {
			fmt.Fprintf(b, "- **%s** (%s): %s\n", e.Stage, e.Code, e.Message)
		}
		b.WriteString("\n")
	}
	if len(res.Warnings) > 0 {
		heading("Warnings")
		for _, w := range res.Warnings {
			fmt.Fprintf(b, "- %s\n", w)
		}
		b.WriteString("\n")
	}

	if q := res.Quality; q != nil && len(q.Profiles) > 0 {
		heading("Columns")
		t := newTable(mode, "Column", "Type", "Confidence", "Missing %", "Unique")
		for _, p := range q.Profiles {
			t.row(p.Name, p.Type, fmt.Sprintf("%.2f", p.TypeConfidence), fmt.Sprintf("%.1f", p.NullPercentage), p.Unique)
		}
		t.alignRight(3, 4, 5)
		b.WriteString(t.String() + "\n\n")

		heading("Quality Issues")
		if len(q.Issues) == 0 {
			b.WriteString("No issues found.\n\n")
		} else {
			t := newTable(mode, "Severity", "Column", "Issue", "Message")
			for _, is := range q.Issues {
				col := is.Column
				if col == "" {
					col = strings.Join(is.Columns, ", ")
				}
				t.row(is.Severity, col, is.Kind, is.Message)
			}
			b.WriteString(t.String() + "\n\n")
		}
	}

	if d := res.Task; d != nil {
		heading("Task")
		if d.TaskType == nil {
			b.WriteString("No target column detected.\n\n")
		} else {
			fmt.Fprintf(b, "- Task: %s\n- Target: %s\n- Confidence: %.2f\n", *d.TaskType, d.Target(), d.Confidence)
			if d.NumClasses != nil {
				fmt.Fprintf(b, "- Classes: %d\n", *d.NumClasses)
			}
			if d.BalanceRatio != nil {
				fmt.Fprintf(b, "- Balance ratio: %.3f (imbalanced: %v)\n", *d.BalanceRatio, d.IsImbalanced)
			}
			for _, r := range d.Reasoning {
				fmt.Fprintf(b, "- %s\n", r)
			}
			b.WriteString("\n")
		}
	}

	if len(res.Features) > 0 {
		heading("Feature Engineering")
		t := newTable(mode, "Priority", "Column", "Technique", "Reason")
		for i, f := range res.Features {
			if i == TopFeatures {
				break
			}
			t.row(f.Priority, f.Column, f.Technique, f.Reason)
		}
		b.WriteString(t.String() + "\n")
		if n := len(res.Features); n > TopFeatures {
			fmt.Fprintf(b, "\n%d more suggestions in the JSON result.\n", n-TopFeatures)
		}
		b.WriteString("\n")
	}

	if len(res.Models) > 0 {
		heading("Model Ranking")
		t := newTable(mode, "#", "Model", "Score", "Priority", "Reason")
		for i, m := range res.Models {
			t.row(i+1, m.Name, m.Score, m.Priority, m.Reason)
		}
		t.alignRight(1, 3)
		b.WriteString(t.String() + "\n\n")
	}
}
