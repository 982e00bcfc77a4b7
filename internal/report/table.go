package report

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Mode controls the table output format.
type Mode int

const (
	ModeASCII    Mode = iota // Fixed-width terminal tables
	ModeMarkdown             // GitHub-flavoured Markdown tables
)

// tableBuilder wraps a go-pretty writer that renders in one mode.
type tableBuilder struct {
	writer table.Writer
	mode   Mode
}

func newTable(m Mode, header ...any) *tableBuilder {
	w := table.NewWriter()
	if m == ModeASCII {
		w.SetStyle(table.StyleLight)
	}
	w.AppendHeader(table.Row(header))
	return &tableBuilder{writer: w, mode: m}
}

func (b *tableBuilder) row(vals ...any) {
	b.writer.AppendRow(table.Row(vals))
}

// alignRight right-aligns the given 1-based columns.
func (b *tableBuilder) alignRight(cols ...int) {
	cfgs := make([]table.ColumnConfig, len(cols))
	for i, c := range cols {
		cfgs[i] = table.ColumnConfig{Number: c, Align: text.AlignRight}
	}
	b.writer.SetColumnConfigs(cfgs)
}

func (b *tableBuilder) String() string {
	if b.mode == ModeMarkdown {
		return b.writer.RenderMarkdown()
	}
	return b.writer.Render()
}
