package render

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// HeaderTable writes the header as a two column table pairing every column
// name with the index to pass to --index.
func HeaderTable(w io.Writer, header []string) error {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"index", "name"})
	for i, name := range header {
		t.AppendRow(table.Row{i, name})
	}
	t.SetStyle(table.StyleLight)
	t.Style().Format = table.FormatOptions{
		Footer: text.FormatDefault,
		Header: text.FormatUpper,
		Row:    text.FormatDefault,
	}
	t.Style().Options.DrawBorder = false
	out := t.Render()

	if _, err := io.WriteString(w, out+"\n"); err != nil {
		return err
	}
	return nil
}
