package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/olekukonko/tablewriter"

	"github.com/thywilljoshua/research-blocks/internal/blocks"
)

type TerminalOptions struct {
	// Style is a glamour standard style name ("dark", "light", "notty", ...)
	// or "auto".
	Style    string
	WordWrap int
}

// Terminal renders text blocks as styled markdown and tables as grids.
type Terminal struct {
	md *glamour.TermRenderer
}

func NewTerminal(opts TerminalOptions) (*Terminal, error) {
	var o []glamour.TermRendererOption
	switch opts.Style {
	case "", "auto":
		o = append(o, glamour.WithAutoStyle())
	default:
		o = append(o, glamour.WithStandardStyle(opts.Style))
	}
	if opts.WordWrap > 0 {
		o = append(o, glamour.WithWordWrap(opts.WordWrap))
	}
	r, err := glamour.NewTermRenderer(o...)
	if err != nil {
		return nil, fmt.Errorf("markdown renderer: %w", err)
	}
	return &Terminal{md: r}, nil
}

func (t *Terminal) Render(w io.Writer, bs []blocks.Block) error {
	for i, blk := range bs {
		switch v := blk.(type) {
		case blocks.TextBlock:
			out, err := t.md.Render(v.Content)
			if err != nil {
				return fmt.Errorf("render block %d: %w", i, err)
			}
			if _, err := io.WriteString(w, out); err != nil {
				return err
			}
		case blocks.TableBlock:
			if err := renderTable(w, v); err != nil {
				return fmt.Errorf("render block %d: %w", i, err)
			}
		}
	}
	return nil
}

func renderTable(w io.Writer, t blocks.TableBlock) error {
	width := len(t.Headers)
	if width == 0 {
		for _, row := range t.Rows {
			if len(row) > width {
				width = len(row)
			}
		}
	}
	if width == 0 {
		return nil
	}
	tw := tablewriter.NewWriter(w)
	if len(t.Headers) > 0 {
		hdr := make([]any, len(t.Headers))
		for i, h := range t.Headers {
			hdr[i] = h
		}
		tw.Header(hdr...)
	}
	for _, row := range t.Rows {
		if err := tw.Append(fitRow(row, width)); err != nil {
			return err
		}
	}
	return tw.Render()
}

// fitRow pads or truncates a row to width cells for display. The block
// itself keeps its original cells.
func fitRow(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}
