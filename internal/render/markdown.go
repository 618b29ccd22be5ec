// Package render turns parsed block sequences back into something a person
// or another program can read.
package render

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/thywilljoshua/research-blocks/internal/blocks"
)

// Markdown writes the blocks back out as markdown. Text blocks are copied
// verbatim and tables are written as normalized GFM, so parsing the result
// gives blocks of the same kinds and shapes.
func Markdown(bs []blocks.Block) string {
	var b strings.Builder
	prevTable := false
	for _, blk := range bs {
		switch v := blk.(type) {
		case blocks.TextBlock:
			b.WriteString(v.Content)
			prevTable = false
		case blocks.TableBlock:
			if len(v.Headers) == 0 {
				continue
			}
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
				b.WriteByte('\n')
			}
			// Adjacent tables need a blank line or they would be read back as one.
			if prevTable {
				b.WriteByte('\n')
			}
			writeTable(&b, v)
			prevTable = true
		}
	}
	return b.String()
}

func writeTable(b *strings.Builder, t blocks.TableBlock) {
	writeRow(b, t.Headers)
	sep := make([]string, len(t.Headers))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(b, sep)
	for _, row := range t.Rows {
		writeRow(b, row)
	}
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("| ")
	b.WriteString(strings.Join(cells, " | "))
	b.WriteString(" |\n")
}

// JSON writes the blocks in their tagged JSON form.
func JSON(w io.Writer, bs []blocks.Block, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	if bs == nil {
		bs = []blocks.Block{}
	}
	return enc.Encode(bs)
}
