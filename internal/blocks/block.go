// Package blocks splits long-form report text into narrative text blocks and
// structured GFM tables.
package blocks

import (
	"encoding/json"
	"fmt"
)

type Kind int

const (
	KindText Kind = iota
	KindTable
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindTable:
		return "table"
	default:
		return "unknown"
	}
}

// Block is either a TextBlock or a TableBlock.
type Block interface {
	Kind() Kind
	block()
}

// TextBlock is a run of consecutive non-table lines, newlines included.
type TextBlock struct {
	Content string `json:"content"`
}

func (TextBlock) Kind() Kind { return KindText }
func (TextBlock) block()     {}

// TableBlock holds the cells of one GFM table. Row widths are not reconciled
// against the header width.
type TableBlock struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

func (TableBlock) Kind() Kind { return KindTable }
func (TableBlock) block()     {}

type wireBlock struct {
	Type    string     `json:"type"`
	Content *string    `json:"content,omitempty"`
	Headers []string   `json:"headers,omitempty"`
	Rows    [][]string `json:"rows,omitempty"`
}

func (b TextBlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string `json:"type"`
		Content string `json:"content"`
	}{"text", b.Content})
}

func (b TableBlock) MarshalJSON() ([]byte, error) {
	headers, rows := b.Headers, b.Rows
	if headers == nil {
		headers = []string{}
	}
	if rows == nil {
		rows = [][]string{}
	}
	return json.Marshal(struct {
		Type    string     `json:"type"`
		Headers []string   `json:"headers"`
		Rows    [][]string `json:"rows"`
	}{"table", headers, rows})
}

// DecodeJSON reads a block sequence written by json.Marshal([]Block).
func DecodeJSON(data []byte) ([]Block, error) {
	var raw []wireBlock
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode blocks: %w", err)
	}
	out := make([]Block, 0, len(raw))
	for i, w := range raw {
		switch w.Type {
		case "text":
			var content string
			if w.Content != nil {
				content = *w.Content
			}
			out = append(out, TextBlock{Content: content})
		case "table":
			t := TableBlock{Headers: w.Headers, Rows: w.Rows}
			if t.Headers == nil {
				t.Headers = []string{}
			}
			if t.Rows == nil {
				t.Rows = [][]string{}
			}
			out = append(out, t)
		default:
			return nil, fmt.Errorf("decode blocks: block %d has unknown type %q", i, w.Type)
		}
	}
	return out, nil
}

// Summary counts what a parse produced.
type Summary struct {
	Blocks int `json:"blocks"`
	Text   int `json:"text_blocks"`
	Tables int `json:"tables"`
	Rows   int `json:"table_rows"`
}

func Stats(bs []Block) Summary {
	s := Summary{Blocks: len(bs)}
	for _, b := range bs {
		switch v := b.(type) {
		case TextBlock:
			s.Text++
		case TableBlock:
			s.Tables++
			s.Rows += len(v.Rows)
		}
	}
	return s
}
