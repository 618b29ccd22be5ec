package blocks

import "strings"

type mode int

const (
	scanning mode = iota
	inTable
)

// segmenter is the per-call state folded across the input lines.
type segmenter struct {
	mode  mode
	text  strings.Builder
	table []string
	out   []Block
}

// Parse splits s into text and table blocks in input order. Inputs that cannot
// hold a table come back as a single TextBlock without being scanned.
func Parse(s string) []Block {
	if !mayContainTable(s) {
		return []Block{TextBlock{Content: s}}
	}
	return Segment(s)
}

// mayContainTable is the cheap pre-check: a table needs a pipe and a
// separator run of hyphens.
func mayContainTable(s string) bool {
	return strings.Contains(s, "|") && strings.Contains(s, "---")
}

// Segment runs the line scanner over s unconditionally.
func Segment(s string) []Block {
	lines := splitLines(s)
	var sg segmenter
	for i, ln := range lines {
		var next string
		hasNext := i+1 < len(lines)
		if hasNext {
			next = lines[i+1].text
		}
		sg.step(ln, next, hasNext)
	}
	sg.finish()
	if len(sg.out) == 0 {
		// Table-free blank input still yields one block.
		return []Block{TextBlock{Content: s}}
	}
	return sg.out
}

func (sg *segmenter) step(ln line, next string, hasNext bool) {
	if sg.mode == inTable {
		if looksLikeTableRow(ln.text) {
			sg.table = append(sg.table, ln.text)
			return
		}
		sg.flushTable()
		sg.mode = scanning
	}
	if looksLikeTableRow(ln.text) && hasNext && looksLikeSeparatorRow(next) {
		sg.flushText()
		sg.mode = inTable
		sg.table = []string{ln.text}
		return
	}
	sg.text.WriteString(ln.text)
	sg.text.WriteString(ln.eol)
}

func (sg *segmenter) finish() {
	if sg.mode == inTable && len(sg.table) > 0 {
		sg.flushTable()
	}
	sg.flushText()
}

// flushText emits the pending text run unless it is blank, and always clears it.
func (sg *segmenter) flushText() {
	content := sg.text.String()
	sg.text.Reset()
	if strings.TrimSpace(content) == "" {
		return
	}
	sg.out = append(sg.out, TextBlock{Content: content})
}

func (sg *segmenter) flushTable() {
	sg.out = append(sg.out, materialize(sg.table))
	sg.table = nil
}

type line struct {
	text string
	eol  string // "\n", or "" for an unterminated last line
}

// splitLines splits on '\n'. A trailing newline terminates the last line and
// does not start an empty one.
func splitLines(s string) []line {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "\n")
	out := make([]line, 0, len(parts))
	for i, p := range parts {
		if i == len(parts)-1 {
			if p != "" {
				out = append(out, line{text: p})
			}
			break
		}
		out = append(out, line{text: p, eol: "\n"})
	}
	return out
}
