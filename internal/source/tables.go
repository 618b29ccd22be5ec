package source

import (
	"regexp"
	"strings"
)

const maxTableRows = 50

// columnGap separates aligned columns in extracted text.
var columnGap = regexp.MustCompile(`\s{2,}`)

// ColumnsToTables rewrites runs of space-aligned columns into GFM tables so
// the report generator, and the block parser after it, see them as tables.
// A run needs at least two lines with the same number (two or more) of
// columns separated by two or more spaces.
func ColumnsToTables(text string) string {
	lines := strings.Split(text, "\n")
	var out []string
	i := 0
	for i < len(lines) {
		block := columnRun(lines[i:])
		if len(block) < 2 {
			out = append(out, lines[i])
			i++
			continue
		}
		out = append(out, gfmRow(block[0]), gfmSeparator(len(block[0])))
		for _, row := range block[1:] {
			out = append(out, gfmRow(row))
		}
		i += len(block)
	}
	return strings.Join(out, "\n")
}

// columnRun collects the column cells of the leading lines that share one
// column count.
func columnRun(lines []string) [][]string {
	var block [][]string
	for _, ln := range lines {
		ln = strings.TrimRight(ln, " \t\r")
		if strings.TrimSpace(ln) == "" || strings.HasPrefix(strings.TrimSpace(ln), "|") {
			break
		}
		parts := splitColumns(ln)
		if len(parts) < 2 {
			break
		}
		if len(block) > 0 && len(parts) != len(block[0]) {
			break
		}
		block = append(block, parts)
		if len(block) >= maxTableRows {
			break
		}
	}
	return block
}

func splitColumns(s string) []string {
	return columnGap.Split(strings.TrimSpace(s), -1)
}

// gfmRow writes cells as a pipe table row. A pipe inside a cell would split
// it on the way back in, so it becomes a slash.
func gfmRow(cells []string) string {
	var b strings.Builder
	b.WriteByte('|')
	for _, c := range cells {
		b.WriteByte(' ')
		b.WriteString(strings.ReplaceAll(c, "|", "/"))
		b.WriteString(" |")
	}
	return b.String()
}

func gfmSeparator(n int) string {
	return "|" + strings.Repeat(" --- |", n)
}
