package blocks

import "strings"

// parseRow splits one pipe-anchored line into trimmed cells. Escaped pipes
// ("\|") are not recognised and split the cell they appear in.
func parseRow(line string) []string {
	s := strings.TrimSpace(line)
	s = strings.TrimPrefix(s, "|")
	s = strings.TrimSuffix(s, "|")
	cells := strings.Split(s, "|")
	for i, c := range cells {
		cells[i] = strings.TrimSpace(c)
	}
	return cells
}

// materialize turns a buffered header, separator and body rows into a table.
// Fewer than two lines yield an empty table.
func materialize(lines []string) TableBlock {
	if len(lines) < 2 {
		return TableBlock{Headers: []string{}, Rows: [][]string{}}
	}
	t := TableBlock{
		Headers: parseRow(lines[0]),
		Rows:    make([][]string, 0, len(lines)-2),
	}
	for _, ln := range lines[2:] {
		t.Rows = append(t.Rows, parseRow(ln))
	}
	return t
}
