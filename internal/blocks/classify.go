package blocks

import (
	"regexp"
	"strings"
)

// A separator cell is an optional colon, one or more hyphens and an optional
// colon. Padding is any Unicode whitespace and is trimmed before matching.
var separatorCellRe = regexp.MustCompile(`^:?-+:?$`)

// looksLikeTableRow reports whether the trimmed line is anchored by a pipe at
// both ends. "||" counts; a lone "|" does not.
func looksLikeTableRow(line string) bool {
	t := strings.TrimSpace(line)
	return len(t) >= 2 && t[0] == '|' && t[len(t)-1] == '|'
}

func looksLikeSeparatorRow(line string) bool {
	if !looksLikeTableRow(line) {
		return false
	}
	t := strings.TrimSpace(line)
	for _, cell := range strings.Split(t[1:len(t)-1], "|") {
		if !separatorCellRe.MatchString(strings.TrimSpace(cell)) {
			return false
		}
	}
	return true
}
