package source

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	rpdf "rsc.io/pdf"
)

// extractPages returns the text of each page, one string per page. Runs are
// grouped into lines by baseline and separated by two spaces when the gap
// between them is wide enough to be a column break.
func extractPages(raw []byte, maxPages int) (pages []string, err error) {
	// rsc.io/pdf panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read pdf: %v", r)
		}
	}()
	doc, err := rpdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	n := doc.NumPage()
	if maxPages > 0 && n > maxPages {
		n = maxPages
	}
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		p := doc.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, layoutText(p.Content().Text))
	}
	return pages, nil
}

func layoutText(runs []rpdf.Text) string {
	if len(runs) == 0 {
		return ""
	}
	rs := make([]rpdf.Text, len(runs))
	copy(rs, runs)
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].Y > rs[j].Y })

	var lines [][]rpdf.Text
	cur := []rpdf.Text{rs[0]}
	for _, t := range rs[1:] {
		if sameLine(cur[0], t) {
			cur = append(cur, t)
			continue
		}
		lines = append(lines, cur)
		cur = []rpdf.Text{t}
	}
	lines = append(lines, cur)

	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		sort.SliceStable(ln, func(i, j int) bool { return ln[i].X < ln[j].X })
		var b strings.Builder
		b.WriteString(ln[0].S)
		for i := 1; i < len(ln); i++ {
			prev, t := ln[i-1], ln[i]
			gap := t.X - (prev.X + prev.W)
			size := math.Max(prev.FontSize, 1)
			switch {
			case gap > 1.5*size:
				b.WriteString("  ")
			case gap > 0.2*size:
				b.WriteByte(' ')
			}
			b.WriteString(t.S)
		}
		out = append(out, b.String())
	}
	return strings.Join(out, "\n")
}

func sameLine(a, b rpdf.Text) bool {
	tol := math.Max(math.Min(a.FontSize, b.FontSize)*0.4, 1)
	return math.Abs(a.Y-b.Y) <= tol
}
