// Package source loads the research material a report is generated from.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Document struct {
	Name  string
	Path  string
	Pages []string
	// Raw holds the file bytes for PDFs so they can be attached inline.
	Raw []byte
}

type LoadOptions struct {
	MaxPages      int
	DetectColumns bool
}

// Text joins the pages with blank lines between them.
func (d Document) Text() string {
	var parts []string
	for _, p := range d.Pages {
		if t := strings.TrimSpace(p); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n\n")
}

func (d Document) IsPDF() bool { return isPDF(d.Path) }

// Load reads a PDF page by page, or any other file as a single page of text.
func Load(path string, opts LoadOptions) (Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("load source %s: %w", path, err)
	}
	doc := Document{
		Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Path: path,
	}
	if isPDF(path) {
		pages, err := extractPages(b, opts.MaxPages)
		if err != nil {
			return Document{}, fmt.Errorf("load source %s: %w", path, err)
		}
		doc.Pages = pages
		doc.Raw = b
	} else {
		doc.Pages = []string{string(b)}
	}
	if opts.DetectColumns {
		for i, p := range doc.Pages {
			doc.Pages[i] = ColumnsToTables(p)
		}
	}
	return doc, nil
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}
