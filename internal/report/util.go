package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/thywilljoshua/research-blocks/internal/blocks"
)

// Slugify lowercases s and joins its runs of ASCII letters and digits with
// hyphens, so "Q3 Earnings: NVDA" becomes "q3-earnings-nvda".
func Slugify(s string) string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})
	return strings.Join(words, "-")
}

type frontMatter struct {
	Title       string `yaml:"title"`
	Topic       string `yaml:"topic"`
	Generated   string `yaml:"generated"`
	Description string `yaml:"description,omitempty"`
}

func (f frontMatter) encode() (string, error) {
	b, err := yaml.Marshal(f)
	if err != nil {
		return "", err
	}
	return "---\n" + string(b) + "---\n", nil
}

// readFrontMatter splits a markdown file written by Run into its front matter
// and body.
func readFrontMatter(doc string) (frontMatter, string, error) {
	var fm frontMatter
	if !strings.HasPrefix(doc, "---\n") {
		return fm, doc, nil
	}
	rest := doc[len("---\n"):]
	end := strings.Index(rest, "\n---\n")
	if end == -1 {
		return fm, doc, nil
	}
	if err := yaml.Unmarshal([]byte(rest[:end]), &fm); err != nil {
		return fm, doc, err
	}
	return fm, rest[end+len("\n---\n"):], nil
}

// Saved is a report read back from disk.
type Saved struct {
	Title  string
	Blocks []blocks.Block
}

// Open reads a <slug>.blocks.json file, or a markdown report whose body is
// parsed again.
func Open(path string, cache *blocks.Cache) (Saved, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Saved{}, fmt.Errorf("open report: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		bs, err := blocks.DecodeJSON(data)
		if err != nil {
			return Saved{}, fmt.Errorf("open report %s: %w", path, err)
		}
		return Saved{Blocks: bs}, nil
	}
	fm, body, err := readFrontMatter(string(data))
	if err != nil {
		return Saved{}, fmt.Errorf("open report %s: front matter: %w", path, err)
	}
	return Saved{Title: fm.Title, Blocks: cache.Parse(body)}, nil
}
