package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thywilljoshua/research-blocks/internal/ai"
	"github.com/thywilljoshua/research-blocks/internal/blocks"
)

type fakeReporter struct {
	out     string
	summary string
	err     error
	got     ai.ReportRequest
}

func (f *fakeReporter) GenerateReport(ctx context.Context, req ai.ReportRequest) (string, error) {
	f.got = req
	return f.out, f.err
}

func (f *fakeReporter) Summarize(ctx context.Context, text string, maxWords int) (string, error) {
	return f.summary, nil
}

func fixedNow() time.Time { return time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC) }

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestRun_GeneratedReport(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "notes.txt", "Capex guidance raised.")
	rep := &fakeReporter{out: "```markdown\n## Peers\n\n| Ticker | EV/EBITDA |\n|---|---:|\n| TSM | 11.2 |\n| INTC | 9.8 |\n\nValuation is stretched.\n```", summary: " TSM trades at a premium. "}

	res, err := Run(context.Background(), Config{
		OutDir:   filepath.Join(dir, "out"),
		Topic:    "Foundry Peers / 2026",
		Sources:  []string{src},
		Reporter: rep,
		Cache:    blocks.NewCache(4),
		Now:      fixedNow,
	})
	require.NoError(t, err)

	assert.Equal(t, "foundry-peers-2026", res.Slug)
	assert.True(t, res.Generated)
	assert.Equal(t, blocks.Summary{Blocks: 3, Text: 2, Tables: 1, Rows: 2}, res.Summary)
	require.Len(t, rep.got.Sources, 1)
	assert.Equal(t, "notes", rep.got.Sources[0].Name)
	assert.Equal(t, "Capex guidance raised.", rep.got.Sources[0].Text)
	assert.Nil(t, rep.got.Sources[0].PDF)

	md, err := os.ReadFile(res.MarkdownPath)
	require.NoError(t, err)
	assert.Contains(t, string(md), "title: Foundry Peers / 2026\n")
	assert.Contains(t, string(md), "2026-03-02T09:30:00Z")
	assert.Contains(t, string(md), "| Ticker | EV/EBITDA |\n| --- | --- |\n| TSM | 11.2 |\n")
	assert.NotContains(t, string(md), "```")
	assert.Contains(t, string(md), "description: TSM trades at a premium.\n")

	saved, err := Open(res.BlocksPath, nil)
	require.NoError(t, err)
	fromMD, err := Open(res.MarkdownPath, nil)
	require.NoError(t, err)
	assert.Equal(t, "Foundry Peers / 2026", fromMD.Title)

	want := blocks.TableBlock{
		Headers: []string{"Ticker", "EV/EBITDA"},
		Rows:    [][]string{{"TSM", "11.2"}, {"INTC", "9.8"}},
	}
	for _, bs := range [][]blocks.Block{saved.Blocks, fromMD.Blocks} {
		require.Len(t, bs, 3)
		if diff := cmp.Diff(want, bs[1]); diff != "" {
			t.Errorf("table mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestRun_FallsBackToSources(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "holdings.txt", "Position    Weight\nAcme        40%\nBeta        60%\n")

	res, err := Run(context.Background(), Config{
		OutDir:        dir,
		Topic:         "Holdings",
		Slug:          "h1",
		Sources:       []string{src},
		DetectColumns: true,
		Now:           fixedNow,
	})
	require.NoError(t, err)
	assert.False(t, res.Generated)
	assert.Equal(t, filepath.Join(dir, "h1.md"), res.MarkdownPath)
	assert.Equal(t, 1, res.Summary.Tables)
	assert.Equal(t, 2, res.Summary.Rows)
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	_, err := Run(ctx, Config{OutDir: dir, Topic: "  "})
	assert.ErrorContains(t, err, "topic is required")

	_, err = Run(ctx, Config{OutDir: dir, Topic: "x", Sources: []string{filepath.Join(dir, "missing.pdf")}})
	assert.ErrorContains(t, err, "load source")

	boom := errors.New("quota exceeded")
	_, err = Run(ctx, Config{OutDir: dir, Topic: "x", Reporter: &fakeReporter{err: boom}})
	assert.ErrorIs(t, err, boom)
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Foundry Peers / 2026":   "foundry-peers-2026",
		"  Q3 Earnings: NVDA!  ": "q3-earnings-nvda",
		"v1.2 -- draft":          "v1-2-draft",
		"Überblick":              "berblick",
		"???":                    "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestReadFrontMatter(t *testing.T) {
	fm, body, err := readFrontMatter("---\ntitle: T\ntopic: T\ngenerated: x\n---\n\nBody\n")
	require.NoError(t, err)
	assert.Equal(t, "T", fm.Title)
	assert.Equal(t, "\nBody\n", body)

	_, body, err = readFrontMatter("No front matter\n")
	require.NoError(t, err)
	assert.Equal(t, "No front matter\n", body)
}
