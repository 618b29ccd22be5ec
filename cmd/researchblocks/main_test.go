package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/thywilljoshua/research-blocks/internal/ai"
	"github.com/thywilljoshua/research-blocks/internal/config"
	"github.com/thywilljoshua/research-blocks/internal/report"
)

const sample = "Intro\n|Col1|Col2|\n|---|---|\n|a|b|\n|c|d|\nOutro\n"

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	root := newRootCmd()
	var out bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&out)
	cfgPath := filepath.Join(t.TempDir(), "none.yaml")
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestSegment_StdinJSON(t *testing.T) {
	out, err := run(t, sample, "segment")
	require.NoError(t, err)

	var results []struct {
		Source  string            `json:"source"`
		Summary map[string]int    `json:"summary"`
		Blocks  []json.RawMessage `json:"blocks"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "-", results[0].Source)
	assert.Equal(t, 3, results[0].Summary["blocks"])
	assert.Equal(t, 1, results[0].Summary["tables"])
	assert.JSONEq(t, `{"type":"table","headers":["Col1","Col2"],"rows":[["a","b"],["c","d"]]}`, string(results[0].Blocks[1]))
}

func TestSegment_FilesMarkdown(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.md")
	b := filepath.Join(dir, "b.md")
	require.NoError(t, os.WriteFile(a, []byte(sample), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("No tables here.\n"), 0o644))

	out, err := run(t, "", "segment", "--format", "markdown", a, b)
	require.NoError(t, err)
	assert.Contains(t, out, "<!-- source: "+a+" -->\nIntro\n| Col1 | Col2 |\n| --- | --- |\n| a | b |\n")
	assert.Contains(t, out, "<!-- source: "+b+" -->\nNo tables here.\n")
	assert.Less(t, strings.Index(out, a), strings.Index(out, b))
}

func TestSegment_StdinNamedTwice(t *testing.T) {
	out, err := run(t, sample, "segment", "-", "-")
	require.NoError(t, err)

	var results []struct {
		Source string            `json:"source"`
		Blocks []json.RawMessage `json:"blocks"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, "-", r.Source)
		require.Len(t, r.Blocks, 3)
		assert.JSONEq(t, `{"type":"text","content":"Intro\n"}`, string(r.Blocks[0]))
	}
}

func TestWriteResult(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, writeResult(&out, report.Result{Slug: "s"}))
	assert.Contains(t, out.String(), `"slug": "s"`)

	err := writeResult(&out, map[string]any{"bad": make(chan int)})
	assert.ErrorContains(t, err, "encode result")
}

func TestSegment_Errors(t *testing.T) {
	_, err := run(t, "", "segment", filepath.Join(t.TempDir(), "missing.md"))
	assert.ErrorContains(t, err, "missing.md")

	_, err = run(t, sample, "segment", "--format", "html")
	assert.ErrorIs(t, err, config.ErrInvalidFormat)
}

func TestReportAndRender(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "holdings.txt")
	require.NoError(t, os.WriteFile(src, []byte("Name    Weight\nAcme    40%\nBeta    60%\n"), 0o644))

	out, err := run(t, "", "report", "Model Portfolio", "--source", src, "--out", dir, "--ai", "gemini")
	require.NoError(t, err)

	var res report.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "model-portfolio", res.Slug)
	assert.False(t, res.Generated)
	assert.Equal(t, 1, res.Summary.Tables)

	out, err = run(t, "", "render", res.BlocksPath, "--style", "notty")
	require.NoError(t, err)
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "60%")

	out, err = run(t, "", "render", res.MarkdownPath, "--style", "notty")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Model Portfolio\n"))
}

func TestNewReporter(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop()
	assert.Equal(t, ai.Noop{}, newReporter(ctx, config.AIConfig{Provider: "off"}, log))
	assert.Equal(t, ai.Noop{}, newReporter(ctx, config.AIConfig{Provider: "gemini"}, log))
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger(config.LoggingConfig{Level: "warn"}, false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	l, err = newLogger(config.LoggingConfig{Level: "warn"}, true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	_, err = newLogger(config.LoggingConfig{Level: "loud"}, false)
	assert.Error(t, err)
}
