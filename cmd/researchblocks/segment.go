package main

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/thywilljoshua/research-blocks/internal/blocks"
	"github.com/thywilljoshua/research-blocks/internal/render"
)

type segmentResult struct {
	Source  string         `json:"source"`
	Summary blocks.Summary `json:"summary"`
	Blocks  []blocks.Block `json:"blocks"`
}

func segmentCmd(a *app) *cobra.Command {
	var format string
	var style string
	var width int

	cmd := &cobra.Command{
		Use:   "segment [file...]",
		Short: "Split text files (or stdin) into text and table blocks",
		RunE: func(cmd *cobra.Command, args []string) error {
			applyRenderFlags(cmd, a, format, style, width)
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			if len(args) == 0 {
				args = []string{"-"}
			}
			cache := blocks.NewCache(a.cfg.Cache.Size)
			// stdin can only be drained once, however often "-" is named.
			stdin, err := readStdin(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			results := make([]segmentResult, len(args))
			var g errgroup.Group
			for i, name := range args {
				g.Go(func() error {
					text := stdin
					if name != "-" {
						b, err := os.ReadFile(name)
						if err != nil {
							return fmt.Errorf("read %s: %w", name, err)
						}
						text = string(b)
					}
					bs := cache.Parse(text)
					results[i] = segmentResult{Source: name, Summary: blocks.Stats(bs), Blocks: bs}
					a.logger.Debug("Segmented input",
						zap.String("source", name),
						zap.Int("blocks", results[i].Summary.Blocks),
						zap.Int("tables", results[i].Summary.Tables))
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			hits, misses := cache.Counters()
			a.logger.Debug("Parse cache", zap.Int("hits", hits), zap.Int("misses", misses))
			return writeResults(cmd.OutOrStdout(), a, results)
		},
	}
	addRenderFlags(cmd, &format, &style, &width)
	return cmd
}

func readStdin(r io.Reader, args []string) (string, error) {
	if !slices.Contains(args, "-") {
		return "", nil
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(b), nil
}

func writeResults(w io.Writer, a *app, results []segmentResult) error {
	switch a.cfg.Render.Format {
	case "markdown":
		for _, r := range results {
			if len(results) > 1 {
				fmt.Fprintf(w, "<!-- source: %s -->\n", r.Source)
			}
			if _, err := io.WriteString(w, render.Markdown(r.Blocks)); err != nil {
				return err
			}
		}
		return nil
	case "terminal":
		term, err := newTerminal(a)
		if err != nil {
			return err
		}
		for _, r := range results {
			if err := term.Render(w, r.Blocks); err != nil {
				return fmt.Errorf("%s: %w", r.Source, err)
			}
		}
		return nil
	default:
		return writeResult(w, results)
	}
}

func addRenderFlags(cmd *cobra.Command, format, style *string, width *int) {
	cmd.Flags().StringVarP(format, "format", "f", "json", "output format: json|markdown|terminal")
	cmd.Flags().StringVar(style, "style", "auto", "terminal style: auto|dark|light|notty|...")
	cmd.Flags().IntVar(width, "width", 100, "terminal word wrap width")
}

// applyRenderFlags lets explicitly set flags override the config file.
func applyRenderFlags(cmd *cobra.Command, a *app, format, style string, width int) {
	if cmd.Flags().Changed("format") {
		a.cfg.Render.Format = format
	}
	if cmd.Flags().Changed("style") {
		a.cfg.Render.Style = style
	}
	if cmd.Flags().Changed("width") {
		a.cfg.Render.WordWrap = width
	}
}

func newTerminal(a *app) (*render.Terminal, error) {
	return render.NewTerminal(render.TerminalOptions{
		Style:    a.cfg.Render.Style,
		WordWrap: a.cfg.Render.WordWrap,
	})
}
