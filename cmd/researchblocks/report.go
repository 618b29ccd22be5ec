package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thywilljoshua/research-blocks/internal/ai"
	"github.com/thywilljoshua/research-blocks/internal/blocks"
	"github.com/thywilljoshua/research-blocks/internal/config"
	"github.com/thywilljoshua/research-blocks/internal/report"
)

func reportCmd(a *app) *cobra.Command {
	var out string
	var sources []string
	var aiProvider string
	var model string
	var slug string
	var maxPages int
	var columns bool

	cmd := &cobra.Command{
		Use:   "report <topic>",
		Short: "Generate a research report from sources and split it into blocks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if cmd.Flags().Changed("out") {
				cfg.Report.OutDir = out
			}
			if cmd.Flags().Changed("ai") {
				cfg.AI.Provider = aiProvider
			}
			if cmd.Flags().Changed("model") {
				cfg.AI.Model = model
			}
			if cmd.Flags().Changed("max-pages") {
				cfg.Report.MaxPages = maxPages
			}
			if cmd.Flags().Changed("columns") {
				cfg.Report.DetectColumns = columns
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			res, err := report.Run(ctx, report.Config{
				OutDir:        cfg.Report.OutDir,
				Topic:         args[0],
				Slug:          slug,
				Sources:       sources,
				MaxPages:      cfg.Report.MaxPages,
				DetectColumns: cfg.Report.DetectColumns,
				Reporter:      newReporter(ctx, cfg.AI, a.logger),
				Cache:         blocks.NewCache(cfg.Cache.Size),
				Logger:        a.logger,
			})
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", ".", "output directory for the report files")
	cmd.Flags().StringArrayVarP(&sources, "source", "s", nil, "source document (.pdf, .md, .txt); repeatable")
	cmd.Flags().StringVar(&aiProvider, "ai", "off", "AI provider: off|gemini")
	cmd.Flags().StringVar(&model, "model", ai.DefaultModel, "Gemini model name")
	cmd.Flags().StringVar(&slug, "slug", "", "output file name stem (defaults to the slugified topic)")
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "read at most N pages of each PDF source (0 = all)")
	cmd.Flags().BoolVar(&columns, "columns", true, "rewrite space-aligned columns in sources as tables")
	return cmd
}

func writeResult(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// newReporter returns the configured Reporter, falling back to the offline
// one when Gemini cannot be set up.
func newReporter(ctx context.Context, c config.AIConfig, log *zap.Logger) ai.Reporter {
	if c.Provider != "gemini" {
		return ai.Noop{}
	}
	g, err := ai.NewGemini(ctx, c.APIKey, c.Model, log)
	if err != nil {
		if errors.Is(err, ai.ErrMissingAPIKey) {
			log.Warn("Gemini selected but no API key set, generating offline")
		} else {
			log.Warn("Gemini unavailable, generating offline", zap.Error(err))
		}
		return ai.Noop{}
	}
	log.Info("Using Gemini", zap.String("model", g.Model()))
	return g
}
