package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/research-blocks/internal/report"
)

func renderCmd(a *app) *cobra.Command {
	var style string
	var width int

	cmd := &cobra.Command{
		Use:   "render <report.md|report.blocks.json>",
		Short: "Render a saved report to the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("style") {
				a.cfg.Render.Style = style
			}
			if cmd.Flags().Changed("width") {
				a.cfg.Render.WordWrap = width
			}
			saved, err := report.Open(args[0], nil)
			if err != nil {
				return err
			}
			term, err := newTerminal(a)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if saved.Title != "" {
				fmt.Fprintf(w, "%s\n\n", saved.Title)
			}
			return term.Render(w, saved.Blocks)
		},
	}
	cmd.Flags().StringVar(&style, "style", "auto", "terminal style: auto|dark|light|notty|...")
	cmd.Flags().IntVar(&width, "width", 100, "terminal word wrap width")
	return cmd
}
