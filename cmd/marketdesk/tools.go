package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eringen/marketdesk"
	"github.com/eringen/marketdesk/analyzer"
	"github.com/eringen/marketdesk/banner"
	"github.com/eringen/marketdesk/model"
	"github.com/eringen/marketdesk/textgen"
	"github.com/eringen/marketdesk/trending"
)

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <url>",
		Short: "Profile a website and print the result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := marketdesk.LoadConfig("")
			if err != nil {
				return err
			}
			log, err := marketdesk.NewLogger(cfg.LogLevel, "console")
			if err != nil {
				return err
			}
			defer log.Sync()
			text, err := textgen.New(cmd.Context(), cfg.TextConfig())
			if err != nil {
				return err
			}
			res := analyzer.New(text, log).Analyze(cmd.Context(), args[0])
			return writeJSON(cmd, analyzer.Report(res))
		},
	}
}

func newTopicsCmd() *cobra.Command {
	var (
		acct  model.Account
		count int
	)
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "Print trending topics for a business profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			bucket, topics := trending.Default().Topics(acct, count)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "bucket: %s\n", bucket)
			for _, t := range topics {
				fmt.Fprintf(out, "- %s\n", t)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&acct.Industry, "industry", "", "business industry")
	cmd.Flags().StringVar(&acct.Description, "description", "", "business description")
	cmd.Flags().StringVar(&acct.Name, "name", "", "business name")
	cmd.Flags().IntVarP(&count, "count", "n", trending.DefaultCount, "number of topics")
	return cmd
}

func newBannerCmd() *cobra.Command {
	var (
		image, outDir string
		sizes         []string
		text          banner.Content
	)
	cmd := &cobra.Command{
		Use:   "banner",
		Short: "Render display banners as HTML and PNG files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(text.Headline) == "" {
				return fmt.Errorf("--headline is required")
			}
			var bg *banner.Background
			if image != "" {
				data, err := os.ReadFile(image)
				if err != nil {
					return err
				}
				if bg = banner.DecodeBackground(data); bg == nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: cannot decode %s, using the gradient background\n", image)
				}
			}
			selected := banner.SelectSizes(sizes)
			if len(selected) == 0 {
				return fmt.Errorf("no known sizes in %v", sizes)
			}
			artifacts, err := banner.Render(cmd.Context(), bg, text, selected)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			for _, a := range artifacts {
				base := filepath.Join(outDir, a.Size.Slug())
				if err := os.WriteFile(base+".html", []byte(a.HTML), 0o644); err != nil {
					return err
				}
				if err := os.WriteFile(base+".png", a.PNG, 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%dx%d) -> %s.{html,png}\n", a.Size.Name, a.Size.Width, a.Size.Height, base)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&image, "image", "", "background image file")
	f.StringVar(&text.Headline, "headline", "", "headline copy")
	f.StringVar(&text.Body, "body", "", "body copy")
	f.StringVar(&text.CTA, "cta", "", "call-to-action label")
	f.StringSliceVar(&sizes, "size", nil, "limit to these sizes, e.g. leaderboard,square")
	f.StringVarP(&outDir, "out", "o", "banners", "output directory")
	return cmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
