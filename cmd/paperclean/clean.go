// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/paperclean/internal/clean"
	"github.com/pdiddy/paperclean/internal/naming"
)

// Batch exit codes: complete runs exit 0, failed runs exit 1.
const exitPartial = 2

var cleanCmd = &cobra.Command{
	Use:   "clean [paper.pdf]",
	Short: "Remove headers, footers, boilerplate and padding pages from papers",
	Long: `Clean redacts the running header band, configured literal strings and
exam-room keywords from every page, deletes blank and continuation pages,
drops the cover page, and cuts the copyright footer from the last page.

With a file argument only that paper is cleaned (to --output, or to
<output-dir>/<name>_cleaned.pdf). Without arguments every PDF in
--input-dir is cleaned. A batch in which some papers were skipped or failed
exits with status 2; one in which none was cleaned exits with status 1.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func init() {
	f := cleanCmd.Flags()
	f.String("input-dir", "", "directory of papers to clean in batch mode")
	f.String("output-dir", "", "directory for cleaned papers")
	f.StringP("output", "o", "", "output path when cleaning a single file")
	f.String("suffix", "", "batch input file suffix (default .pdf)")
	f.String("order", "", "redact-first or classify-first")
	f.String("header-mode", "", "header band test: intersects, above or centered")
	f.Float64("header-height", 0, "header band height in points")
	f.Int("drop", 0, "leading cover pages to drop")
	f.String("footer-text", "", "anchor the last-page cut at this text instead of the fixed offset")
	f.String("fill", "", "redaction fill colour: white or black")

	for key, name := range map[string]string{
		"clean.input_dir":                   "input-dir",
		"clean.output_dir":                  "output-dir",
		"clean.suffix":                      "suffix",
		"clean.rules.order":                 "order",
		"clean.rules.header_mode":           "header-mode",
		"clean.rules.header_height":         "header-height",
		"clean.rules.leading_pages_to_drop": "drop",
		"clean.rules.footer_text":           "footer-text",
		"clean.rules.fill":                  "fill",
	} {
		_ = viper.BindPFlag(key, f.Lookup(name))
	}

	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	c := cfg.Clean
	open := clean.PDFOpener(c.Rules.Fill)
	clog := log.WithComponent("clean")

	if len(args) == 1 {
		input := args[0]
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = filepath.Join(c.OutputDir, naming.CleanedName(input))
		}
		rules := c.Rules
		sessions := naming.DefaultSessions()
		if name, err := naming.Parse(input, sessions); err == nil {
			rules.Literals = append(append([]string(nil), rules.Literals...), naming.Literals(name, sessions)...)
		} else {
			clog.Warn("no paper literals for file", zap.String("file", input), zap.Error(err))
		}

		rep, err := clean.CleanFile(open, input, output, rules)
		if err != nil {
			return fmt.Errorf("cleaning %s (reached %s): %w", input, rep.State, err)
		}
		fmt.Fprintf(os.Stdout, "cleaned: %s -> %s (%d of %d pages kept)\n", input, output, rep.PagesOut, rep.PagesIn)
		for _, d := range rep.Deleted {
			fmt.Fprintf(os.Stdout, "  deleted page %d (%s)\n", d.Page+1, d.Reason)
		}
		return nil
	}

	result, err := clean.CleanBatch(cmd.Context(), open, c, naming.DefaultSessions(), clog.Logger, os.Stdout)
	if err != nil {
		return err
	}
	switch result.Status() {
	case clean.StatusPartial:
		return &exitError{code: exitPartial, msg: fmt.Sprintf("%d of %d paper(s) not cleaned", result.Skipped+result.Failed, result.Total())}
	case clean.StatusFailed:
		return fmt.Errorf("no papers cleaned (%d failed, %d skipped)", result.Failed, result.Skipped)
	}
	return nil
}
