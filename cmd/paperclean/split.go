// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paperclean/internal/naming"
	"github.com/pdiddy/paperclean/internal/split"
)

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Split cleaned papers into one PDF per question",
	Long: `Split reads every <subject>_<session><yy>_qp_<paper>_cleaned.pdf in
--input-dir and writes its questions to
<output-dir>/<subject>/<year>/<session>/<paper>/<n>.pdf.

A question starts on a page whose first line begins with a new question
number. With --duplicates the pages are instead copied by count: page i is
written duplicates[i] times, each copy as its own file.`,
	Args: cobra.NoArgs,
	RunE: runSplit,
}

func init() {
	f := splitCmd.Flags()
	f.String("input-dir", "", "directory of cleaned papers")
	f.String("output-dir", "", "base directory of the question tree")
	f.IntSlice("duplicates", nil, "per-page copy counts, e.g. 4,3,3,2")

	_ = viper.BindPFlag("split.input_dir", f.Lookup("input-dir"))
	_ = viper.BindPFlag("split.output_dir", f.Lookup("output-dir"))
	_ = viper.BindPFlag("split.duplicates", f.Lookup("duplicates"))

	rootCmd.AddCommand(splitCmd)
}

func runSplit(cmd *cobra.Command, args []string) error {
	result, err := split.SplitBatch(cmd.Context(), split.OpenPDF, cfg.Split, naming.DefaultSessions(),
		log.WithComponent("split").Logger, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d paper(s) not split", result.Failed+result.Skipped)
	}
	return nil
}
