// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paperclean/internal/catalog"
	"github.com/pdiddy/paperclean/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the past-papers catalog (import, list, filter, export)",
	Long: `Catalog keeps one SQLite row per question with its subject, topic,
sub-topic, paper, variant, year, difficulty and marks. Rows are imported
from spreadsheet CSV exports or YAML, and narrowed with cascading filters:
each level lists only the values left by the selections before it.`,
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <file.csv|file.yaml>...",
	Short: "Import catalog rows from CSV or YAML files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCatalogImport,
}

var catalogListCmd = &cobra.Command{
	Use:   "list <level>",
	Short: "List the values available at a filter level",
	Long: `List prints the distinct values of one filter level given the selection
flags. Levels in cascade order: ` + strings.Join(levelNames(), ", ") + `.`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogList,
}

var catalogFilterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Print the rows matching the selection flags",
	Args:  cobra.NoArgs,
	RunE:  runCatalogFilter,
}

var catalogExportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Write the rows matching the selection flags to YAML or JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogExport,
}

type lister func(s *catalog.Store, ctx context.Context, sel catalog.Selection) ([]string, error)

var levels = map[string]lister{
	"subjects": func(s *catalog.Store, ctx context.Context, _ catalog.Selection) ([]string, error) {
		return s.Subjects(ctx)
	},
	"topics":         (*catalog.Store).Topics,
	"subtopics":      (*catalog.Store).Subtopics,
	"years":          (*catalog.Store).Years,
	"variants":       (*catalog.Store).Variants,
	"papers":         (*catalog.Store).PaperNumbers,
	"paper-variants": (*catalog.Store).PaperVariants,
	"difficulties":   (*catalog.Store).Difficulties,
}

var levelOrder = []string{"subjects", "topics", "subtopics", "years", "variants", "papers", "paper-variants", "difficulties"}

func levelNames() []string { return levelOrder }

func openCatalog() (*catalog.Store, error) {
	return catalog.Open(cfg.Catalog, log.WithComponent("catalog").Logger)
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	var total catalog.ImportSummary
	for _, path := range args {
		summary, err := store.ImportFile(cmd.Context(), path, os.Stdout)
		if err != nil {
			return err
		}
		total.Imported += summary.Imported
		total.Failed += summary.Failed
	}
	fmt.Fprintf(os.Stdout, "\nImport summary: %d imported, %d skipped (total: %d)\n", total.Imported, total.Failed, total.Total())
	if total.Failed > 0 {
		return &exitError{code: exitPartial, msg: fmt.Sprintf("%d row(s) skipped", total.Failed)}
	}
	return nil
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	list, ok := levels[args[0]]
	if !ok {
		return fmt.Errorf("unknown level %q: use one of %s", args[0], strings.Join(levelOrder, ", "))
	}
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	values, err := list(store, cmd.Context(), selectionFromFlags(cmd))
	if err != nil {
		return err
	}
	for _, v := range values {
		fmt.Fprintln(os.Stdout, v)
	}
	return nil
}

func runCatalogFilter(cmd *cobra.Command, args []string) error {
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Filter(cmd.Context(), selectionFromFlags(cmd))
	if err != nil {
		return err
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRecords(records, jsonOutput)
}

func formatRecords(records []types.PaperRecord, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	if len(records) == 0 {
		fmt.Println("No matching questions.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-5s  %-12s  %-24s  %-24s  %-4s  %-5s  %-3s  %-7s  %-10s  %s\n",
		"ID", "Subject", "Topic", "Sub-topic", "Year", "Paper", "Var", "Q", "Difficulty", "Marks")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 118))
	for _, r := range records {
		fmt.Fprintf(os.Stdout, "%-5d  %-12s  %-24s  %-24s  %-4s  %-5s  %-3s  %-7s  %-10s  %d\n",
			r.ID, truncate(r.SubjectName, 12), truncate(r.Topic, 24), truncate(r.SubTopic, 24),
			r.Year, r.PaperNumber+r.PaperVariant, r.Variant, r.QuestionNumber, r.Difficulty, r.Marks)
	}
	fmt.Fprintf(os.Stdout, "\n%d questions\n", len(records))
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	format, _ := cmd.Flags().GetString("format")
	sel := selectionFromFlags(cmd)
	var n int
	switch format {
	case "yaml", "":
		n, err = store.ExportYAML(cmd.Context(), sel, args[0])
	case "json":
		n, err = store.ExportJSON(cmd.Context(), sel, args[0])
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d questions to %s\n", n, args[0])
	return nil
}

func selectionFromFlags(cmd *cobra.Command) catalog.Selection {
	f := cmd.Flags()
	get := func(name string) []string {
		v, _ := f.GetStringSlice(name)
		sort.Strings(v)
		return v
	}
	subject, _ := f.GetString("subject")
	return catalog.Selection{
		Subject:       subject,
		Topics:        get("topic"),
		Subtopics:     get("subtopic"),
		Years:         get("year"),
		Variants:      get("variant"),
		PaperNumbers:  get("paper"),
		PaperVariants: get("paper-variant"),
		Difficulties:  get("difficulty"),
	}
}

func init() {
	catalogCmd.PersistentFlags().String("db", "", "catalog database (default past_papers.db)")
	_ = viper.BindPFlag("catalog.db_path", catalogCmd.PersistentFlags().Lookup("db"))

	for _, c := range []*cobra.Command{catalogListCmd, catalogFilterCmd, catalogExportCmd} {
		f := c.Flags()
		f.String("subject", "", "subject name")
		f.StringSlice("topic", nil, "topics (repeatable or comma-separated)")
		f.StringSlice("subtopic", nil, "sub-topics")
		f.StringSlice("year", nil, "years")
		f.StringSlice("variant", nil, "session variants")
		f.StringSlice("paper", nil, "paper numbers")
		f.StringSlice("paper-variant", nil, "paper variants")
		f.StringSlice("difficulty", nil, "difficulties")
	}
	catalogFilterCmd.Flags().Bool("json", false, "output rows as JSON")
	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	catalogCmd.AddCommand(catalogImportCmd, catalogListCmd, catalogFilterCmd, catalogExportCmd)
	rootCmd.AddCommand(catalogCmd)
}
