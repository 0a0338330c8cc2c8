// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paperclean CLI: clean exam-paper
// PDFs, split them into questions, convert between PDF and DOCX, and query
// the past-papers catalog.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/paperclean/internal/logger"
	"github.com/pdiddy/paperclean/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	cfg types.PipelineConfig
	log = logger.Nop()
)

// exitError carries a process exit code other than 1.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

var rootCmd = &cobra.Command{
	Use:   "paperclean",
	Short: "Clean, split, convert and catalog exam-paper PDFs",
	Long: `paperclean prepares past exam papers for reuse. It removes running headers,
footers, boilerplate strings and padding pages from paper PDFs, splits the
cleaned papers into one PDF per question, converts question files between
PDF and DOCX, and keeps a SQLite catalog of questions with cascading filters.

Settings come from paperclean.yaml (./ or ~/.config/paperclean/), PAPERCLEAN_*
environment variables and flags, in increasing precedence.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfgFile, _ := cmd.Flags().GetString("config")
		loaded, err := loadConfig(viper.GetViper(), cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded

		l, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		log = l
		if used := viper.ConfigFileUsed(); used != "" {
			log.Debug("using config file", zap.String("path", used))
		}
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./paperclean.yaml or ~/.config/paperclean/paperclean.yaml)")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-format", "", "log format: console or json")

	_ = viper.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", flags.Lookup("log-format"))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = log.Sync()

	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	var ee *exitError
	if errors.As(err, &ee) {
		os.Exit(ee.code)
	}
	os.Exit(1)
}
