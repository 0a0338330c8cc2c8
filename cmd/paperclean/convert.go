// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/paperclean/internal/container"
	"github.com/pdiddy/paperclean/internal/convert"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert question files between PDF and DOCX",
	Long: `Convert walks --input-dir and converts every file to the target format,
writing it to the same relative path under --output-dir. Existing outputs and
Office lock files are skipped.

Conversion runs in a container (docker, or podman when docker is not
available). The default images are paperclean/pdf2docx:latest and
paperclean/docx2pdf:latest; each reads the source on stdin and writes the
result to stdout.`,
	Args: cobra.NoArgs,
	RunE: runConvert,
}

func init() {
	f := convertCmd.Flags()
	f.String("direction", "", "pdf-to-docx or docx-to-pdf")
	f.String("input-dir", "", "source tree")
	f.String("output-dir", "", "destination tree")
	f.String("image", "", "container image override")
	f.Duration("timeout", 0, "per-file conversion timeout")

	for key, name := range map[string]string{
		"convert.direction":  "direction",
		"convert.input_dir":  "input-dir",
		"convert.output_dir": "output-dir",
		"convert.image":      "image",
		"convert.timeout":    "timeout",
	} {
		_ = viper.BindPFlag(key, f.Lookup(name))
	}

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	c := cfg.Convert
	image := c.Image
	if image == "" {
		var err error
		if image, err = convert.DefaultImage(c.Direction); err != nil {
			return err
		}
	}

	rt, err := container.DetectRuntime()
	if err != nil {
		return err
	}
	conv, err := convert.NewContainerConverter(rt, image)
	if err != nil {
		return err
	}
	log.WithComponent("convert").Info("converting",
		zap.String("runtime", rt.Name()), zap.String("image", image), zap.String("direction", string(c.Direction)))

	result, err := convert.ConvertTree(cmd.Context(), conv, c, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed conversion", result.Failed)
	}
	return nil
}
