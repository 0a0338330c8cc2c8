// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperclean/internal/catalog"
	"github.com/pdiddy/paperclean/pkg/types"
)

// defaultConfig returns the configuration used when no file, environment
// variable or flag overrides a key.
func defaultConfig() types.PipelineConfig {
	return types.PipelineConfig{
		Log: types.LogConfig{Level: "info", Format: "console"},
		Clean: types.CleanConfig{
			Rules:     types.DefaultRuleSet(),
			InputDir:  "papers",
			OutputDir: "output_cleaned",
			Suffix:    ".pdf",
		},
		Split: types.SplitConfig{
			InputDir:  "output_cleaned",
			OutputDir: "output_questions",
		},
		Convert: types.ConversionConfig{
			Direction: types.PDFToDOCX,
			Timeout:   10 * time.Minute,
			InputDir:  "output_questions",
			OutputDir: "output_docx",
		},
		Catalog: types.CatalogConfig{DBPath: catalog.DefaultDBPath},
	}
}

// setDefaults registers every key of defaultConfig with v so that
// environment variables and nested file keys resolve against it.
func setDefaults(v *viper.Viper) error {
	data, err := yaml.Marshal(defaultConfig())
	if err != nil {
		return err
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return err
	}
	setTree(v, "", tree)

	// Keys omitted from the marshaled defaults when empty.
	v.SetDefault("clean.rules.footer_text", "")
	v.SetDefault("split.duplicates", []int{})
	v.SetDefault("convert.image", "")
	return nil
}

func setTree(v *viper.Viper, prefix string, tree map[string]any) {
	for k, val := range tree {
		key := prefix + k
		if sub, ok := val.(map[string]any); ok {
			setTree(v, key+".", sub)
			continue
		}
		v.SetDefault(key, val)
	}
}

// loadConfig reads paperclean.yaml (from cfgFile, the working directory or
// ~/.config/paperclean), applies PAPERCLEAN_* environment overrides and
// validates the result. A missing default config file is not an error.
func loadConfig(v *viper.Viper, cfgFile string) (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := setDefaults(v); err != nil {
		return cfg, fmt.Errorf("setting defaults: %w", err)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("paperclean")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "paperclean"))
		}
	}

	v.SetEnvPrefix("PAPERCLEAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	if err := validateConfig(cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

var validate = validator.New()

// validateConfig reports every invalid field, one per line.
func validateConfig(cfg types.PipelineConfig) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, len(fieldErrs))
	for i, e := range fieldErrs {
		msgs[i] = fmt.Sprintf("%s %s", e.Namespace(), formatValidationError(e))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %v", e.Param(), e.Value())
	case "gte":
		return fmt.Sprintf("must be at least %s, got %v", e.Param(), e.Value())
	default:
		return fmt.Sprintf("failed validation '%s'", e.Tag())
	}
}
