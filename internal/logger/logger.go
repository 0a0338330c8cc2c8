// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logger builds the zap logger shared by the paperclean stages.
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger with paperclean's context helpers.
type Logger struct {
	*zap.Logger
}

// Config contains logger configuration.
type Config struct {
	Level  string // debug, info, warn or error
	Format string // console or json

	// Output receives log entries. Defaults to stderr so that status lines
	// written to stdout stay machine-readable.
	Output io.Writer
}

// New creates a logger from config. An empty level means info and an
// empty format means console.
func New(config Config) (*Logger, error) {
	levelText := config.Level
	if levelText == "" {
		levelText = "info"
	}
	level, err := zapcore.ParseLevel(levelText)
	if err != nil {
		return nil, err
	}

	var encoder zapcore.Encoder
	if config.Format == "json" {
		encoderConfig := zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig := zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	out := config.Output
	if out == nil {
		out = os.Stderr
	}
	core := zapcore.NewCore(encoder, zapcore.AddSync(out), level)

	return &Logger{Logger: zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel))}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// WithComponent adds a component name to the logger context.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.Logger.With(zap.String("component", component))}
}
