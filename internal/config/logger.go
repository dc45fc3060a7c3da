package config

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a zap logger writing to the given paths. Empty paths
// default to stderr.
func NewLogger(level, encoding string, paths ...string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("logger level: %w", err)
	}
	enc := strings.ToLower(strings.TrimSpace(encoding))
	if enc == "" {
		enc = "json"
	}
	if enc != "json" && enc != "console" {
		return nil, fmt.Errorf("logger encoding must be json or console, got %q", encoding)
	}

	cfg := zap.NewProductionConfig()
	if enc == "console" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = enc
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = nonEmpty(paths)
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

func (l Logger) Build() (*zap.Logger, error) {
	return NewLogger(l.Level, l.Encoding, l.File)
}

func nonEmpty(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"stderr"}
	}
	return out
}
