// Package logging builds the zap logger used across stockpile.
//
// The terminal belongs to the UI, so log output always goes to a file.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jask/stockpile/internal/config"
)

// New returns a JSON logger writing to cfg.Path and a cleanup func that syncs
// and closes the file. An empty path yields a no-op logger.
func New(cfg config.LogConfig) (*zap.Logger, func() error, error) {
	if cfg.Path == "" {
		return zap.NewNop(), func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("logging: mkdir: %w", err)
	}
	sink, closeSink, err := zap.Open(cfg.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: open %s: %w", cfg.Path, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	opts := []zap.Option{zap.ErrorOutput(sink)}
	if cfg.Debug {
		level.SetLevel(zapcore.DebugLevel)
		opts = append(opts, zap.AddCaller())
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), sink, level)
	logger := zap.New(core, opts...).Named("stockpile")
	cleanup := func() error {
		err := logger.Sync()
		closeSink()
		return err
	}
	return logger, cleanup, nil
}
