package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logDir      = "logs"
	logFileName = "vrtkernel-sim.log"
	maxLogSize  = 10 * 1024 * 1024 // 10MB
)

// setupLogging builds a zap.Logger writing structured JSON to
// logs/vrtkernel-sim.log, rotating the previous file aside by timestamp
// once it exceeds maxLogSize, with its level parsed from a flag via
// zap.NewProductionConfig. If debug is false, returns a no-op logger so
// a deployed simulation never writes to disk.
func setupLogging(debug bool, level string) (*zap.Logger, func(), error) {
	if !debug {
		return zap.NewNop(), func() {}, nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}

	logPath := filepath.Join(logDir, logFileName)
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		timestamp := time.Now().Format("2006-01-02-15-04-05")
		rotated := filepath.Join(logDir, fmt.Sprintf("vrtkernel-sim-%s.log", timestamp))
		if err := os.Rename(logPath, rotated); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to rotate log file: %v\n", err)
		}
	}

	cfg := zap.NewProductionConfig()
	if level == "" {
		level = "info"
	}
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg.OutputPaths = []string{logPath}
	cfg.ErrorOutputPaths = []string{logPath}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("build zap logger: %w", err)
	}

	return logger, func() { _ = logger.Sync() }, nil
}
