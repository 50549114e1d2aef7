package setup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/askaris/askaris/internal/setup/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLoggers builds the main and database loggers. Both write to stderr and
// to a timestamped file under logDir; the database logger gets its own file
// so query noise stays out of the main log.
func newLoggers(cfg *config.Debug, logDir string) (*zap.Logger, *zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	if err := pruneOldLogs(logDir, cfg.MaxLogsToKeep); err != nil {
		return nil, nil, err
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")

	mainLogger, err := newFileLogger(filepath.Join(logDir, "main_"+timestamp+".log"), level)
	if err != nil {
		return nil, nil, err
	}

	dbLogger, err := newFileLogger(filepath.Join(logDir, "db_"+timestamp+".log"), level)
	if err != nil {
		return nil, nil, err
	}

	return mainLogger, dbLogger, nil
}

func newFileLogger(path string, level zapcore.Level) (*zap.Logger, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(file), level),
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.AddSync(os.Stderr),
			level,
		),
	)

	return zap.New(core), nil
}

// pruneOldLogs removes the oldest log files beyond the configured keep count.
func pruneOldLogs(logDir string, keep int) error {
	if keep <= 0 {
		return nil
	}

	entries, err := filepath.Glob(filepath.Join(logDir, "*.log"))
	if err != nil {
		return fmt.Errorf("failed to list log files: %w", err)
	}

	if len(entries) <= keep {
		return nil
	}

	sort.Strings(entries)
	for _, path := range entries[:len(entries)-keep] {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove old log file: %w", err)
		}
	}

	return nil
}
