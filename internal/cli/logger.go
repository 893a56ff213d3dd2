package cli

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the base logger and, with useSyslog, tees info and above
// into the local syslog daemon when one is reachable.
func newLogger(verbose bool, logFile string, useSyslog bool) (*zap.Logger, error) {
	logger, err := baseLogger(verbose, logFile)
	if err != nil || !useSyslog {
		return logger, err
	}
	if core := newSyslogCore(zapcore.InfoLevel); core != nil {
		logger = logger.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
			return zapcore.NewTee(c, core)
		}))
	}
	return logger, nil
}

// baseLogger returns a development logger when verbose. Otherwise it writes
// JSON at info level to logFile and mirrors errors to stderr. If logFile
// cannot be opened, only errors are logged, to stderr.
func baseLogger(verbose bool, logFile string) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}

	stderrCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewProductionEncoderConfig()),
		zapcore.Lock(os.Stderr),
		zapcore.ErrorLevel,
	)

	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err == nil {
			cfg := zap.Config{
				Level:            zap.NewAtomicLevelAt(zapcore.InfoLevel),
				Encoding:         "json",
				OutputPaths:      []string{logFile},
				ErrorOutputPaths: []string{"stderr"},
				EncoderConfig:    zap.NewProductionEncoderConfig(),
			}
			if logger, err := cfg.Build(); err == nil {
				return logger.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
					return zapcore.NewTee(c, stderrCore)
				})), nil
			}
		}
	}

	return zap.New(stderrCore), nil
}
