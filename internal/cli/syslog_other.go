//go:build windows || plan9

package cli

import "go.uber.org/zap/zapcore"

// newSyslogCore returns nil; there is no syslog daemon on this platform
func newSyslogCore(level zapcore.LevelEnabler) zapcore.Core {
	return nil
}
