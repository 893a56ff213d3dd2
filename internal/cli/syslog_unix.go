//go:build !windows && !plan9

package cli

import (
	"log/syslog"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// syslogSink is the part of *syslog.Writer the core writes through
type syslogSink interface {
	Err(m string) error
	Warning(m string) error
	Info(m string) error
	Debug(m string) error
}

// syslogCore forwards entries to the local syslog daemon, mapping zap levels
// onto syslog priorities
type syslogCore struct {
	zapcore.LevelEnabler
	enc  zapcore.Encoder
	sink syslogSink
}

// newSyslogCore connects to syslog under the daemon facility, tagged pproc.
// It returns nil when no daemon is reachable.
func newSyslogCore(level zapcore.LevelEnabler) zapcore.Core {
	w, err := syslog.New(syslog.LOG_DAEMON|syslog.LOG_INFO, "pproc")
	if err != nil {
		return nil
	}
	return newSyslogCoreWithSink(level, w)
}

func newSyslogCoreWithSink(level zapcore.LevelEnabler, sink syslogSink) *syslogCore {
	// syslog stamps time and priority itself
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.LevelKey = ""
	return &syslogCore{
		LevelEnabler: level,
		enc:          zapcore.NewConsoleEncoder(encCfg),
		sink:         sink,
	}
}

func (c *syslogCore) With(fields []zapcore.Field) zapcore.Core {
	clone := &syslogCore{
		LevelEnabler: c.LevelEnabler,
		enc:          c.enc.Clone(),
		sink:         c.sink,
	}
	for _, f := range fields {
		f.AddTo(clone.enc)
	}
	return clone
}

func (c *syslogCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *syslogCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	buf, err := c.enc.EncodeEntry(ent, fields)
	if err != nil {
		return err
	}
	msg := strings.TrimSuffix(buf.String(), "\n")
	buf.Free()

	switch {
	case ent.Level >= zapcore.ErrorLevel:
		return c.sink.Err(msg)
	case ent.Level == zapcore.WarnLevel:
		return c.sink.Warning(msg)
	case ent.Level == zapcore.InfoLevel:
		return c.sink.Info(msg)
	default:
		return c.sink.Debug(msg)
	}
}

func (c *syslogCore) Sync() error {
	return nil
}
