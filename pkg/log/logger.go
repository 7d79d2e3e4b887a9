package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sglearn/sglearn/pkg/errors"
)

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = StacktraceKey
	componentAttrKey  = "component"
)

// swappableWriter lets SetOutput redirect loggers that were created earlier.
type swappableWriter struct {
	mu sync.RWMutex
	w  io.Writer
}

func (s *swappableWriter) Write(p []byte) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.w.Write(p)
}

func (s *swappableWriter) set(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w = w
}

// ZerologProvider is the default LoggerProvider. It writes JSON lines through zerolog.
type ZerologProvider struct {
	out  *swappableWriter
	root zerolog.Logger
}

// NewZerologProvider creates a provider writing to w.
func NewZerologProvider(w io.Writer) *ZerologProvider {
	out := &swappableWriter{w: w}
	return &ZerologProvider{
		out:  out,
		root: zerolog.New(out).With().Timestamp().Logger(),
	}
}

// GetLogger implements LoggerProvider.
func (p *ZerologProvider) GetLogger() Logger {
	return &zerologLogger{zl: p.root}
}

// GetLoggerWithName implements LoggerProvider.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	return &zerologLogger{zl: p.root.With().Str(componentAttrKey, name).Logger()}
}

// SetLevel implements LoggerProvider. zerolog levels are process-global.
func (p *ZerologProvider) SetLevel(level Level) {
	zerolog.SetGlobalLevel(toZerologLevel(level))
}

// SetOutput redirects every logger of this provider, including existing ones.
func (p *ZerologProvider) SetOutput(w io.Writer) {
	p.out.set(w)
}

// warn writes a structured warning record; it is installed as the pkg/errors warning sink.
func (p *ZerologProvider) warn(w error) {
	ev := p.root.Warn()
	if m, ok := w.(zerolog.LogObjectMarshaler); ok {
		ev = ev.EmbedObject(m)
	}
	ev.Msg(w.Error())
}

var defaultProvider = NewZerologProvider(os.Stderr)

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	errors.SetZerologWarnFunc(defaultProvider.warn)
}

// GetLogger returns a logger from the default provider.
func GetLogger() Logger {
	return defaultProvider.GetLogger()
}

// GetLoggerWithName returns a logger tagged with a component name.
func GetLoggerWithName(name string) Logger {
	return defaultProvider.GetLoggerWithName(name)
}

// SetLevel sets the minimum level of the default provider.
func SetLevel(level Level) {
	defaultProvider.SetLevel(level)
}

// SetOutput redirects the default provider, and the warnings routed through pkg/errors.
func SetOutput(w io.Writer) {
	defaultProvider.SetOutput(w)
}

type zerologLogger struct {
	zl zerolog.Logger
}

func (l *zerologLogger) Debug(msg string, fields ...any) { emit(l.zl.Debug(), msg, fields) }
func (l *zerologLogger) Info(msg string, fields ...any)  { emit(l.zl.Info(), msg, fields) }
func (l *zerologLogger) Warn(msg string, fields ...any)  { emit(l.zl.Warn(), msg, fields) }
func (l *zerologLogger) Error(msg string, fields ...any) { emit(l.zl.Error(), msg, fields) }

func (l *zerologLogger) With(fields ...any) Logger {
	ctx := l.zl.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprint(fields[i])
		if err, ok := fields[i+1].(error); ok {
			ctx = ctx.Str(key, err.Error())
			continue
		}
		ctx = ctx.Interface(key, fields[i+1])
	}
	return &zerologLogger{zl: ctx.Logger()}
}

func (l *zerologLogger) Enabled(_ context.Context, level Level) bool {
	zl := toZerologLevel(level)
	return zl >= l.zl.GetLevel() && zl >= zerolog.GlobalLevel()
}

func emit(ev *zerolog.Event, msg string, fields []any) {
	if ev == nil {
		return
	}
	if len(fields)%2 == 1 {
		if err, ok := fields[0].(error); ok {
			ev = withErr(ev, ErrAttrKey, err)
			fields = fields[1:]
		}
	}
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprint(fields[i])
		switch v := fields[i+1].(type) {
		case error:
			ev = withErr(ev, key, v)
		case zerolog.LogObjectMarshaler:
			ev = ev.Object(key, v)
		default:
			ev = ev.Interface(key, v)
		}
	}
	ev.Msg(msg)
}

func withErr(ev *zerolog.Event, key string, err error) *zerolog.Event {
	ev = ev.AnErr(key, err)
	if details := errors.GetSafeDetails(err); len(details) > 0 {
		ev = ev.Str(StacktraceAttrKey, details[0])
	}
	return ev
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}
