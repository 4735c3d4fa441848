package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures a Logger.
type Options struct {
	// Level is one of debug, info, warn, error.
	Level string
	// Format is console or json.
	Format string
	// Output defaults to stderr so command output on stdout stays clean.
	Output io.Writer
}

// Logger wraps zap.SugaredLogger to provide application-specific logging
type Logger struct {
	*zap.SugaredLogger
}

// New creates a new logger instance
func New(opts Options) (*Logger, error) {
	levelName := opts.Level
	if levelName == "" {
		levelName = "warn"
	}
	if DebugEnabled() {
		levelName = "debug"
	}

	level, err := zapcore.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	var encoder zapcore.Encoder
	switch strings.ToLower(opts.Format) {
	case "json":
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	case "", "console":
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
		encoder = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, fmt.Errorf("invalid log format: %s", opts.Format)
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(out), zap.NewAtomicLevelAt(level))
	zapLogger := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))

	return &Logger{SugaredLogger: zapLogger.Sugar()}, nil
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// WithFields adds structured fields to the logger
func (l *Logger) WithFields(fields ...interface{}) *Logger {
	return &Logger{
		SugaredLogger: l.SugaredLogger.With(fields...),
	}
}

type fieldLogger interface {
	LogFields() []interface{}
}

// WithError adds an error field to the logger, plus the structured fields
// of the first wrapped error that provides them.
func (l *Logger) WithError(err error) *Logger {
	fields := []interface{}{"error", err.Error()}
	var fl fieldLogger
	if errors.As(err, &fl) {
		fields = append(fields, fl.LogFields()...)
	}
	return l.WithFields(fields...)
}

// WithComponent adds a component field to the logger
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithFields("component", component)
}

// LogStoreOperation records a store round trip. Failures log at error level.
func (l *Logger) LogStoreOperation(operation string, started time.Time, err error) {
	fields := []interface{}{
		"operation", operation,
		"duration_ms", float64(time.Since(started).Microseconds()) / 1000,
	}

	if err != nil {
		l.WithError(err).Errorw("Store operation failed", fields...)
	} else {
		l.Debugw("Store operation completed", fields...)
	}
}

// LogAction records a user-visible mutation.
func (l *Logger) LogAction(action string, metadata map[string]interface{}) {
	fields := []interface{}{"action", action}
	for k, v := range metadata {
		fields = append(fields, k, v)
	}
	l.Infow("User action", fields...)
}

// Close flushes any buffered log entries
func (l *Logger) Close() error {
	return l.SugaredLogger.Sync()
}
