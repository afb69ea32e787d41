// Package logging builds the process logger. Components receive a *zap.Logger by
// injection; tests pass zap.NewNop().
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

const (
	BuildDebug   = "debug"
	BuildRelease = "release"

	FormatJSON    = "json"
	FormatConsole = "console"
)

// Options configures New.
type Options struct {
	// Level overrides the build type's level when set ("debug", "info", "warn", "error").
	Level string
	// BuildType is "debug" (Debug level) or "release" (Info level).
	BuildType string
	// Format is "json" or "console". Default: json for release builds, console otherwise.
	Format string
	// Output defaults to stderr.
	Output io.Writer
}

// New returns a logger for the given options.
func New(opts Options) (*zap.Logger, error) {
	level, err := ResolveLevel(opts.Level, opts.BuildType)
	if err != nil {
		return nil, err
	}

	format := opts.Format
	if format == "" {
		format = FormatConsole
		if opts.BuildType == BuildRelease {
			format = FormatJSON
		}
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch format {
	case FormatJSON:
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	case FormatConsole:
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(out), level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// ResolveLevel picks the minimum level: an explicit level wins, then the build type.
func ResolveLevel(level, buildType string) (zapcore.Level, error) {
	if level != "" {
		parsed, err := zapcore.ParseLevel(strings.ToLower(level))
		if err != nil {
			return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		return parsed, nil
	}
	if buildType == BuildRelease {
		return zapcore.InfoLevel, nil
	}
	return zapcore.DebugLevel, nil
}

// GormLogLevel maps the process level to gorm's query logger. SQL is only traced at Debug.
func GormLogLevel(level zapcore.Level) gormlogger.LogLevel {
	switch {
	case level <= zapcore.DebugLevel:
		return gormlogger.Info
	case level <= zapcore.WarnLevel:
		return gormlogger.Warn
	default:
		return gormlogger.Error
	}
}

// TaskLogger adapts a zap logger to backlite's Logger interface.
type TaskLogger struct {
	log *zap.SugaredLogger
}

func NewTaskLogger(log *zap.Logger) *TaskLogger {
	return &TaskLogger{log: log.Sugar()}
}

func (l *TaskLogger) Info(message string, params ...any) {
	l.log.Infow(message, params...)
}

func (l *TaskLogger) Error(message string, params ...any) {
	l.log.Errorw(message, params...)
}

// DefaultSlowQueryThreshold is the duration above which GormLogger warns about a query.
const DefaultSlowQueryThreshold = 200 * time.Millisecond

// GormLogger adapts a zap logger to gorm's logger.Interface. Failed queries log
// at Error, slow ones at Warn, and every statement at Debug when level is Info.
type GormLogger struct {
	log   *zap.Logger
	level gormlogger.LogLevel

	SlowThreshold time.Duration
}

func NewGormLogger(log *zap.Logger, level gormlogger.LogLevel) *GormLogger {
	return &GormLogger{
		log:           log.Named("gorm"),
		level:         level,
		SlowThreshold: DefaultSlowQueryThreshold,
	}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) Info(_ context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		l.log.Sugar().Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(_ context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		l.log.Sugar().Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(_ context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		l.log.Sugar().Errorf(msg, data...)
	}
}

func (l *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gormlogger.ErrRecordNotFound):
		sql, rows := fc()
		l.log.Error("query failed", zap.Error(err), zap.String("sql", sql), zap.Int64("rows", rows), zap.Duration("elapsed", elapsed))
	case l.SlowThreshold > 0 && elapsed > l.SlowThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		l.log.Warn("slow query", zap.String("sql", sql), zap.Int64("rows", rows), zap.Duration("elapsed", elapsed))
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		l.log.Debug("query", zap.String("sql", sql), zap.Int64("rows", rows), zap.Duration("elapsed", elapsed))
	}
}
