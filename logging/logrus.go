package logging

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

// LogrusLogger 将 Logger 接口适配到 logrus
type LogrusLogger struct {
	entry *logrus.Entry
}

// LogrusOptions logrus 适配器选项
type LogrusOptions struct {
	Output io.Writer
	Level  Level
	// JSON 为 true 时使用 JSONFormatter，否则使用 TextFormatter
	JSON bool
}

// NewLogrusLogger 按选项创建新的 logrus 实例并包装
func NewLogrusLogger(opts LogrusOptions) *LogrusLogger {
	l := logrus.New()
	if opts.Output != nil {
		l.SetOutput(opts.Output)
	}
	if opts.JSON {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}
	l.SetLevel(toLogrusLevel(opts.Level))
	return &LogrusLogger{entry: logrus.NewEntry(l)}
}

// WrapLogrus 包装已有的 logrus.Logger
func WrapLogrus(l *logrus.Logger) *LogrusLogger {
	return &LogrusLogger{entry: logrus.NewEntry(l)}
}

func toLogrusLevel(level Level) logrus.Level {
	switch level {
	case DebugLevel:
		return logrus.DebugLevel
	case WarnLevel:
		return logrus.WarnLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

func toLogrusFields(fields []Field) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for _, f := range fields {
		// logrus 对 error 值有专门的 ErrorKey 约定
		if err, ok := f.Value.(error); ok && f.Key == "error" {
			out[logrus.ErrorKey] = err
			continue
		}
		out[f.Key] = f.Value
	}
	return out
}

func (l *LogrusLogger) with(ctx context.Context, fields []Field) *logrus.Entry {
	e := l.entry
	if ctx != nil {
		e = e.WithContext(ctx)
	}
	if len(fields) > 0 {
		e = e.WithFields(toLogrusFields(fields))
	}
	return e
}

func (l *LogrusLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.with(ctx, fields).Debug(msg)
}

func (l *LogrusLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.with(ctx, fields).Info(msg)
}

func (l *LogrusLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.with(ctx, fields).Warn(msg)
}

func (l *LogrusLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.with(ctx, fields).Error(msg)
}

func (l *LogrusLogger) WithFields(fields ...Field) Logger {
	return &LogrusLogger{entry: l.entry.WithFields(toLogrusFields(fields))}
}

var _ Logger = (*LogrusLogger)(nil)
