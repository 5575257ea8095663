/*
 * Copyright (c) 2024 yakumioto <yaku.mioto@gmail.com>
 * All rights reserved.
 */

package otlplog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
)

const (
	defaultServiceName = "my-app"
	defaultScopeName   = "otlplog-logger"
)

// Options is a functional option for the Logger.
type Options func(*settings)

// WithOutput sets the console sink. Defaults to os.Stdout.
func WithOutput(w io.Writer) Options {
	return func(s *settings) {
		s.out = w
	}
}

// WithDiagnostics sets the logger that receives export and console write failures.
func WithDiagnostics(diag *slog.Logger) Options {
	return func(s *settings) {
		s.diag = diag
	}
}

// WithExporter replaces the HTTP transport. Export is enabled even without an endpoint.
func WithExporter(exporter Exporter) Options {
	return func(s *settings) {
		s.exporter = exporter
	}
}

// WithTimeout sets the export timeout of the HTTP transport.
func WithTimeout(timeout time.Duration) Options {
	return func(s *settings) {
		s.timeout = timeout
	}
}

// WithHTTPClient sets the HTTP client of the transport.
func WithHTTPClient(client *http.Client) Options {
	return func(s *settings) {
		s.client = client
	}
}

// WithClock sets the time source for records and spans.
func WithClock(now func() time.Time) Options {
	return func(s *settings) {
		s.now = now
	}
}

// WithLocation sets the time zone of the console datetime column. Defaults to UTC.
func WithLocation(loc *time.Location) Options {
	return func(s *settings) {
		s.loc = loc
	}
}

// WithScopeName sets the OTLP instrumentation scope name.
func WithScopeName(name string) Options {
	return func(s *settings) {
		s.scopeName = name
	}
}

// WithIndependentTraces gives every span logger a new trace id instead of
// inheriting the trace id of its parent. The parent span id is still recorded.
func WithIndependentTraces() Options {
	return func(s *settings) {
		s.independentTraces = true
	}
}

// settings are shared by a logger and every span logger derived from it.
type settings struct {
	serviceName string
	scopeName   string
	level       Level
	format      LogFormat
	delimiter   TextDelimiter
	endpoint    string

	mu  sync.Mutex
	out io.Writer

	diag     *slog.Logger
	exporter Exporter
	timeout  time.Duration
	client   *http.Client

	now               func() time.Time
	loc               *time.Location
	independentTraces bool
}

// Logger writes leveled messages to the console and, when a collector is configured,
// exports them as OTLP log records. A logger created by CreateSpanLogger is bound to
// a span and correlates every record with it.
type Logger struct {
	s    *settings
	span *Span
}

// New creates a Logger from cfg.
func New(cfg Config, opts ...Options) *Logger {
	s := &settings{
		serviceName: cfg.ServiceName,
		level:       ParseLevel(cfg.Level),
		format:      ParseFormat(cfg.Format),
		delimiter:   ParseTextDelimiter(cfg.TextDelimiter),
		endpoint:    cfg.OTLPEndpoint,
		out:         os.Stdout,
		timeout:     DefaultTimeout,
		now:         time.Now,
		loc:         time.UTC,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.serviceName == "" {
		s.serviceName = defaultServiceName
	}
	if s.scopeName == "" {
		s.scopeName = defaultScopeName
	}
	if s.diag == nil {
		s.diag = defaultDiagnostics()
	}
	if s.out == nil {
		s.out = io.Discard
	}
	if s.exporter == nil && s.endpoint != "" {
		s.exporter = NewTransport(s.endpoint,
			WithTransportTimeout(s.timeout),
			WithTransportClient(s.client),
			WithTransportDiagnostics(s.diag),
		)
	}

	return &Logger{s: s}
}

// Enabled reports whether messages at level pass the configured threshold.
func (l *Logger) Enabled(level Level) bool {
	return ShouldEmit(l.s.level, level)
}

// Log writes msg at level. keysAndValues are alternating keys and values forming the
// record context; the first value that is an error becomes the record's exception.
func (l *Logger) Log(level Level, msg string, keysAndValues ...any) {
	if !l.Enabled(level) {
		return
	}

	fields, err := collectFields(keysAndValues, true)
	l.handle(Record{
		Time:      l.s.now(),
		Level:     level,
		Message:   msg,
		Fields:    fields,
		Exception: NewException(err),
	}, l.span)
}

func (l *Logger) Debug(msg string, keysAndValues ...any) {
	l.Log(LevelDebug, msg, keysAndValues...)
}

func (l *Logger) Verbose(msg string, keysAndValues ...any) {
	l.Log(LevelVerbose, msg, keysAndValues...)
}

func (l *Logger) Info(msg string, keysAndValues ...any) {
	l.Log(LevelInfo, msg, keysAndValues...)
}

func (l *Logger) Warning(msg string, keysAndValues ...any) {
	l.Log(LevelWarning, msg, keysAndValues...)
}

func (l *Logger) Error(msg string, keysAndValues ...any) {
	l.Log(LevelError, msg, keysAndValues...)
}

// handle writes an already filtered record and exports it. span may be nil.
func (l *Logger) handle(r Record, span *Span) {
	if span != nil {
		r.TraceID = span.traceID
		r.SpanID = span.spanID
	}

	l.write(r)

	if l.s.exporter != nil {
		l.s.exporter.Export(context.Background(), LogsPath, BuildLogsPayload(l.s.serviceName, l.s.scopeName, r))
	}
}

func (l *Logger) write(r Record) {
	var line string
	switch l.s.format {
	case FormatJSON:
		line = FormatJSONLine(r, l.s.loc)
	default:
		line = FormatTextLine(r, l.s.loc, l.s.delimiter)
	}

	l.s.mu.Lock()
	_, err := fmt.Fprintln(l.s.out, line)
	l.s.mu.Unlock()

	if err != nil {
		l.s.diag.Warn("console write failed", slog.String("error", err.Error()))
	}
}

// CreateSpanLogger starts a span named name and returns a logger bound to it.
// The span's parent is the span of l, if any. l itself is unaffected.
func (l *Logger) CreateSpanLogger(name string, keysAndValues ...any) *Logger {
	attrs := NewFields(keysAndValues...)

	var span *Span
	switch {
	case l.span == nil:
		span = newSpan(name, l.s.serviceName, l.s.scopeName, attrs, trace.TraceID{}, trace.SpanID{}, l.s.now)
	case l.s.independentTraces:
		span = newSpan(name, l.s.serviceName, l.s.scopeName, attrs, trace.TraceID{}, l.span.spanID, l.s.now)
	default:
		span = l.span.Child(name, attrs)
	}

	span.Publish(context.Background(), l.s.exporter)

	return &Logger{s: l.s, span: span}
}

// EndSpan ends the span the logger is bound to. It is a no-op for loggers without a span.
func (l *Logger) EndSpan() {
	if l.span == nil {
		return
	}
	l.span.End(context.Background())
}

// Span returns the span the logger is bound to, or nil.
func (l *Logger) Span() *Span {
	return l.span
}
