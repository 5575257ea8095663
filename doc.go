/*
Package otlplog provides a leveled console logger that can correlate log entries with
tracing spans and export both to an OpenTelemetry collector over OTLP/HTTP JSON.

# Core Concepts

A Logger filters messages by severity, writes one console line per accepted message and,
when a collector endpoint is configured, POSTs one OTLP log record per message to
<endpoint>/v1/logs. Spans are exported to <endpoint>/v1/traces when they start and again
when they end.

Severity is ordered ERROR < WARNING < INFO < VERBOSE < DEBUG. A message is emitted when
its level is at least as severe as the configured threshold, that is at or before it in
that order:

	ERROR   -> severityNumber 17, "ERROR"
	WARNING -> severityNumber 13, "WARNING"
	INFO    -> severityNumber 9,  "INFO"
	VERBOSE -> severityNumber 8,  "DEBUG4"
	DEBUG   -> severityNumber 5,  "DEBUG"

# Basic Usage

1. Creating a logger from the environment:

	cfg, err := otlplog.LoadConfig() // SERVICE_NAME, LOG_LEVEL, LOG_FORMAT, LOG_TEXT_DELIMITER, OTLP_COLLECTOR_ENDPOINT
	if err != nil {
	    panic(err)
	}
	logger := otlplog.New(cfg)
	logger.Info("server started", "port", 8080)

2. Attaching an error:

	logger.Error("request failed", "path", r.URL.Path, "error", err)

The first value that implements error is reported as the record's exception instead of
a context entry. Errors created with github.com/pkg/errors carry their stack trace.

# Span Loggers

CreateSpanLogger starts a span and returns a logger bound to it. Records written through
that logger carry the span's trace and span ids, on the console and in OTLP:

	reqLogger := logger.CreateSpanLogger("handle request", "method", r.Method)
	defer reqLogger.EndSpan()

	dbLogger := reqLogger.CreateSpanLogger("query")
	dbLogger.Debug("running query")
	dbLogger.EndSpan()

Child spans inherit the trace id of their parent. WithIndependentTraces gives every span
its own trace id while still recording the parent span id.

Pass loggers explicitly, or through a context with NewContext and FromContext.
ContextWithSpan lets spans started by an OpenTelemetry SDK continue a span's trace.

# Console Output

Text lines are delimiter separated (tab by default):

	INFO	2024-01-02 15:04:05	server started	port=8080

JSON lines omit absent context and exception keys:

	{"level":"INFO","datetime":"2024-01-02 15:04:05","message":"server started","context":{"port":8080}}

# slog Integration

NewHandler adapts a Logger to slog.Handler so log/slog callers share the same pipeline:

	slog.SetDefault(slog.New(otlplog.NewHandler(logger)))
	slog.Info("hello, world", "user_id", "id")

# Failure Handling

Exports are synchronous, one HTTP attempt per event, bounded by a 2 second timeout.
A 200 response with the body {"partialSuccess":{}} is success. Any other outcome is
reported to the diagnostics slog.Logger (stderr unless WithDiagnostics is used) and the
logging call returns normally.

# Thread Safety

Console writes are serialized, so a Logger may be shared between goroutines. Spans are
not synchronized: a span logger should be ended by the code path that created it.
*/
package otlplog
