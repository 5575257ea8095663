/*
 * Copyright (c) 2024 yakumioto <yaku.mioto@gmail.com>
 * All rights reserved.
 */

package otlplog

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHandler tests the slog.Handler bridge.
func TestHandler(t *testing.T) {
	setupLogger := func(level string) (*slog.Logger, *bytes.Buffer, *MockExporter) {
		buf := bytes.NewBuffer(nil)
		exporter := &MockExporter{}
		logger := New(Config{Level: level}, WithOutput(buf), WithExporter(exporter), WithClock(fixedClock))
		return slog.New(NewHandler(logger)), buf, exporter
	}

	t.Run("record", func(t *testing.T) {
		buf := bytes.NewBuffer(nil)
		h := NewHandler(New(Config{Format: "json"}, WithOutput(buf)))

		record := slog.NewRecord(testTime, slog.LevelInfo, "hello", 0)
		record.AddAttrs(slog.String("k", "v"), slog.Int("n", 1))
		require.NoError(t, h.Handle(context.Background(), record))

		assert.Equal(t, `{"level":"INFO","datetime":"2024-01-02 15:04:05","message":"hello","context":{"k":"v","n":1}}`+"\n", buf.String())
	})

	t.Run("zero time uses the clock", func(t *testing.T) {
		buf := bytes.NewBuffer(nil)
		h := NewHandler(New(Config{}, WithOutput(buf), WithClock(fixedClock)))

		require.NoError(t, h.Handle(context.Background(), slog.Record{Level: slog.LevelWarn, Message: "m"}))
		assert.Equal(t, "WARNING\t2024-01-02 15:04:05\tm\n", buf.String())
	})

	t.Run("enabled", func(t *testing.T) {
		h := NewHandler(New(Config{Level: "info"}, WithOutput(io.Discard)))

		assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
		assert.False(t, h.Enabled(context.Background(), LevelVerboseSlog))
		assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
		assert.True(t, h.Enabled(context.Background(), slog.LevelError))
	})

	t.Run("filtered records have no side effects", func(t *testing.T) {
		logger, buf, exporter := setupLogger("warning")

		logger.Info("hidden")
		assert.Empty(t, buf.String())
		assert.Empty(t, exporter.Exports())
	})

	t.Run("with attrs and groups", func(t *testing.T) {
		logger, buf, _ := setupLogger("debug")

		logger.With("a", 1).WithGroup("req").With("id", "x").Info("m", "b", 2, slog.Group("user", "name", "n"))

		line := strings.TrimSpace(buf.String())
		assert.True(t, strings.HasSuffix(line, "\tm\ta=1&req.id=x&req.b=2&req.user.name=n"), line)
	})

	t.Run("handlers do not share attrs", func(t *testing.T) {
		logger, buf, _ := setupLogger("debug")

		base := logger.With("a", 1)
		base.With("b", 2).Info("first")
		base.Info("second")

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)
		assert.True(t, strings.HasSuffix(lines[0], "\tfirst\ta=1&b=2"), lines[0])
		assert.True(t, strings.HasSuffix(lines[1], "\tsecond\ta=1"), lines[1])
	})

	t.Run("error becomes the exception", func(t *testing.T) {
		logger, buf, exporter := setupLogger("debug")

		logger.Error("failed", "error", errors.New("disk full"), "k", "v")

		line := strings.TrimSpace(buf.String())
		assert.True(t, strings.HasSuffix(line, "\tfailed\tk=v\t*errors.errorString: disk full"), line)

		record := logRecordOf(exporter.Logs()[0])
		assert.Equal(t, int32(17), record.SeverityNumber)
		assert.Equal(t, "exception.message", record.Attributes[3].Key)
		assert.Equal(t, "disk full", record.Attributes[3].Value.StringValue)
	})

	t.Run("span attr correlates the record", func(t *testing.T) {
		logger, buf, exporter := setupLogger("debug")
		span := NewSpan("op", "svc", nil)

		logger.Info("traced", "span", span, "k", "v")

		record := logRecordOf(exporter.Logs()[0])
		assert.Equal(t, span.TraceID(), record.TraceID)
		assert.Equal(t, span.ID(), record.SpanID)
		assert.Equal(t, []KeyValue{{Key: "k", Value: AnyValue{StringValue: "v"}}}, record.Attributes)
		assert.Contains(t, buf.String(), "k=v&traceId="+span.TraceID()+"&spanId="+span.ID())
	})

	t.Run("broken errors", func(t *testing.T) {
		logger, buf, exporter := setupLogger("debug")

		assert.NotPanics(t, func() {
			logger.Error("typed nil", slog.Any("err", (*nilReceiverError)(nil)))
			logger.Error("panicking", slog.Any("err", panickingError{}))
		})

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)
		assert.True(t, strings.HasSuffix(lines[0], "\ttyped nil\t*otlplog.nilReceiverError: <nil>"), lines[0])
		assert.True(t, strings.HasSuffix(lines[1], "\tpanicking\totlplog.panickingError: %!v(PANIC=Error method: boom)"), lines[1])
		assert.Len(t, exporter.Logs(), 2)
	})

	t.Run("span inside a group", func(t *testing.T) {
		logger, _, exporter := setupLogger("debug")
		span := NewSpan("op", "svc", nil)

		logger.Info("grouped", slog.Group("req", slog.Any("span", span)))

		record := logRecordOf(exporter.Logs()[0])
		assert.Empty(t, record.SpanID)
		assert.Equal(t, []KeyValue{{Key: "req.span", Value: AnyValue{StringValue: span.ID()}}}, record.Attributes)
	})

	t.Run("span from with attrs", func(t *testing.T) {
		logger, _, exporter := setupLogger("debug")
		span := NewSpan("op", "svc", nil)

		logger.With("span", span).Info("traced")

		assert.Equal(t, span.ID(), logRecordOf(exporter.Logs()[0]).SpanID)
	})

	t.Run("span logger", func(t *testing.T) {
		exporter := &MockExporter{}
		spanLogger := New(Config{}, WithOutput(io.Discard), WithExporter(exporter)).CreateSpanLogger("op")

		slog.New(NewHandler(spanLogger)).Info("inside")

		logs := exporter.Logs()
		require.Len(t, logs, 1)
		assert.Equal(t, spanLogger.Span().ID(), logRecordOf(logs[0]).SpanID)
	})
}

func TestFromSlogLevel(t *testing.T) {
	tests := []struct {
		level    slog.Level
		expected Level
	}{
		{level: slog.LevelDebug - 4, expected: LevelDebug},
		{level: slog.LevelDebug, expected: LevelDebug},
		{level: slog.LevelDebug + 1, expected: LevelVerbose},
		{level: LevelVerboseSlog, expected: LevelVerbose},
		{level: slog.LevelInfo, expected: LevelInfo},
		{level: slog.LevelInfo + 2, expected: LevelInfo},
		{level: slog.LevelWarn, expected: LevelWarning},
		{level: slog.LevelError, expected: LevelError},
		{level: slog.LevelError + 4, expected: LevelError},
	}

	for _, test := range tests {
		t.Run(test.level.String(), func(t *testing.T) {
			assert.Equal(t, test.expected, fromSlogLevel(test.level))
		})
	}
}
