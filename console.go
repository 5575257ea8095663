/*
 * Copyright (c) 2024 yakumioto <yaku.mioto@gmail.com>
 * All rights reserved.
 */

package otlplog

import (
	"encoding/json"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DateTimeLayout is the layout of the datetime column of console lines.
const DateTimeLayout = "2006-01-02 15:04:05"

const (
	traceIDKey = "traceId"
	spanIDKey  = "spanId"
)

// Record is a single log event. It is built per call and never retained.
type Record struct {
	Time      time.Time
	Level     Level
	Message   string
	Fields    Fields
	Exception *Exception

	// Set when the record is correlated with a span.
	TraceID trace.TraceID
	SpanID  trace.SpanID
}

// consoleFields returns the fields shown on the console, including span correlation.
func (r Record) consoleFields() Fields {
	if !r.SpanID.IsValid() {
		return r.Fields
	}
	return r.Fields.With(
		attribute.String(traceIDKey, r.TraceID.String()),
		attribute.String(spanIDKey, r.SpanID.String()),
	)
}

// formatDateTime formats t in loc, or in UTC when loc is nil.
func formatDateTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateTimeLayout)
}

type consoleLine struct {
	Level     string     `json:"level"`
	DateTime  string     `json:"datetime"`
	Message   string     `json:"message"`
	Context   Fields     `json:"context,omitempty"`
	Exception *Exception `json:"exception,omitempty"`
}

// FormatJSONLine renders r as a single JSON object. Absent context and exception are omitted.
func FormatJSONLine(r Record, loc *time.Location) string {
	line := consoleLine{
		Level:     r.Level.String(),
		DateTime:  formatDateTime(r.Time, loc),
		Message:   r.Message,
		Context:   r.consoleFields(),
		Exception: r.Exception,
	}

	b, err := json.Marshal(line)
	if err != nil {
		// Partial output: drop the context rather than the whole line.
		line.Context = nil
		b, _ = json.Marshal(line)
	}
	return string(b)
}

// FormatTextLine renders r as delimiter separated columns.
// The context is rendered as a URL query string and the exception in full.
func FormatTextLine(r Record, loc *time.Location, delimiter TextDelimiter) string {
	columns := []string{
		r.Level.String(),
		formatDateTime(r.Time, loc),
		r.Message,
	}

	if fields := r.consoleFields(); len(fields) > 0 {
		columns = append(columns, fields.Query())
	}
	if r.Exception != nil {
		columns = append(columns, r.Exception.String())
	}

	return strings.Join(columns, delimiter.separator())
}
