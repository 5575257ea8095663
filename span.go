/*
 * Copyright (c) 2024 yakumioto <yaku.mioto@gmail.com>
 * All rights reserved.
 */

package otlplog

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"
	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"
)

// Span is a named, timed unit of work exported to the collector.
//
// Building a span has no side effects. Publish exports it for the first time and
// End re-exports it with the closing timestamp. A span is owned by the code that
// created it and is not safe for concurrent use.
type Span struct {
	name        string
	serviceName string
	scopeName   string
	attrs       Fields

	traceID  trace.TraceID
	spanID   trace.SpanID
	parentID trace.SpanID

	start time.Time
	end   time.Time
	now   func() time.Time

	exporter Exporter
}

// NewSpan builds a root span starting now. Start and end times are equal until End.
func NewSpan(name, serviceName string, attrs Fields) *Span {
	return newSpan(name, serviceName, defaultScopeName, attrs, trace.TraceID{}, trace.SpanID{}, time.Now)
}

// Child builds a span whose parent is s. It belongs to the same trace and service.
func (s *Span) Child(name string, attrs Fields) *Span {
	return newSpan(name, s.serviceName, s.scopeName, attrs, s.traceID, s.spanID, s.now)
}

// newSpan builds a span. A zero traceID starts a new trace; a zero parentID makes a root.
func newSpan(
	name, serviceName, scopeName string,
	attrs Fields,
	traceID trace.TraceID,
	parentID trace.SpanID,
	now func() time.Time,
) *Span {
	if !traceID.IsValid() {
		traceID = newTraceID()
	}

	start := now()
	return &Span{
		name:        name,
		serviceName: serviceName,
		scopeName:   scopeName,
		attrs:       attrs,
		traceID:     traceID,
		spanID:      newSpanID(),
		parentID:    parentID,
		start:       start,
		end:         start,
		now:         now,
	}
}

// Publish exports the span through exporter and remembers it for End.
// A nil exporter disables export.
func (s *Span) Publish(ctx context.Context, exporter Exporter) {
	s.exporter = exporter
	s.export(ctx)
}

// End sets the end time to now and exports the span again.
// Calling End more than once exports once per call with the latest end time.
func (s *Span) End(ctx context.Context) {
	s.end = s.now()
	s.export(ctx)
}

func (s *Span) export(ctx context.Context) {
	if s.exporter == nil {
		return
	}
	s.exporter.Export(ctx, TracesPath, s.Payload())
}

// Payload returns the OTLP trace export request describing the span's current state.
func (s *Span) Payload() TracesPayload {
	data := SpanData{
		TraceID:           s.traceID.String(),
		SpanID:            s.spanID.String(),
		Name:              s.name,
		Kind:              int32(tracepb.Span_SPAN_KIND_UNSPECIFIED),
		StartTimeUnixNano: unixNano(s.start),
		EndTimeUnixNano:   unixNano(s.end),
		Attributes:        keyValues(s.attrs),
	}
	if s.parentID.IsValid() {
		data.ParentSpanID = s.parentID.String()
	}

	return BuildTracesPayload(s.serviceName, s.scopeName, data)
}

// ID returns the span id as 16 hex characters.
func (s *Span) ID() string { return s.spanID.String() }

// TraceID returns the trace id as 32 hex characters.
func (s *Span) TraceID() string { return s.traceID.String() }

// ParentID returns the parent span id, or "" for a root span.
func (s *Span) ParentID() string {
	if !s.parentID.IsValid() {
		return ""
	}
	return s.parentID.String()
}

func (s *Span) Name() string         { return s.name }
func (s *Span) StartTime() time.Time { return s.start }
func (s *Span) EndTime() time.Time   { return s.end }

// SpanContext returns the span's identity as an OpenTelemetry span context, so that
// spans started by an OpenTelemetry SDK can continue the trace.
func (s *Span) SpanContext() trace.SpanContext {
	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    s.traceID,
		SpanID:     s.spanID,
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	})
}

// ContextWithSpan returns a copy of ctx carrying s as the remote parent span.
func ContextWithSpan(ctx context.Context, s *Span) context.Context {
	return trace.ContextWithRemoteSpanContext(ctx, s.SpanContext())
}

func newTraceID() trace.TraceID {
	var id trace.TraceID
	for !id.IsValid() {
		randomBytes(id[:])
	}
	return id
}

func newSpanID() trace.SpanID {
	var id trace.SpanID
	for !id.IsValid() {
		randomBytes(id[:])
	}
	return id
}

func randomBytes(b []byte) {
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("otlplog: read random bytes: %v", err))
	}
}
