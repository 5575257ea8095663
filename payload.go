/*
 * Copyright (c) 2024 yakumioto <yaku.mioto@gmail.com>
 * All rights reserved.
 */

package otlplog

import (
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// Types below follow the OTLP/HTTP JSON encoding: ids are lowercase hex and
// 64-bit nanosecond timestamps are decimal strings.

type AnyValue struct {
	StringValue string `json:"stringValue"`
}

type KeyValue struct {
	Key   string   `json:"key"`
	Value AnyValue `json:"value"`
}

type Resource struct {
	Attributes []KeyValue `json:"attributes"`
}

type Scope struct {
	Name string `json:"name"`
}

// LogsPayload is the body POSTed to /v1/logs.
type LogsPayload struct {
	ResourceLogs []ResourceLogs `json:"resourceLogs"`
}

type ResourceLogs struct {
	Resource  Resource    `json:"resource"`
	ScopeLogs []ScopeLogs `json:"scopeLogs"`
}

type ScopeLogs struct {
	Scope      Scope           `json:"scope"`
	LogRecords []LogRecordData `json:"logRecords"`
}

type LogRecordData struct {
	TimeUnixNano   string     `json:"timeUnixNano"`
	SeverityNumber int32      `json:"severityNumber"`
	SeverityText   string     `json:"severityText"`
	Body           AnyValue   `json:"body"`
	TraceID        string     `json:"traceId,omitempty"`
	SpanID         string     `json:"spanId,omitempty"`
	Attributes     []KeyValue `json:"attributes,omitempty"`
}

// TracesPayload is the body POSTed to /v1/traces.
type TracesPayload struct {
	ResourceSpans []ResourceSpans `json:"resourceSpans"`
}

type ResourceSpans struct {
	Resource   Resource     `json:"resource"`
	ScopeSpans []ScopeSpans `json:"scopeSpans"`
}

type ScopeSpans struct {
	Scope Scope      `json:"scope"`
	Spans []SpanData `json:"spans"`
}

type SpanData struct {
	TraceID           string     `json:"traceId"`
	SpanID            string     `json:"spanId"`
	ParentSpanID      string     `json:"parentSpanId,omitempty"`
	Name              string     `json:"name"`
	Kind              int32      `json:"kind"`
	StartTimeUnixNano string     `json:"startTimeUnixNano"`
	EndTimeUnixNano   string     `json:"endTimeUnixNano"`
	Attributes        []KeyValue `json:"attributes,omitempty"`
}

// exceptionKey holds the full rendering of an exception on OTLP log records.
const exceptionKey = "exception"

// BuildLogsPayload builds the OTLP log export request for a single record.
func BuildLogsPayload(serviceName, scopeName string, r Record) LogsPayload {
	record := LogRecordData{
		TimeUnixNano:   unixNano(r.Time),
		SeverityNumber: int32(r.Level.SeverityNumber()),
		SeverityText:   r.Level.SeverityText(),
		Body:           AnyValue{StringValue: r.Message},
	}

	if r.SpanID.IsValid() {
		record.TraceID = r.TraceID.String()
		record.SpanID = r.SpanID.String()
	}

	fields := r.Fields
	if exc := r.Exception; exc != nil {
		fields = fields.With(
			attribute.String(exceptionKey, exc.String()),
			semconv.ExceptionTypeKey.String(exc.Type),
			semconv.ExceptionMessageKey.String(exc.Message),
		)
		if exc.Stack != "" {
			fields = fields.With(semconv.ExceptionStacktraceKey.String(exc.Stack))
		}
	}
	record.Attributes = keyValues(fields)

	return LogsPayload{
		ResourceLogs: []ResourceLogs{{
			Resource: serviceResource(serviceName),
			ScopeLogs: []ScopeLogs{{
				Scope:      Scope{Name: scopeName},
				LogRecords: []LogRecordData{record},
			}},
		}},
	}
}

// BuildTracesPayload wraps span data into an OTLP trace export request.
func BuildTracesPayload(serviceName, scopeName string, span SpanData) TracesPayload {
	return TracesPayload{
		ResourceSpans: []ResourceSpans{{
			Resource: serviceResource(serviceName),
			ScopeSpans: []ScopeSpans{{
				Scope: Scope{Name: scopeName},
				Spans: []SpanData{span},
			}},
		}},
	}
}

func serviceResource(serviceName string) Resource {
	return Resource{
		Attributes: []KeyValue{{
			Key:   string(semconv.ServiceNameKey),
			Value: AnyValue{StringValue: serviceName},
		}},
	}
}

func keyValues(fields Fields) []KeyValue {
	if len(fields) == 0 {
		return nil
	}

	kvs := make([]KeyValue, 0, len(fields))
	for _, kv := range fields {
		kvs = append(kvs, KeyValue{
			Key:   string(kv.Key),
			Value: AnyValue{StringValue: stringValue(kv)},
		})
	}
	return kvs
}

func unixNano(t time.Time) string {
	return strconv.FormatInt(t.UnixNano(), 10)
}
