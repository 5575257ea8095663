/*
 * Copyright (c) 2024 yakumioto <yaku.mioto@gmail.com>
 * All rights reserved.
 */

package otlplog

import (
	"context"
	"sync"
	"time"
)

// MockExporter records every export instead of sending it.
type MockExporter struct {
	mu      sync.Mutex
	exports []mockExport
}

type mockExport struct {
	Path    string
	Payload any
}

func (e *MockExporter) Export(_ context.Context, path string, payload any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.exports = append(e.exports, mockExport{Path: path, Payload: payload})
}

// Exports returns a snapshot of the recorded exports.
func (e *MockExporter) Exports() []mockExport {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]mockExport(nil), e.exports...)
}

// Logs returns the recorded log payloads in order.
func (e *MockExporter) Logs() []LogsPayload {
	var logs []LogsPayload
	for _, exp := range e.Exports() {
		if p, ok := exp.Payload.(LogsPayload); ok && exp.Path == LogsPath {
			logs = append(logs, p)
		}
	}
	return logs
}

// Traces returns the recorded trace payloads in order.
func (e *MockExporter) Traces() []TracesPayload {
	var traces []TracesPayload
	for _, exp := range e.Exports() {
		if p, ok := exp.Payload.(TracesPayload); ok && exp.Path == TracesPath {
			traces = append(traces, p)
		}
	}
	return traces
}

func logRecordOf(p LogsPayload) LogRecordData {
	return p.ResourceLogs[0].ScopeLogs[0].LogRecords[0]
}

func spanDataOf(p TracesPayload) SpanData {
	return p.ResourceSpans[0].ScopeSpans[0].Spans[0]
}

// stepClock returns a clock that starts at start and advances by step on every call.
func stepClock(start time.Time, step time.Duration) func() time.Time {
	var (
		mu  sync.Mutex
		now = start
	)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := now
		now = now.Add(step)
		return t
	}
}
