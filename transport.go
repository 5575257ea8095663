/*
 * Copyright (c) 2024 yakumioto <yaku.mioto@gmail.com>
 * All rights reserved.
 */

package otlplog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	collogspb "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	coltracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	"google.golang.org/protobuf/encoding/protojson"
)

const (
	LogsPath   = "/v1/logs"
	TracesPath = "/v1/traces"

	// DefaultTimeout bounds every export so a slow collector cannot stall the caller for long.
	DefaultTimeout = 2 * time.Second

	// Collectors answer a fully accepted export with an empty partialSuccess object.
	successBody = `{"partialSuccess":{}}`

	maxResponseBody = 64 << 10
)

var (
	ErrUnexpectedStatus = errors.New("otlplog: unexpected response status")
	ErrUnexpectedBody   = errors.New("otlplog: unexpected response body")
)

// Exporter delivers an OTLP JSON payload to path on a collector.
// Implementations must not block longer than their own timeout and never fail the caller.
type Exporter interface {
	Export(ctx context.Context, path string, payload any)
}

// ExportError describes a failed export.
type ExportError struct {
	URL    string
	Status int
	Body   string
	Err    error
}

func (e *ExportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("otlplog: export to %s: status %d: %v", e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("otlplog: export to %s: %v", e.URL, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// TransportOptions is a functional option for the Transport.
type TransportOptions func(*Transport)

// WithTransportTimeout sets the per-export timeout.
func WithTransportTimeout(timeout time.Duration) TransportOptions {
	return func(t *Transport) {
		if timeout > 0 {
			t.timeout = timeout
		}
	}
}

// WithTransportClient sets the HTTP client used for exports.
func WithTransportClient(client *http.Client) TransportOptions {
	return func(t *Transport) {
		if client != nil {
			t.client = client
		}
	}
}

// WithTransportDiagnostics sets the logger that receives export failures.
func WithTransportDiagnostics(diag *slog.Logger) TransportOptions {
	return func(t *Transport) {
		if diag != nil {
			t.diag = diag
		}
	}
}

// Transport POSTs OTLP JSON payloads to a collector, one request per payload.
// Failures are reported to the diagnostics logger and never returned.
type Transport struct {
	endpoint string
	client   *http.Client
	timeout  time.Duration
	diag     *slog.Logger
}

// NewTransport creates a Transport for the collector base URL endpoint,
// for example http://localhost:4318.
func NewTransport(endpoint string, opts ...TransportOptions) *Transport {
	t := &Transport{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{},
		timeout:  DefaultTimeout,
		diag:     defaultDiagnostics(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Export sends payload to path. It returns once the collector answered or the timeout elapsed.
func (t *Transport) Export(ctx context.Context, path string, payload any) {
	if err := t.post(ctx, path, payload); err != nil {
		t.report(path, err)
	}
}

func (t *Transport) post(ctx context.Context, path string, payload any) error {
	url := t.endpoint + path

	body, err := json.Marshal(payload)
	if err != nil {
		return &ExportError{URL: url, Err: fmt.Errorf("encode payload: %w", err)}
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return &ExportError{URL: url, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return &ExportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return &ExportError{URL: url, Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	respBody := strings.TrimSpace(string(raw))
	if resp.StatusCode != http.StatusOK {
		return &ExportError{URL: url, Status: resp.StatusCode, Body: respBody, Err: ErrUnexpectedStatus}
	}
	if respBody != successBody {
		return &ExportError{URL: url, Status: resp.StatusCode, Body: respBody, Err: ErrUnexpectedBody}
	}

	return nil
}

func (t *Transport) report(path string, err error) {
	attrs := []any{slog.String("error", err.Error())}

	var exportErr *ExportError
	if errors.As(err, &exportErr) {
		attrs = append(attrs, slog.String("url", exportErr.URL))
		if exportErr.Status != 0 {
			attrs = append(attrs, slog.Int("status", exportErr.Status))
		}
		if exportErr.Body != "" {
			attrs = append(attrs, slog.String("body", exportErr.Body))
			attrs = append(attrs, partialSuccessAttrs(path, exportErr.Body)...)
		}
	}

	t.diag.Warn("otlp export failed", attrs...)
}

// partialSuccessAttrs decodes an OTLP export response and reports what the collector rejected.
func partialSuccessAttrs(path, body string) []any {
	opts := protojson.UnmarshalOptions{DiscardUnknown: true}

	switch path {
	case LogsPath:
		var resp collogspb.ExportLogsServiceResponse
		if err := opts.Unmarshal([]byte(body), &resp); err != nil || resp.GetPartialSuccess() == nil {
			return nil
		}
		ps := resp.GetPartialSuccess()
		return []any{
			slog.Int64("rejected", ps.GetRejectedLogRecords()),
			slog.String("reason", ps.GetErrorMessage()),
		}
	case TracesPath:
		var resp coltracepb.ExportTraceServiceResponse
		if err := opts.Unmarshal([]byte(body), &resp); err != nil || resp.GetPartialSuccess() == nil {
			return nil
		}
		ps := resp.GetPartialSuccess()
		return []any{
			slog.Int64("rejected", ps.GetRejectedSpans()),
			slog.String("reason", ps.GetErrorMessage()),
		}
	default:
		return nil
	}
}

func defaultDiagnostics() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}
