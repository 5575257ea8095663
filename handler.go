/*
 * Copyright (c) 2024 yakumioto <yaku.mioto@gmail.com>
 * All rights reserved.
 */

package otlplog

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
)

// LevelVerboseSlog is the slog level that maps to LevelVerbose.
// Any slog level strictly between Debug and Info maps to LevelVerbose.
const LevelVerboseSlog = slog.Level(-2)

// NewHandler creates a slog.Handler that routes records through logger:
// the logger's level threshold, console format and OTLP export all apply.
func NewHandler(logger *Logger) *Handler {
	return &Handler{logger: logger}
}

// Handler adapts a Logger to slog.Handler.
//
// Attributes are flattened into the record context with group names joined by dots.
// A top-level attribute whose value is a *Span correlates the record with that span
// instead of the logger's own, and the first top-level error value becomes the
// record's exception. A *Span inside a group is recorded as its span id only.
type Handler struct {
	logger *Logger

	attrs     Fields
	groupKeys []string

	span *Span
	err  error
}

// Enabled checks if the logger accepts records at the given slog.Level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return h.logger.Enabled(fromSlogLevel(level))
}

// Handle converts the slog.Record and hands it to the logger.
func (h *Handler) Handle(_ context.Context, record slog.Record) error {
	level := fromSlogLevel(record.Level)
	if !h.logger.Enabled(level) {
		return nil
	}

	fields := h.attrs.With()
	span, exc := h.span, h.err
	record.Attrs(func(attr slog.Attr) bool {
		h.collect(attr, &fields, &span, &exc)
		return true
	})

	if span == nil {
		span = h.logger.span
	}

	t := record.Time
	if t.IsZero() {
		t = h.logger.s.now()
	}

	h.logger.handle(Record{
		Time:      t,
		Level:     level,
		Message:   record.Message,
		Fields:    fields,
		Exception: NewException(exc),
	}, span)

	return nil
}

// collect adds attr to fields, picking out a span or an error value on the top level.
func (h *Handler) collect(attr slog.Attr, fields *Fields, span **Span, exc *error) {
	val := attr.Value.Resolve()
	if val.Kind() == slog.KindAny {
		switch v := val.Any().(type) {
		case *Span:
			*span = v
			return
		case error:
			if *exc == nil {
				*exc = v
				return
			}
		}
	}

	convertAttrs(attr, func(kv attribute.KeyValue) {
		fields.set(kv)
	}, h.groupKeys...)
}

// WithAttrs returns a new slog.Handler that includes the given slog.Attrs.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	h2 := h.clone()
	for _, attr := range attrs {
		h2.collect(attr, &h2.attrs, &h2.span, &h2.err)
	}
	return h2
}

// WithGroup returns a new slog.Handler that nests subsequent attributes under name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	h2 := h.clone()
	h2.groupKeys = append(h2.groupKeys, name)
	return h2
}

func (h *Handler) clone() *Handler {
	return &Handler{
		logger:    h.logger,
		attrs:     h.attrs.With(),
		groupKeys: append([]string(nil), h.groupKeys...),
		span:      h.span,
		err:       h.err,
	}
}

func fromSlogLevel(level slog.Level) Level {
	switch {
	case level >= slog.LevelError:
		return LevelError
	case level >= slog.LevelWarn:
		return LevelWarning
	case level >= slog.LevelInfo:
		return LevelInfo
	case level > slog.LevelDebug:
		return LevelVerbose
	default:
		return LevelDebug
	}
}
