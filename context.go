/*
 * Copyright (c) 2024 yakumioto <yaku.mioto@gmail.com>
 * All rights reserved.
 */

package otlplog

import (
	"context"
	"io"
)

type contextKey struct{}

var loggerContextKey = contextKey{}

// discardLogger is returned by FromContext when the context carries no logger.
var discardLogger = New(Config{Level: "error"}, WithOutput(io.Discard))

// NewContext returns a copy of ctx carrying logger. Span loggers are passed down a call
// tree this way instead of through package state.
func NewContext(ctx context.Context, logger *Logger) context.Context {
	if logger == nil {
		logger = discardLogger
	}
	return context.WithValue(ctx, loggerContextKey, logger)
}

// FromContext returns the logger stored in ctx, or a logger that discards everything.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerContextKey).(*Logger); ok {
		return l
	}
	return discardLogger
}
