/*
 * Copyright (c) 2024 yakumioto <yaku.mioto@gmail.com>
 * All rights reserved.
 */

package otlplog

import (
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// Exception summarizes an error attached to a log record.
type Exception struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Stack   string `json:"stacktrace,omitempty"`
}

// NewException summarizes err. It returns nil for a nil error.
// The stack is taken from the first error in the chain created by github.com/pkg/errors.
func NewException(err error) *Exception {
	if err == nil {
		return nil
	}

	// fmt recovers from typed-nil receivers and panicking Error methods.
	return &Exception{
		Type:    fmt.Sprintf("%T", err),
		Message: fmt.Sprint(err),
		Stack:   stackOf(err),
	}
}

// stackOf renders the pkg/errors stack trace found in err's chain, if any.
// Unwrap and StackTrace are user code and may panic; that yields no stack.
func stackOf(err error) (stack string) {
	defer func() {
		if recover() != nil {
			stack = ""
		}
	}()

	var st stackTracer
	if errors.As(err, &st) {
		stack = strings.TrimPrefix(fmt.Sprintf("%+v", st.StackTrace()), "\n")
	}
	return stack
}

// String renders the type, message and stack trace.
func (e *Exception) String() string {
	if e == nil {
		return ""
	}

	s := e.Type + ": " + e.Message
	if e.Stack != "" {
		s += "\nStack trace:\n" + e.Stack
	}
	return s
}
