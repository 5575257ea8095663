/*
 * Copyright (c) 2024 yakumioto <yaku.mioto@gmail.com>
 * All rights reserved.
 */

package otlplog

import (
	"strings"

	logspb "go.opentelemetry.io/proto/otlp/logs/v1"
)

// Level is the severity of a log message. Lower values are more severe.
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
	LevelVerbose
	LevelDebug
)

var levelNames = [...]string{
	LevelError:   "ERROR",
	LevelWarning: "WARNING",
	LevelInfo:    "INFO",
	LevelVerbose: "VERBOSE",
	LevelDebug:   "DEBUG",
}

// ParseLevel parses a level name case-insensitively.
// Unknown names fall back to LevelDebug so that nothing is silently dropped.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return LevelError
	case "WARNING":
		return LevelWarning
	case "INFO":
		return LevelInfo
	case "VERBOSE":
		return LevelVerbose
	default:
		return LevelDebug
	}
}

// ShouldEmit reports whether a message at candidate passes the configured threshold.
// Levels outside LevelError..LevelDebug never pass.
func ShouldEmit(configured, candidate Level) bool {
	return candidate.valid() && candidate <= configured
}

func (l Level) valid() bool {
	return l >= LevelError && l <= LevelDebug
}

func (l Level) String() string {
	if !l.valid() {
		return "DEBUG"
	}
	return levelNames[l]
}

// SeverityNumber returns the OTLP severity number for the level.
func (l Level) SeverityNumber() logspb.SeverityNumber {
	switch l {
	case LevelError:
		return logspb.SeverityNumber_SEVERITY_NUMBER_ERROR
	case LevelWarning:
		return logspb.SeverityNumber_SEVERITY_NUMBER_WARN
	case LevelInfo:
		return logspb.SeverityNumber_SEVERITY_NUMBER_INFO
	case LevelVerbose:
		return logspb.SeverityNumber_SEVERITY_NUMBER_DEBUG4
	default:
		return logspb.SeverityNumber_SEVERITY_NUMBER_DEBUG
	}
}

// SeverityText returns the OTLP severity text for the level.
// VERBOSE has no OTLP name of its own and is reported as DEBUG4.
func (l Level) SeverityText() string {
	if l == LevelVerbose {
		return "DEBUG4"
	}
	return l.String()
}

// LogFormat selects how console lines are rendered.
type LogFormat string

const (
	FormatText LogFormat = "text"
	FormatJSON LogFormat = "json"
)

// ParseFormat parses a format name, falling back to FormatText.
func ParseFormat(s string) LogFormat {
	if LogFormat(strings.ToLower(strings.TrimSpace(s))) == FormatJSON {
		return FormatJSON
	}
	return FormatText
}

// TextDelimiter separates the columns of a text console line.
type TextDelimiter string

const (
	DelimiterTab   TextDelimiter = "tab"
	DelimiterSpace TextDelimiter = "space"
)

// ParseTextDelimiter parses a delimiter name, falling back to DelimiterTab.
func ParseTextDelimiter(s string) TextDelimiter {
	if TextDelimiter(strings.ToLower(strings.TrimSpace(s))) == DelimiterSpace {
		return DelimiterSpace
	}
	return DelimiterTab
}

func (d TextDelimiter) separator() string {
	if d == DelimiterSpace {
		return " "
	}
	return "\t"
}
