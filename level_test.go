/*
 * Copyright (c) 2024 yakumioto <yaku.mioto@gmail.com>
 * All rights reserved.
 */

package otlplog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var allLevels = []Level{LevelError, LevelWarning, LevelInfo, LevelVerbose, LevelDebug}

func TestShouldEmit(t *testing.T) {
	for i, configured := range allLevels {
		for j, candidate := range allLevels {
			t.Run(fmt.Sprintf("%s/%s", configured, candidate), func(t *testing.T) {
				assert.Equal(t, j <= i, ShouldEmit(configured, candidate))
			})
		}
	}

	t.Run("info threshold", func(t *testing.T) {
		assert.True(t, ShouldEmit(LevelInfo, LevelError))
		assert.True(t, ShouldEmit(LevelInfo, LevelWarning))
		assert.True(t, ShouldEmit(LevelInfo, LevelInfo))
		assert.False(t, ShouldEmit(LevelInfo, LevelVerbose))
		assert.False(t, ShouldEmit(LevelInfo, LevelDebug))
	})

	t.Run("out of range", func(t *testing.T) {
		assert.False(t, ShouldEmit(LevelError, Level(-1)))
		assert.False(t, ShouldEmit(LevelDebug, Level(-1)))
		assert.False(t, ShouldEmit(LevelDebug, LevelDebug+1))
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{input: "ERROR", expected: LevelError},
		{input: "error", expected: LevelError},
		{input: "Warning", expected: LevelWarning},
		{input: "info", expected: LevelInfo},
		{input: " verbose ", expected: LevelVerbose},
		{input: "debug", expected: LevelDebug},
		{input: "", expected: LevelDebug},
		{input: "warn", expected: LevelDebug},
		{input: "loud", expected: LevelDebug},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			assert.Equal(t, test.expected, ParseLevel(test.input))
		})
	}
}

func TestLevelSeverity(t *testing.T) {
	tests := []struct {
		level  Level
		name   string
		number int32
		text   string
	}{
		{level: LevelError, name: "ERROR", number: 17, text: "ERROR"},
		{level: LevelWarning, name: "WARNING", number: 13, text: "WARNING"},
		{level: LevelInfo, name: "INFO", number: 9, text: "INFO"},
		{level: LevelVerbose, name: "VERBOSE", number: 8, text: "DEBUG4"},
		{level: LevelDebug, name: "DEBUG", number: 5, text: "DEBUG"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.name, test.level.String())
			assert.Equal(t, test.number, int32(test.level.SeverityNumber()))
			assert.Equal(t, test.text, test.level.SeverityText())
		})
	}
}

func TestParseFormatAndDelimiter(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatText, ParseFormat("text"))
	assert.Equal(t, FormatText, ParseFormat("yaml"))
	assert.Equal(t, FormatText, ParseFormat(""))

	assert.Equal(t, DelimiterSpace, ParseTextDelimiter("space"))
	assert.Equal(t, DelimiterTab, ParseTextDelimiter("tab"))
	assert.Equal(t, DelimiterTab, ParseTextDelimiter("comma"))
	assert.Equal(t, " ", DelimiterSpace.separator())
	assert.Equal(t, "\t", DelimiterTab.separator())
}
