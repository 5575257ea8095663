/*
 * Copyright (c) 2024 yakumioto <yaku.mioto@gmail.com>
 * All rights reserved.
 */

package otlplog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

const (
	// Used when a key has no value in keysAndValues.
	missingValue = "MISSING"
	// Used as the key when a non-string key is encountered.
	invalidKey = "invalidKeysAndValues"
)

// Fields is an ordered mapping from key to value.
// A key appears at most once; setting it again replaces the value in place.
// Every value is stringified on the wire.
type Fields []attribute.KeyValue

// NewFields builds Fields from alternating keys and values.
// An attribute.KeyValue element is taken as a complete pair.
func NewFields(keysAndValues ...any) Fields {
	fields, _ := collectFields(keysAndValues, false)
	return fields
}

// collectFields converts keysAndValues into Fields. When extractErr is set the first
// value implementing error is returned separately instead of being added to the fields.
func collectFields(keysAndValues []any, extractErr bool) (Fields, error) {
	var (
		fields Fields
		exc    error
	)

	for i := 0; i < len(keysAndValues); {
		if kv, ok := keysAndValues[i].(attribute.KeyValue); ok {
			fields.set(kv)
			i++
			continue
		}

		key, ok := keysAndValues[i].(string)
		if !ok {
			fields.set(attribute.String(invalidKey, fmt.Sprint(keysAndValues[i:])))
			return fields, exc
		}
		if i+1 >= len(keysAndValues) {
			fields.set(attribute.String(key, missingValue))
			return fields, exc
		}

		value := keysAndValues[i+1]
		i += 2

		if err, isErr := value.(error); isErr && extractErr && exc == nil {
			exc = err
			continue
		}
		fields.set(convertAnyValue(key, value))
	}

	return fields, exc
}

// With returns a copy of f with kvs set.
func (f Fields) With(kvs ...attribute.KeyValue) Fields {
	out := make(Fields, len(f), len(f)+len(kvs))
	copy(out, f)
	for _, kv := range kvs {
		out.set(kv)
	}
	return out
}

// Get returns the stringified value stored under key.
func (f Fields) Get(key string) (string, bool) {
	if i := f.index(attribute.Key(key)); i >= 0 {
		return stringValue(f[i]), true
	}
	return "", false
}

func (f Fields) index(key attribute.Key) int {
	for i := range f {
		if f[i].Key == key {
			return i
		}
	}
	return -1
}

func (f *Fields) set(kv attribute.KeyValue) {
	if i := f.index(kv.Key); i >= 0 {
		(*f)[i] = kv
		return
	}
	*f = append(*f, kv)
}

// Query renders f as a URL query string, keeping insertion order.
func (f Fields) Query() string {
	var b strings.Builder
	for i, kv := range f {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(string(kv.Key)))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(stringValue(kv)))
	}
	return b.String()
}

// MarshalJSON renders f as a JSON object, keeping insertion order.
// Values that cannot be encoded natively fall back to their string form.
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(kv.Key))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		value, err := json.Marshal(kv.Value.AsInterface())
		if err != nil {
			value, _ = json.Marshal(stringValue(kv))
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func stringValue(kv attribute.KeyValue) string {
	if kv.Value.Type() == attribute.STRING {
		return kv.Value.AsString()
	}
	return kv.Value.Emit()
}

// convertAttrs converts slog.Attrs to attributes, flattening groups into dotted keys.
func convertAttrs(attr slog.Attr, handler func(attribute.KeyValue), groupKeys ...string) {
	if attr.Equal(slog.Attr{}) {
		return
	}

	key := attr.Key
	if len(groupKeys) > 0 {
		key = strings.Join(groupKeys, ".") + "." + attr.Key
	}

	val := attr.Value.Resolve()

	switch val.Kind() {
	case slog.KindBool:
		handler(attribute.Bool(key, val.Bool()))
	case slog.KindDuration:
		handler(attribute.Int64(key, int64(val.Duration())))
	case slog.KindFloat64:
		handler(attribute.Float64(key, val.Float64()))
	case slog.KindInt64:
		handler(attribute.Int64(key, val.Int64()))
	case slog.KindString:
		handler(attribute.String(key, val.String()))
	case slog.KindTime:
		handler(attribute.String(key, val.Time().Format(time.RFC3339)))
	case slog.KindUint64:
		handler(attribute.String(key, strconv.FormatUint(val.Uint64(), 10)))
	case slog.KindGroup:
		// An empty group key inlines its members.
		prefix := groupKeys
		if attr.Key != "" {
			prefix = append(append([]string(nil), groupKeys...), attr.Key)
		}
		for _, groupAttr := range val.Group() {
			convertAttrs(groupAttr, handler, prefix...)
		}
	case slog.KindAny:
		handler(convertAnyValue(key, val.Any()))
	default:
		handler(attribute.String(key, fmt.Sprintf("%+v", val.Any())))
	}
}

// convertAnyValue converts an arbitrary Go value to an attribute.
func convertAnyValue(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case nil:
		return attribute.String(key, "")
	case string:
		return attribute.String(key, v)
	case bool:
		return attribute.Bool(key, v)
	case int:
		return attribute.Int(key, v)
	case int8:
		return attribute.Int64(key, int64(v))
	case int16:
		return attribute.Int64(key, int64(v))
	case int32:
		return attribute.Int64(key, int64(v))
	case int64:
		return attribute.Int64(key, v)
	case uint8:
		return attribute.Int64(key, int64(v))
	case uint16:
		return attribute.Int64(key, int64(v))
	case uint32:
		return attribute.Int64(key, int64(v))
	// attribute.KeyValue does not support Uint64
	case uint:
		return attribute.String(key, strconv.FormatUint(uint64(v), 10))
	case uint64:
		return attribute.String(key, strconv.FormatUint(v, 10))
	case float32:
		return attribute.Float64(key, float64(v))
	case float64:
		return attribute.Float64(key, v)
	case time.Time:
		return attribute.String(key, v.Format(time.RFC3339))
	case time.Duration:
		return attribute.String(key, v.String())
	case []string:
		return attribute.StringSlice(key, v)
	case []int:
		return attribute.IntSlice(key, v)
	case []int64:
		return attribute.Int64Slice(key, v)
	case []float64:
		return attribute.Float64Slice(key, v)
	case []bool:
		return attribute.BoolSlice(key, v)
	case *Span:
		if v == nil {
			return attribute.String(key, "")
		}
		return attribute.String(key, v.ID())
	case error, fmt.Stringer:
		// fmt recovers from panicking Error and String methods.
		return attribute.String(key, fmt.Sprint(v))
	default:
		return attribute.String(key, fmt.Sprintf("%+v", v))
	}
}
