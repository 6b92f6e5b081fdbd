// Package row reads loosely typed column maps returned by data sources.
package row

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Row is one record keyed by column name. Values are whatever the driver
// produced: strings, numbers, bools, nested maps or nil.
type Row = map[string]any

// String returns the first non-blank string value among keys.
func String(r Row, keys ...string) string {
	for _, key := range keys {
		switch v := r[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case nil:
		default:
			if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
				return s
			}
		}
	}
	return ""
}

// Float returns the first numeric value among keys, or nil.
func Float(r Row, keys ...string) *float64 {
	for _, key := range keys {
		if f, ok := toFloat(r[key]); ok {
			return &f
		}
	}
	return nil
}

// ID renders an identifier column as a string, whatever its SQL type.
func ID(r Row, keys ...string) string {
	for _, key := range keys {
		switch v := r[key].(type) {
		case nil:
			continue
		case string:
			if v != "" {
				return v
			}
		case [16]byte:
			return uuid.UUID(v).String()
		case uuid.UUID:
			return v.String()
		case int:
			return strconv.Itoa(v)
		case int32:
			return strconv.FormatInt(int64(v), 10)
		case int64:
			return strconv.FormatInt(v, 10)
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		default:
			return fmt.Sprint(v)
		}
	}
	return ""
}

// Map returns the nested column map stored under key, if any.
func Map(r Row, key string) Row {
	if nested, ok := r[key].(map[string]any); ok {
		return nested
	}
	return nil
}

// Lookup follows a path of nested maps and returns the value at its end.
func Lookup(r Row, path ...string) (any, bool) {
	current := r
	for i, key := range path {
		value, ok := current[key]
		if !ok {
			return nil, false
		}
		if i == len(path)-1 {
			return value, true
		}
		if current = Map(current, key); current == nil {
			return nil, false
		}
	}
	return nil, false
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
