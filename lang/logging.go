package lang

import (
	"log/slog"
	"maps"
	"slices"
)

// sortedKeys returns the keys of m in order, or nil if m is empty.
func sortedKeys[T any](m map[string]T) []string {
	return slices.Sorted(maps.Keys(m))
}

// valueAttr renders a value for structured logging.
func valueAttr(key string, v Value) slog.Attr {
	return slog.Group(key,
		slog.String("kind", kindOf(v).String()),
		slog.String("value", FormatValue(v)),
	)
}
