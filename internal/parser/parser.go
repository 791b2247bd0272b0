package parser

import (
	"strings"

	"github.com/atikulmunna/logtally/internal/model"
)

// Classify maps a line to its category by literal, case-sensitive prefix.
// Lines that start with none of the known tags (including empty lines) are Other.
func Classify(line string) model.Category {
	switch {
	case strings.HasPrefix(line, "INFO"):
		return model.Info
	case strings.HasPrefix(line, "WARN"):
		return model.Warn
	case strings.HasPrefix(line, "ERROR"):
		return model.Error
	default:
		return model.Other
	}
}

// ParseCategory reads a user-supplied category filter.
// Matching is case-insensitive and exact (no trimming); ok is false for anything outside info, warn
// and error, which callers treat as "no category filter".
func ParseCategory(s string) (c model.Category, ok bool) {
	switch strings.ToLower(s) {
	case "info":
		return model.Info, true
	case "warn":
		return model.Warn, true
	case "error":
		return model.Error, true
	default:
		return model.Other, false
	}
}
