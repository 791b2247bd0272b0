// Package filter decides which log lines are printed and counted.
package filter

import (
	"strings"

	"github.com/atikulmunna/logtally/internal/model"
	"github.com/atikulmunna/logtally/internal/parser"
)

// Passes reports whether line satisfies every enabled check in c.
// The zero Criteria accepts every line.
func Passes(line string, c model.Criteria) bool {
	return matchesCategory(line, c) && matchesDate(line, c) && matchesKeyword(line, c)
}

func matchesCategory(line string, c model.Criteria) bool {
	if !c.HasCategory {
		return true
	}
	return parser.Classify(line) == c.Category
}

// matchesDate is a literal substring test; no calendar semantics.
func matchesDate(line string, c model.Criteria) bool {
	if c.Date == "" {
		return true
	}
	return strings.Contains(line, c.Date)
}

func matchesKeyword(line string, c model.Criteria) bool {
	if c.Keyword == "" {
		return true
	}
	return strings.Contains(strings.ToLower(line), strings.ToLower(c.Keyword))
}
