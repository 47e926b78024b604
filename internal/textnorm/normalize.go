// Package textnorm canonicalizes spreadsheet cell values so they can be used
// as join keys.
package textnorm

import (
	"fmt"
	"strings"
)

var lineBreaks = strings.NewReplacer("\r", " ", "\n", " ")

// Normalize turns any cell value into a trimmed single-spaced string.
// nil becomes "". The result is stable under repeated application.
func Normalize(v any) string {
	var s string
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		s = x
	case fmt.Stringer:
		s = x.String()
	default:
		s = fmt.Sprint(x)
	}
	s = lineBreaks.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

func NormalizeHeaders(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = Normalize(c)
	}
	return out
}

// Key is the header lookup form: normalized and lower-cased.
func Key(s string) string {
	return strings.ToLower(Normalize(s))
}
