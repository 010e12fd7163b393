package filter

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/kailas-cloud/storefront/internal/domain"
)

// Query is a free-text substring predicate over a fixed set of fields.
//
// A record matches when any text field contains the term, or any numeric
// field rendered as its canonical decimal string contains the term.
// Matching is case-insensitive and unanchored. The term is literal text:
// pattern metacharacters carry no special meaning. An empty term matches
// every record.
type Query struct {
	term    string
	folded  string
	text    []string
	numeric []string
}

// All returns a query that matches every record.
func All() Query { return Query{} }

// NewSubstring creates a substring query. The term is trimmed of surrounding whitespace.
func NewSubstring(term string, textFields, numericFields []string) Query {
	term = strings.TrimSpace(term)
	if term == "" {
		return Query{}
	}
	return Query{
		term:    term,
		folded:  fold(term),
		text:    textFields,
		numeric: numericFields,
	}
}

// Term returns the trimmed search term.
func (q Query) Term() string { return q.term }

// IsEmpty reports whether the query matches everything.
func (q Query) IsEmpty() bool { return q.term == "" }

// TextFields returns the fields matched as strings.
func (q Query) TextFields() []string { return q.text }

// NumericFields returns the fields matched by their stringified numeric value.
func (q Query) NumericFields() []string { return q.numeric }

// Pattern returns the term escaped for use inside a regular expression.
func (q Query) Pattern() string { return regexp.QuoteMeta(q.term) }

// Match evaluates the query against a single record.
func (q Query) Match(doc domain.Document) bool {
	if q.IsEmpty() {
		return true
	}
	for _, f := range q.text {
		if s, ok := doc[f].(string); ok && strings.Contains(fold(s), q.folded) {
			return true
		}
	}
	for _, f := range q.numeric {
		if s, ok := FormatNumber(doc[f]); ok && strings.Contains(fold(s), q.folded) {
			return true
		}
	}
	return false
}

// FormatNumber renders a numeric value as its canonical decimal string.
// Integers use base 10; floats use the shortest representation that
// round-trips, without an exponent, so 120.0 renders as "120".
// Non-numeric values report false.
func FormatNumber(v any) (string, bool) {
	switch x := v.(type) {
	case int:
		return strconv.Itoa(x), true
	case int8:
		return strconv.FormatInt(int64(x), 10), true
	case int16:
		return strconv.FormatInt(int64(x), 10), true
	case int32:
		return strconv.FormatInt(int64(x), 10), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint:
		return strconv.FormatUint(uint64(x), 10), true
	case uint8:
		return strconv.FormatUint(uint64(x), 10), true
	case uint16:
		return strconv.FormatUint(uint64(x), 10), true
	case uint32:
		return strconv.FormatUint(uint64(x), 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case float32:
		return formatFloat(float64(x), 32), true
	case float64:
		return formatFloat(x, 64), true
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return strconv.FormatInt(i, 10), true
		}
		f, err := x.Float64()
		if err != nil {
			return "", false
		}
		return formatFloat(f, 64), true
	default:
		return "", false
	}
}

func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, bitSize)
}

// fold applies Unicode case folding. cases.Caser is stateful, so one is built per call.
func fold(s string) string {
	return cases.Fold().String(s)
}
