package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Normalize converts a raw cell value into a comparable string:
// nil -> "", non-breaking spaces -> spaces, surrounding whitespace trimmed
func Normalize(v any) string {
	var s string
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		s = x
	case int:
		s = strconv.Itoa(x)
	case int64:
		s = strconv.FormatInt(x, 10)
	case float64:
		s = strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(x), 'f', -1, 32)
	case fmt.Stringer:
		s = x.String()
	default:
		s = fmt.Sprint(x)
	}
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(s)
}

// Cell returns the cell at idx, nil when the row is shorter
func Cell(row []any, idx int) any {
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}

// CellText normalized text of the cell at idx
func CellText(row []any, idx int) string {
	return Normalize(Cell(row, idx))
}

// RuneLen length in characters
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// IndexFold byte index of the first case-insensitive occurrence of substr, -1 if absent
func IndexFold(s, substr string) int {
	n := len(substr)
	if n == 0 {
		return 0
	}
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], substr) {
			return i
		}
	}
	return -1
}

// ContainsFold case-insensitive substring test
func ContainsFold(text, substr string) bool {
	return IndexFold(text, substr) >= 0
}

// ContainsAny case-insensitive test for any of the keywords
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && ContainsFold(text, kw) {
			return true
		}
	}
	return false
}

// EqualsAny case-insensitive equality against a list
func EqualsAny(text string, values []string) bool {
	for _, v := range values {
		if strings.EqualFold(text, v) {
			return true
		}
	}
	return false
}

var reSpaces = regexp.MustCompile(`\s+`)

// CollapseSpaces squeezes whitespace runs into one space
func CollapseSpaces(s string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}
