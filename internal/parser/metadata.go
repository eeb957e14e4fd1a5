package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minMetadataValueLen minimum length of a label read from a neighbouring cell
const minMetadataValueLen = 2

// labelSeparators characters between a label and its inline value
const labelSeparators = " \t:：-–"

// LocateMetadata scans the first window rows for a cell carrying one of the
// field keywords and returns the label value found in that row.
// The value is taken inline ("Grade: 10") or from the nearest neighbouring
// cell longer than one character, cells to the right first. Neighbours that
// are themselves labels (the field's or a sibling field's keyword alone) or
// carry a reject phrase are not values.
func LocateMetadata(rows Matrix, field MetadataField, window int) (string, bool) {
	limit := min(window, len(rows))
	for i := 0; i < limit; i++ {
		if v, ok := metadataFromRow(rows[i], field); ok {
			return v, true
		}
	}
	return "", false
}

func metadataFromRow(row []any, field MetadataField) (string, bool) {
	for col := range row {
		text := CellText(row, col)
		if text == "" || ContainsAny(text, field.Reject) {
			continue
		}
		kw, idx := firstKeyword(text, field.Keywords)
		if idx < 0 {
			continue
		}

		if v := inlineValue(text[idx+len(kw):]); v != "" && !ContainsAny(v, field.Reject) {
			return v, true
		}
		if v, ok := neighbourValue(row, col, field); ok {
			return v, true
		}
		// keyword cell without a usable value; the row is not a metadata row
		return "", false
	}
	return "", false
}

// neighbourValue right of col outward, then left of col outward
func neighbourValue(row []any, col int, field MetadataField) (string, bool) {
	for other := col + 1; other < len(row); other++ {
		if v, ok := valueCell(CellText(row, other), field); ok {
			return v, true
		}
	}
	for other := col - 1; other >= 0; other-- {
		if v, ok := valueCell(CellText(row, other), field); ok {
			return v, true
		}
	}
	return "", false
}

func valueCell(text string, field MetadataField) (string, bool) {
	if RuneLen(text) < minMetadataValueLen || ContainsAny(text, field.Reject) {
		return "", false
	}
	if isLabelCell(text, field.Keywords) || isLabelCell(text, field.Siblings) {
		return "", false
	}
	return text, true
}

// isLabelCell the cell is a bare keyword, optionally followed by a separator ("الصف:")
func isLabelCell(text string, keywords []string) bool {
	return EqualsAny(strings.TrimRight(text, labelSeparators), keywords)
}

func firstKeyword(text string, keywords []string) (string, int) {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if idx := IndexFold(text, kw); idx >= 0 {
			return kw, idx
		}
	}
	return "", -1
}

func inlineValue(rest string) string {
	// keyword is only the start of a longer word ("Grades")
	if r, _ := utf8.DecodeRuneInString(rest); unicode.IsLetter(r) {
		return ""
	}
	rest = strings.TrimLeft(rest, labelSeparators)
	return CollapseSpaces(rest)
}
