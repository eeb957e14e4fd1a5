package parser

// LocateHeader finds the first row within window that holds both a student
// identity column and a period column, and derives the subject columns.
func LocateHeader(rows Matrix, p Profile) (Header, error) {
	limit := min(p.HeaderWindow, len(rows))
	for i := 0; i < limit; i++ {
		row := rows[i]
		periodCol := findCol(row, -1, func(text string) bool { return isPeriodHeader(text, p) })
		if periodCol < 0 {
			continue
		}
		identityCol := findCol(row, periodCol, func(text string) bool { return ContainsAny(text, p.Identity) })
		if identityCol < 0 {
			continue
		}
		return Header{
			Row:         i,
			PeriodCol:   periodCol,
			IdentityCol: identityCol,
			Subjects:    subjectColumns(row, periodCol, identityCol, p),
		}, nil
	}
	return Header{}, ErrHeaderNotFound
}

func isPeriodHeader(text string, p Profile) bool {
	if ContainsAny(text, p.PeriodHeader) {
		return true
	}
	_, ok := matchPeriod(text, p)
	return ok
}

// findCol first column (other than skip) whose normalized text satisfies match
func findCol(row []any, skip int, match func(string) bool) int {
	for col := range row {
		if col == skip {
			continue
		}
		text := CellText(row, col)
		if text != "" && match(text) {
			return col
		}
	}
	return -1
}

func subjectColumns(header []any, periodCol, identityCol int, p Profile) []SubjectColumn {
	var out []SubjectColumn
	for col := range header {
		if col == periodCol || col == identityCol {
			continue
		}
		label := CellText(header, col)
		if label == "" || isExcludedHeader(label, p) {
			continue
		}
		out = append(out, SubjectColumn{Index: col, Label: label})
	}
	return out
}

func isExcludedHeader(label string, p Profile) bool {
	return EqualsAny(label, p.ExcludeExact) || ContainsAny(label, p.ExcludeContains)
}
