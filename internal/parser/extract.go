package parser

import (
	"iter"
	"math"
	"regexp"

	"github.com/yasserrrr2025/rasd2/internal/model"
)

var (
	reIDLabel    = regexp.MustCompile(`(?i)(?:رقم\s*الهوية|national\s*id|\bid\b)\s*[:：]?\s*-?\p{Nd}+`)
	reLongDigits = regexp.MustCompile(`-?\p{Nd}{8,}`)
	reNameLabel  = regexp.MustCompile(`(?i)(?:الاسم|\bname\b)\s*[:：]?`)
)

// CleanStudentName strips embedded ID labels, long digit runs and a "Name:" label
func CleanStudentName(text string) string {
	text = reIDLabel.ReplaceAllString(text, "")
	text = reLongDigits.ReplaceAllString(text, "")
	text = reNameLabel.ReplaceAllString(text, "")
	return CollapseSpaces(text)
}

// ParseStatus maps a subject cell onto a status code. Only 0 and 1 are recognized.
func ParseStatus(v any) StatusCode {
	var f float64
	switch x := v.(type) {
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint8:
		f = float64(x)
	case float32:
		f = float64(x)
	case float64:
		f = x
	case string:
		switch Normalize(x) {
		case "0":
			return StatusRecorded
		case "1":
			return StatusPending
		}
		return StatusNone
	default:
		return StatusNone
	}
	if math.IsNaN(f) {
		return StatusNone
	}
	switch f {
	case 0:
		return StatusRecorded
	case 1:
		return StatusPending
	}
	return StatusNone
}

// MatchPeriod maps a period cell onto a period key by alias containment
func MatchPeriod(text string, p Profile) (model.Period, bool) {
	return matchPeriod(Normalize(text), p)
}

func matchPeriod(text string, p Profile) (model.Period, bool) {
	if text == "" {
		return "", false
	}
	for _, alias := range p.Periods {
		if ContainsAny(text, alias.Aliases) {
			return alias.Period, true
		}
	}
	return "", false
}

// scanState carried across data rows: the last valid student name
type scanState struct {
	student string
}

// scanRow folds one data row into the state and returns the records it yields
func scanRow(state scanState, row []any, h Header, p Profile) (scanState, []Record) {
	if raw := CellText(row, h.IdentityCol); raw != "" {
		if name := CleanStudentName(raw); RuneLen(name) >= p.MinNameLength {
			state.student = name
		}
	}

	period, ok := matchPeriod(CellText(row, h.PeriodCol), p)
	if !ok || state.student == "" {
		return state, nil
	}

	var out []Record
	for _, subj := range h.Subjects {
		status := ParseStatus(Cell(row, subj.Index))
		if status == StatusNone {
			continue
		}
		out = append(out, Record{
			Student: state.student,
			Period:  period,
			Subject: subj.Label,
			Status:  status,
		})
	}
	return state, out
}

// ExtractRecords lazily walks the rows below the header and yields one record
// per recognized status cell
func ExtractRecords(rows Matrix, h Header, p Profile) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		state := scanState{}
		for i := h.Row + 1; i < len(rows); i++ {
			var recs []Record
			state, recs = scanRow(state, rows[i], h, p)
			for _, r := range recs {
				if !yield(r) {
					return
				}
			}
		}
	}
}
