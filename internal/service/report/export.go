package report

import (
	"strings"

	"github.com/yasserrrr2025/rasd2/internal/model"
)

// ExportRow one flattened bucket
type ExportRow struct {
	Grade      string       `json:"grade"`
	Section    string       `json:"section"`
	Period     model.Period `json:"period"`
	Subject    string       `json:"subject"`
	Completed  int          `json:"completed"`
	Pending    int          `json:"pending"`
	Percentage float64      `json:"percentage"`
	Teachers   string       `json:"teachers"`
}

// ExportRows flattens the selected buckets in Walk order
func ExportRows(s model.Summary, r model.Roster, f model.PeriodFilter) []ExportRow {
	var out []ExportRow
	walk(s, f, func(k model.BucketKey, rec *model.SubjectRecord) {
		out = append(out, ExportRow{
			Grade:      k.Grade,
			Section:    k.Section,
			Period:     k.Period,
			Subject:    k.Subject,
			Completed:  rec.CompletedCount,
			Pending:    rec.PendingCount,
			Percentage: rec.CompletionPercentage,
			Teachers:   strings.Join(r.Teachers(k.Grade, k.Section, k.Subject), TeacherSeparator),
		})
	})
	return out
}
