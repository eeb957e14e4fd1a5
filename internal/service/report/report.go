package report

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/yasserrrr2025/rasd2/internal/model"
)

// TeacherSeparator joins several teachers of one bucket
const TeacherSeparator = "، "

// walk visits the buckets of the periods selected by f, in Walk order
func walk(s model.Summary, f model.PeriodFilter, fn func(model.BucketKey, *model.SubjectRecord)) {
	selected := f.Periods()
	s.Walk(func(k model.BucketKey, r *model.SubjectRecord) bool {
		if slices.Contains(selected, k.Period) {
			fn(k, r)
		}
		return true
	})
}

// OverviewReport school-wide totals
type OverviewReport struct {
	Completed  int     `json:"completed"`
	Pending    int     `json:"pending"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Students   int     `json:"students"`
	Subjects   int     `json:"subjects"`
	Teachers   int     `json:"teachers"`
}

// Overview totals plus distinct student (per class), subject and teacher counts
func Overview(s model.Summary, r model.Roster, f model.PeriodFilter) OverviewReport {
	var out OverviewReport
	students := map[string]struct{}{}
	subjects := map[string]struct{}{}
	teachers := map[string]struct{}{}

	walk(s, f, func(k model.BucketKey, rec *model.SubjectRecord) {
		out.Completed += rec.CompletedCount
		out.Pending += rec.PendingCount
		subjects[k.Subject] = struct{}{}
		for _, name := range rec.StudentOrder {
			students[k.Grade+"\x00"+k.Section+"\x00"+name] = struct{}{}
		}
		for _, t := range r.Teachers(k.Grade, k.Section, k.Subject) {
			teachers[t] = struct{}{}
		}
	})

	out.Total = out.Completed + out.Pending
	out.Percentage = model.Percentage(out.Completed, out.Total)
	out.Students = len(students)
	out.Subjects = len(subjects)
	out.Teachers = len(teachers)
	return out
}

// ClassRank completion of one grade-section
type ClassRank struct {
	Grade      string  `json:"grade"`
	Section    string  `json:"section"`
	Label      string  `json:"label"`
	Completed  int     `json:"completed"`
	Pending    int     `json:"pending"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// ClassRanking classes by completion percentage, best first
func ClassRanking(s model.Summary, f model.PeriodFilter) []ClassRank {
	index := map[model.ClassKey]*ClassRank{}
	var out []*ClassRank
	walk(s, f, func(k model.BucketKey, rec *model.SubjectRecord) {
		ck := model.ClassKey{Grade: k.Grade, Section: k.Section}
		row, ok := index[ck]
		if !ok {
			row = &ClassRank{Grade: k.Grade, Section: k.Section, Label: ck.Label()}
			index[ck] = row
			out = append(out, row)
		}
		row.Completed += rec.CompletedCount
		row.Pending += rec.PendingCount
	})

	result := make([]ClassRank, 0, len(out))
	for _, row := range out {
		row.Total = row.Completed + row.Pending
		row.Percentage = model.Percentage(row.Completed, row.Total)
		result = append(result, *row)
	}
	slices.SortStableFunc(result, func(a, b ClassRank) int {
		return cmp.Compare(b.Percentage, a.Percentage)
	})
	return result
}

// TeacherStat outstanding work of one teacher
type TeacherStat struct {
	Teacher              string   `json:"teacher"`
	Completed            int      `json:"completed"`
	Pending              int      `json:"pending"`
	Total                int      `json:"total"`
	CompletionPercentage float64  `json:"completionPercentage"`
	PendingPercentage    float64  `json:"pendingPercentage"`
	Details              []string `json:"details"`
}

// TeacherStats sums the buckets that still have pending students per teacher.
// Unmapped buckets are attributed to model.UnassignedTeacher. Least complete first.
func TeacherStats(s model.Summary, r model.Roster, f model.PeriodFilter) []TeacherStat {
	index := map[string]*TeacherStat{}
	seenDetail := map[string]map[string]bool{}

	walk(s, f, func(k model.BucketKey, rec *model.SubjectRecord) {
		if rec.PendingCount == 0 {
			return
		}
		teachers := r.Teachers(k.Grade, k.Section, k.Subject)
		if len(teachers) == 0 {
			teachers = []string{model.UnassignedTeacher}
		}
		detail := fmt.Sprintf("%s (%s-%s)", k.Subject, k.Grade, k.Section)
		for _, t := range teachers {
			st, ok := index[t]
			if !ok {
				st = &TeacherStat{Teacher: t, Details: []string{}}
				index[t] = st
				seenDetail[t] = map[string]bool{}
			}
			st.Completed += rec.CompletedCount
			st.Pending += rec.PendingCount
			if !seenDetail[t][detail] {
				seenDetail[t][detail] = true
				st.Details = append(st.Details, detail)
			}
		}
	})

	out := make([]TeacherStat, 0, len(index))
	for _, st := range index {
		st.Total = st.Completed + st.Pending
		st.CompletionPercentage = model.Percentage(st.Completed, st.Total)
		st.PendingPercentage = model.Percentage(st.Pending, st.Total)
		out = append(out, *st)
	}
	slices.SortFunc(out, func(a, b TeacherStat) int {
		if c := cmp.Compare(a.CompletionPercentage, b.CompletionPercentage); c != 0 {
			return c
		}
		return strings.Compare(a.Teacher, b.Teacher)
	})
	return out
}

// IncompleteStudent a student with at least one pending subject
type IncompleteStudent struct {
	Grade   string                    `json:"grade"`
	Section string                    `json:"section"`
	Name    string                    `json:"name"`
	Periods map[model.Period][]string `json:"periods"`
	Count   int                       `json:"count"`
}

// IncompleteStudents students with pending subjects, most pending first
func IncompleteStudents(s model.Summary, f model.PeriodFilter) []IncompleteStudent {
	type key struct{ grade, section, name string }
	index := map[key]*IncompleteStudent{}
	var order []*IncompleteStudent

	walk(s, f, func(k model.BucketKey, rec *model.SubjectRecord) {
		for _, name := range rec.StudentOrder {
			if rec.StudentStatus[name] {
				continue
			}
			sk := key{k.Grade, k.Section, name}
			st, ok := index[sk]
			if !ok {
				st = &IncompleteStudent{Grade: k.Grade, Section: k.Section, Name: name, Periods: map[model.Period][]string{}}
				index[sk] = st
				order = append(order, st)
			}
			st.Periods[k.Period] = append(st.Periods[k.Period], k.Subject)
			st.Count++
		}
	})

	out := make([]IncompleteStudent, 0, len(order))
	for _, st := range order {
		out = append(out, *st)
	}
	slices.SortStableFunc(out, func(a, b IncompleteStudent) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return out
}
