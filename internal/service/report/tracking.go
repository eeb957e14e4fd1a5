package report

import (
	"sort"

	"github.com/yasserrrr2025/rasd2/internal/model"
)

// TrackStatus state of one student in one subject and period
type TrackStatus string

const (
	TrackRecorded TrackStatus = "recorded"
	TrackPending  TrackStatus = "pending"
	TrackAbsent   TrackStatus = "absent"
)

// ClassTracking per-student status grid of one class
type ClassTracking struct {
	Grade    string         `json:"grade"`
	Section  string         `json:"section"`
	Periods  []model.Period `json:"periods"`
	Subjects []string       `json:"subjects"`
	Students []StudentRow   `json:"students"`
}

// StudentRow Status[subject][period]
type StudentRow struct {
	Name   string                                  `json:"name"`
	Status map[string]map[model.Period]TrackStatus `json:"status"`
}

// Tracking sorted students x sorted subjects for every class with data in the selected periods
func Tracking(s model.Summary, f model.PeriodFilter) []ClassTracking {
	periods := f.Periods()
	var out []ClassTracking

	for _, ck := range s.Classes() {
		byPeriod := s[ck.Grade][ck.Section]
		subjectSet := map[string]struct{}{}
		studentSet := map[string]struct{}{}
		for _, p := range periods {
			for subject, rec := range byPeriod[p] {
				if rec == nil {
					continue
				}
				subjectSet[subject] = struct{}{}
				for name := range rec.StudentStatus {
					studentSet[name] = struct{}{}
				}
			}
		}
		if len(subjectSet) == 0 {
			continue
		}

		ct := ClassTracking{
			Grade:    ck.Grade,
			Section:  ck.Section,
			Periods:  periods,
			Subjects: setKeys(subjectSet),
		}
		for _, name := range setKeys(studentSet) {
			row := StudentRow{Name: name, Status: map[string]map[model.Period]TrackStatus{}}
			for _, subject := range ct.Subjects {
				cells := map[model.Period]TrackStatus{}
				for _, p := range periods {
					cells[p] = trackStatus(byPeriod[p][subject], name)
				}
				row.Status[subject] = cells
			}
			ct.Students = append(ct.Students, row)
		}
		out = append(out, ct)
	}
	return out
}

func trackStatus(rec *model.SubjectRecord, student string) TrackStatus {
	if rec == nil {
		return TrackAbsent
	}
	recorded, ok := rec.StudentStatus[student]
	switch {
	case !ok:
		return TrackAbsent
	case recorded:
		return TrackRecorded
	default:
		return TrackPending
	}
}

func setKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
