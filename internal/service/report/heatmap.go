package report

import (
	"sort"

	"github.com/yasserrrr2025/rasd2/internal/model"
)

// HeatCell completion of one subject in one class, with the baseline value when known
type HeatCell struct {
	Current  float64  `json:"current"`
	Baseline *float64 `json:"baseline,omitempty"`
	Delta    *float64 `json:"delta,omitempty"`
}

// HeatmapReport class x subject matrix; Cells[class][subject]
type HeatmapReport struct {
	Classes  []string                       `json:"classes"`
	Subjects []string                       `json:"subjects"`
	Cells    map[string]map[string]HeatCell `json:"cells"`
}

type tally struct{ completed, total int }

func tallyBySubject(s model.Summary, f model.PeriodFilter) map[model.ClassKey]map[string]*tally {
	out := map[model.ClassKey]map[string]*tally{}
	walk(s, f, func(k model.BucketKey, rec *model.SubjectRecord) {
		ck := model.ClassKey{Grade: k.Grade, Section: k.Section}
		subjects, ok := out[ck]
		if !ok {
			subjects = map[string]*tally{}
			out[ck] = subjects
		}
		t, ok := subjects[k.Subject]
		if !ok {
			t = &tally{}
			subjects[k.Subject] = t
		}
		t.completed += rec.CompletedCount
		t.total += rec.Total()
	})
	return out
}

// Heatmap current completion per class and subject against the baseline snapshot.
// With both periods selected a cell pools the two periods.
func Heatmap(current, baseline model.Summary, f model.PeriodFilter) HeatmapReport {
	cur := tallyBySubject(current, f)
	base := tallyBySubject(baseline, f)

	report := HeatmapReport{Classes: []string{}, Subjects: []string{}, Cells: map[string]map[string]HeatCell{}}
	subjects := map[string]struct{}{}

	for _, ck := range current.Classes() {
		bySubject, ok := cur[ck]
		if !ok {
			continue
		}
		label := ck.Label()
		report.Classes = append(report.Classes, label)
		row := map[string]HeatCell{}
		for subject, t := range bySubject {
			subjects[subject] = struct{}{}
			cell := HeatCell{Current: model.Percentage(t.completed, t.total)}
			if bt, ok := base[ck][subject]; ok {
				old := model.Percentage(bt.completed, bt.total)
				delta := model.Round1(cell.Current - old)
				cell.Baseline = &old
				cell.Delta = &delta
			}
			row[subject] = cell
		}
		report.Cells[label] = row
	}

	for subject := range subjects {
		report.Subjects = append(report.Subjects, subject)
	}
	sort.Strings(report.Subjects)
	return report
}
