package aggregate

import (
	"iter"

	"github.com/yasserrrr2025/rasd2/internal/model"
	"github.com/yasserrrr2025/rasd2/internal/parser"
)

// MergeResult counts of one merge, used for progress reporting
type MergeResult struct {
	Records     int `json:"records"`
	Buckets     int `json:"buckets"`
	NewStudents int `json:"newStudents"`
}

// Merge folds one sheet's records into summary under (grade, section).
// Status writes are last-write-wins; the counters of every touched bucket are
// recomputed from StudentStatus afterwards, so merging the same sheet twice
// leaves the summary unchanged. A nil summary has nowhere to hold the records;
// the sequence is not consumed and the result is zero.
func Merge(summary model.Summary, grade, section string, records iter.Seq[parser.Record]) MergeResult {
	res := MergeResult{}
	if summary == nil {
		return res
	}
	touched := make(map[model.BucketKey]*model.SubjectRecord)

	for r := range records {
		key := model.BucketKey{Grade: grade, Section: section, Period: r.Period, Subject: r.Subject}
		rec, ok := touched[key]
		if !ok {
			rec = summary.Bucket(key)
			touched[key] = rec
		}
		if rec.Set(r.Student, r.Recorded()) {
			res.NewStudents++
		}
		res.Records++
	}

	for _, rec := range touched {
		rec.Recount()
	}
	res.Buckets = len(touched)
	return res
}

// Repair restores invariants on a summary rehydrated from storage:
// nil levels and unknown periods are dropped, order/status drift fixed, counters recomputed
func Repair(summary model.Summary) model.Summary {
	if summary == nil {
		return model.Summary{}
	}
	summary.Repair()
	return summary
}
