package report

import (
	"slices"
	"testing"

	"github.com/yasserrrr2025/rasd2/internal/model"
)

type status struct {
	name     string
	recorded bool
}

func put(s model.Summary, grade, section string, p model.Period, subject string, students ...status) {
	rec := s.Bucket(model.BucketKey{Grade: grade, Section: section, Period: p, Subject: subject})
	for _, st := range students {
		rec.Set(st.name, st.recorded)
	}
	rec.Recount()
}

// fixture:
//
//	10/1 First  Math     Ali ok, Sara pending
//	10/1 First  Science  Ali ok, Sara ok
//	10/1 Second Math     Ali pending, Sara pending
//	11/2 First  Math     Omar ok
//	12/3 First  Art      Layla pending (no teacher)
func fixture() (model.Summary, model.Roster) {
	s := model.Summary{}
	put(s, "10", "1", model.PeriodFirst, "Math", status{"Ali", true}, status{"Sara", false})
	put(s, "10", "1", model.PeriodFirst, "Science", status{"Ali", true}, status{"Sara", true})
	put(s, "10", "1", model.PeriodSecond, "Math", status{"Ali", false}, status{"Sara", false})
	put(s, "11", "2", model.PeriodFirst, "Math", status{"Omar", true})
	put(s, "12", "3", model.PeriodFirst, "Art", status{"Layla", false})

	r := model.Roster{}
	r.Add("10", "1", "Math", "Amal")
	r.Add("10", "1", "Math", "Huda")
	r.Add("11", "2", "Math", "Amal")
	return s, r
}

func TestOverview(t *testing.T) {
	s, r := fixture()

	got := Overview(s, r, model.FilterBoth)
	want := OverviewReport{Completed: 4, Pending: 4, Total: 8, Percentage: 50, Students: 4, Subjects: 3, Teachers: 2}
	if got != want {
		t.Fatalf("both=%+v, want %+v", got, want)
	}

	got = Overview(s, r, model.FilterFirst)
	if got.Completed != 4 || got.Pending != 2 || got.Percentage != 66.7 || got.Students != 4 {
		t.Fatalf("first=%+v", got)
	}

	got = Overview(s, r, model.FilterSecond)
	if got.Total != 2 || got.Percentage != 0 || got.Students != 2 || got.Subjects != 1 || got.Teachers != 2 {
		t.Fatalf("second=%+v", got)
	}

	if empty := Overview(model.Summary{}, nil, model.FilterBoth); empty != (OverviewReport{}) {
		t.Fatalf("empty=%+v", empty)
	}
}

func TestClassRanking(t *testing.T) {
	s, _ := fixture()
	got := ClassRanking(s, model.FilterBoth)
	if len(got) != 3 {
		t.Fatalf("rows=%+v", got)
	}
	labels := []string{got[0].Label, got[1].Label, got[2].Label}
	if !slices.Equal(labels, []string{"11 - 2", "10 - 1", "12 - 3"}) {
		t.Fatalf("order=%v", labels)
	}
	if got[1].Completed != 3 || got[1].Pending != 3 || got[1].Percentage != 50 {
		t.Fatalf("10-1=%+v", got[1])
	}
}

func TestTeacherStats(t *testing.T) {
	s, r := fixture()
	got := TeacherStats(s, r, model.FilterBoth)
	if len(got) != 3 {
		t.Fatalf("stats=%+v", got)
	}
	if got[0].Teacher != model.UnassignedTeacher || got[0].CompletionPercentage != 0 || got[0].PendingPercentage != 100 {
		t.Fatalf("first=%+v", got[0])
	}
	if !slices.Equal(got[0].Details, []string{"Art (12-3)"}) {
		t.Fatalf("details=%v", got[0].Details)
	}
	amal := got[1]
	if amal.Teacher != "Amal" || amal.Completed != 1 || amal.Pending != 3 || amal.CompletionPercentage != 25 || amal.PendingPercentage != 75 {
		t.Fatalf("amal=%+v", amal)
	}
	// the two pending Math buckets of 10-1 collapse into one detail
	if !slices.Equal(amal.Details, []string{"Math (10-1)"}) {
		t.Fatalf("amal details=%v", amal.Details)
	}
	if got[2].Teacher != "Huda" {
		t.Fatalf("third=%+v", got[2])
	}

	// 11-2 Math is complete, so Amal's class there is not counted
	first := TeacherStats(s, r, model.FilterFirst)
	for _, st := range first {
		if st.Teacher == "Amal" && (st.Completed != 1 || st.Pending != 1) {
			t.Fatalf("amal first=%+v", st)
		}
	}
}

func TestIncompleteStudents(t *testing.T) {
	s, _ := fixture()
	got := IncompleteStudents(s, model.FilterBoth)
	if len(got) != 3 {
		t.Fatalf("students=%+v", got)
	}
	sara := got[0]
	if sara.Name != "Sara" || sara.Count != 2 {
		t.Fatalf("first=%+v", sara)
	}
	if !slices.Equal(sara.Periods[model.PeriodFirst], []string{"Math"}) || !slices.Equal(sara.Periods[model.PeriodSecond], []string{"Math"}) {
		t.Fatalf("sara periods=%v", sara.Periods)
	}
	if got[1].Name != "Ali" || got[2].Name != "Layla" || got[2].Grade != "12" {
		t.Fatalf("order=%+v", got)
	}

	if first := IncompleteStudents(s, model.FilterFirst); len(first) != 2 {
		t.Fatalf("first=%+v", first)
	}
}

func TestHeatmap(t *testing.T) {
	s, _ := fixture()
	baseline := model.Summary{}
	put(baseline, "10", "1", model.PeriodFirst, "Math", status{"Ali", false}, status{"Sara", false})

	hm := Heatmap(s, baseline, model.FilterFirst)
	if !slices.Equal(hm.Classes, []string{"10 - 1", "11 - 2", "12 - 3"}) {
		t.Fatalf("classes=%v", hm.Classes)
	}
	if !slices.Equal(hm.Subjects, []string{"Art", "Math", "Science"}) {
		t.Fatalf("subjects=%v", hm.Subjects)
	}
	cell := hm.Cells["10 - 1"]["Math"]
	if cell.Current != 50 || cell.Baseline == nil || *cell.Baseline != 0 || *cell.Delta != 50 {
		t.Fatalf("10-1 Math=%+v", cell)
	}
	if sci := hm.Cells["10 - 1"]["Science"]; sci.Current != 100 || sci.Baseline != nil {
		t.Fatalf("10-1 Science=%+v", sci)
	}

	// both periods pool the buckets
	both := Heatmap(s, baseline, model.FilterBoth)
	if c := both.Cells["10 - 1"]["Math"]; c.Current != 25 || *c.Delta != 25 {
		t.Fatalf("pooled=%+v", c)
	}
}

func TestTracking(t *testing.T) {
	s, _ := fixture()

	got := Tracking(s, model.FilterBoth)
	if len(got) != 3 {
		t.Fatalf("classes=%d", len(got))
	}
	c := got[0]
	if c.Grade != "10" || !slices.Equal(c.Subjects, []string{"Math", "Science"}) || len(c.Students) != 2 {
		t.Fatalf("class=%+v", c)
	}
	ali := c.Students[0]
	if ali.Name != "Ali" {
		t.Fatalf("students not sorted: %+v", c.Students)
	}
	if ali.Status["Math"][model.PeriodFirst] != TrackRecorded || ali.Status["Math"][model.PeriodSecond] != TrackPending {
		t.Fatalf("ali math=%v", ali.Status["Math"])
	}
	if ali.Status["Science"][model.PeriodSecond] != TrackAbsent {
		t.Fatalf("ali science=%v", ali.Status["Science"])
	}

	second := Tracking(s, model.FilterSecond)
	if len(second) != 1 || second[0].Grade != "10" || !slices.Equal(second[0].Subjects, []string{"Math"}) {
		t.Fatalf("second=%+v", second)
	}
}

func TestExportRows(t *testing.T) {
	s, r := fixture()
	rows := ExportRows(s, r, model.FilterBoth)
	if len(rows) != 5 {
		t.Fatalf("rows=%d", len(rows))
	}
	first := rows[0]
	want := ExportRow{Grade: "10", Section: "1", Period: model.PeriodFirst, Subject: "Math", Completed: 1, Pending: 1, Percentage: 50, Teachers: "Amal، Huda"}
	if first != want {
		t.Fatalf("row=%+v", first)
	}
	if rows[2].Period != model.PeriodSecond || rows[4].Subject != "Art" || rows[4].Teachers != "" {
		t.Fatalf("rows=%+v", rows)
	}
}
