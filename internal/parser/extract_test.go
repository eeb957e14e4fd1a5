package parser

import (
	"slices"
	"testing"

	"github.com/yasserrrr2025/rasd2/internal/model"
)

func TestCleanStudentName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Ali Hassan 1234567890":                     "Ali Hassan",
		"Name: Sara Omar":                           "Sara Omar",
		"ID: 12345 Omar Khaled":                     "Omar Khaled",
		"الاسم: محمد علي رقم الهوية: 1098765432":    "محمد علي",
		"  Layla   Nasser ":                         "Layla Nasser",
	}
	for in, want := range cases {
		if got := CleanStudentName(in); got != want {
			t.Errorf("CleanStudentName(%q)=%q, want %q", in, got, want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   any
		want StatusCode
	}{
		{0, StatusRecorded},
		{1, StatusPending},
		{float64(0), StatusRecorded},
		{float64(1), StatusPending},
		{"0", StatusRecorded},
		{" 1 ", StatusPending},
		{2, StatusNone},
		{0.5, StatusNone},
		{"x", StatusNone},
		{"", StatusNone},
		{nil, StatusNone},
	}
	for _, c := range cases {
		if got := ParseStatus(c.in); got != c.want {
			t.Errorf("ParseStatus(%#v)=%v, want %v", c.in, got, c.want)
		}
	}
}

func TestMatchPeriod(t *testing.T) {
	t.Parallel()

	p := DefaultProfile()
	cases := map[string]model.Period{
		"First":          model.PeriodFirst,
		"الفترة الأولى":  model.PeriodFirst,
		"Second":         model.PeriodSecond,
		"الفترة الثانية": model.PeriodSecond,
	}
	for in, want := range cases {
		got, ok := MatchPeriod(in, p)
		if !ok || got != want {
			t.Errorf("MatchPeriod(%q)=%q,%v want %q", in, got, ok, want)
		}
	}
	if _, ok := MatchPeriod("Third", p); ok {
		t.Fatalf("unexpected match for Third")
	}
	if _, ok := MatchPeriod("", p); ok {
		t.Fatalf("unexpected match for blank")
	}
}

func extractAll(rows Matrix) []Record {
	p := DefaultProfile()
	h, err := LocateHeader(rows, p)
	if err != nil {
		return nil
	}
	return slices.Collect(ExtractRecords(rows, h, p))
}

func TestExtractRecords_CarryForward(t *testing.T) {
	t.Parallel()

	rows := Matrix{
		{"No", "Student", "Period", "Math", "Science"},
		{1, "Ali Hassan", "First", 0, 1},
		{nil, "", "Second", 1},
		{2, "Sara Omar", "First", "", "0"},
	}
	got := extractAll(rows)
	want := []Record{
		{Student: "Ali Hassan", Period: model.PeriodFirst, Subject: "Math", Status: StatusRecorded},
		{Student: "Ali Hassan", Period: model.PeriodFirst, Subject: "Science", Status: StatusPending},
		{Student: "Ali Hassan", Period: model.PeriodSecond, Subject: "Math", Status: StatusPending},
		{Student: "Sara Omar", Period: model.PeriodFirst, Subject: "Science", Status: StatusRecorded},
	}
	if !slices.Equal(got, want) {
		t.Fatalf("records=%+v\nwant %+v", got, want)
	}
}

func TestExtractRecords_ShortNameKeepsPreviousStudent(t *testing.T) {
	t.Parallel()

	rows := Matrix{
		{"Student", "Period", "Math"},
		{"Ali Hassan", "First", 0},
		{"Bo", "Second", 1},
	}
	got := extractAll(rows)
	if len(got) != 2 || got[1].Student != "Ali Hassan" || got[1].Period != model.PeriodSecond {
		t.Fatalf("records=%+v", got)
	}
}

func TestExtractRecords_SkipsRowsWithoutStudentOrPeriod(t *testing.T) {
	t.Parallel()

	rows := Matrix{
		{"Student", "Period", "Math"},
		{"", "First", 0},
		{"Sara Omar", "Total", 1},
		{"", "Second", 1},
	}
	got := extractAll(rows)
	if len(got) != 1 {
		t.Fatalf("records=%+v", got)
	}
	if got[0].Student != "Sara Omar" || got[0].Period != model.PeriodSecond || got[0].Recorded() {
		t.Fatalf("record=%+v", got[0])
	}
}

func TestExtractRecords_StopsWhenConsumerStops(t *testing.T) {
	t.Parallel()

	rows := Matrix{
		{"Student", "Period", "Math", "Art"},
		{"Ali Hassan", "First", 0, 0},
		{"Sara Omar", "First", 0, 0},
	}
	p := DefaultProfile()
	h, err := LocateHeader(rows, p)
	if err != nil {
		t.Fatalf("LocateHeader: %v", err)
	}
	n := 0
	for range ExtractRecords(rows, h, p) {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Fatalf("consumed %d", n)
	}
}
