package parser

import (
	"errors"
	"testing"
)

func subjectLabels(h Header) []string {
	out := make([]string, 0, len(h.Subjects))
	for _, s := range h.Subjects {
		out = append(out, s.Label)
	}
	return out
}

func TestLocateHeader_English(t *testing.T) {
	t.Parallel()

	rows := Matrix{
		{"Grade: 10"},
		{},
		{"No", "Student", "Period", "Math", "Science"},
	}
	h, err := LocateHeader(rows, DefaultProfile())
	if err != nil {
		t.Fatalf("LocateHeader: %v", err)
	}
	if h.Row != 2 || h.IdentityCol != 1 || h.PeriodCol != 2 {
		t.Fatalf("unexpected header: %+v", h)
	}
	got := subjectLabels(h)
	if len(got) != 2 || got[0] != "Math" || got[1] != "Science" {
		t.Fatalf("subjects=%v", got)
	}
	if h.Subjects[0].Index != 3 || h.Subjects[1].Index != 4 {
		t.Fatalf("subject indexes=%+v", h.Subjects)
	}
}

func TestLocateHeader_ArabicExclusions(t *testing.T) {
	t.Parallel()

	rows := Matrix{
		{"م", "اسم الطالب", "الفترة", "العلوم", "الرياضيات", "السلوك", "المواظبة", ""},
	}
	h, err := LocateHeader(rows, DefaultProfile())
	if err != nil {
		t.Fatalf("LocateHeader: %v", err)
	}
	got := subjectLabels(h)
	// "العلوم" contains the serial marker "م" and must survive
	if len(got) != 2 || got[0] != "العلوم" || got[1] != "الرياضيات" {
		t.Fatalf("subjects=%v", got)
	}
}

func TestLocateHeader_NeedsBothColumns(t *testing.T) {
	t.Parallel()

	rows := Matrix{
		{"Student", "Math"},
		{"Student Period"},
		{"Name", "Period", "Art"},
	}
	h, err := LocateHeader(rows, DefaultProfile())
	if err != nil {
		t.Fatalf("LocateHeader: %v", err)
	}
	if h.Row != 2 {
		t.Fatalf("header row=%d, want 2", h.Row)
	}
	if got := subjectLabels(h); len(got) != 1 || got[0] != "Art" {
		t.Fatalf("subjects=%v", got)
	}
}

func TestLocateHeader_NotFound(t *testing.T) {
	t.Parallel()

	blank := make(Matrix, 5)
	for i := range blank {
		blank[i] = make([]any, 5)
	}
	if _, err := LocateHeader(blank, DefaultProfile()); !errors.Is(err, ErrHeaderNotFound) {
		t.Fatalf("err=%v, want ErrHeaderNotFound", err)
	}

	p := DefaultProfile()
	p.HeaderWindow = 2
	rows := Matrix{{}, {}, {"Student", "Period", "Math"}}
	if _, err := LocateHeader(rows, p); !errors.Is(err, ErrHeaderNotFound) {
		t.Fatalf("header beyond window: err=%v", err)
	}
}
