package importer

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/xuri/excelize/v2"

	"github.com/yasserrrr2025/rasd2/internal/metrics"
	"github.com/yasserrrr2025/rasd2/internal/model"
	"github.com/yasserrrr2025/rasd2/internal/parser"
	"github.com/yasserrrr2025/rasd2/internal/service/state"
	"github.com/yasserrrr2025/rasd2/internal/store"
)

func workbook(t *testing.T, rows map[string][]any) []byte {
	t.Helper()

	wb := excelize.NewFile()
	defer wb.Close()
	for cell, row := range rows {
		r := row
		if err := wb.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatalf("SetSheetRow(%s): %v", cell, err)
		}
	}
	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return buf.Bytes()
}

func statusWorkbook(t *testing.T, grade, section string, students ...[]any) []byte {
	t.Helper()
	rows := map[string][]any{
		"A2": {"الصف: " + grade},
		"A3": {"الفصل: " + section},
		"A5": {"م", "اسم الطالب", "الفترة", "الرياضيات", "العلوم"},
	}
	for i, s := range students {
		rows["A"+strconv.Itoa(6+i)] = s
	}
	return workbook(t, rows)
}

type fixture struct {
	state   *state.Manager
	store   *store.Store
	metrics *metrics.Metrics
	coord   *Coordinator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), "rasd.db"))
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	mgr, err := state.NewManager(st, state.Options{})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	m := metrics.New()
	return &fixture{
		state:   mgr,
		store:   st,
		metrics: m,
		coord:   NewCoordinator(mgr, Options{Logs: st, Metrics: m}),
	}
}

func TestRun_MergesFilesAndCommitsOnce(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	report := f.coord.Run(ImportOptions{Files: []FileInput{
		{Name: "10-1.xlsx", Data: statusWorkbook(t, "العاشر", "1",
			[]any{1, "علي حسن محمد", "الأولى", 0, 1},
			[]any{nil, "", "الثانية", 1, 0},
		)},
		{Name: "10-2.xlsx", Data: statusWorkbook(t, "العاشر", "2",
			[]any{1, "سارة عمر علي", "الأولى", 0, 0},
		)},
	}})
	if report == nil {
		t.Fatalf("missing report")
	}
	if report.TotalFiles != 2 || report.ImportedFiles != 2 || report.SkippedFiles != 0 || report.ErrorFiles != 0 {
		t.Fatalf("report=%+v", report)
	}
	if !report.Committed || report.Records != 6 {
		t.Fatalf("committed=%v records=%d", report.Committed, report.Records)
	}

	summary := f.state.Summary()
	math, ok := summary.Lookup(model.BucketKey{Grade: "العاشر", Section: "1", Period: model.PeriodFirst, Subject: "الرياضيات"})
	if !ok || math.CompletedCount != 1 || math.PendingCount != 0 {
		t.Fatalf("10/1 math=%+v", math)
	}
	sci2, ok := summary.Lookup(model.BucketKey{Grade: "العاشر", Section: "1", Period: model.PeriodSecond, Subject: "العلوم"})
	if !ok || sci2.CompletedCount != 1 {
		t.Fatalf("10/1 second science=%+v", sci2)
	}
	if _, ok := summary["العاشر"]["2"]; !ok {
		t.Fatalf("section 2 missing")
	}
	if f.state.Snapshot().Empty() {
		t.Fatalf("first commit should capture the baseline")
	}

	logs, err := f.store.ListImportLogs(10)
	if err != nil {
		t.Fatalf("ListImportLogs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("logs=%d", len(logs))
	}
	for _, l := range logs {
		if l.Status != store.StatusImported || l.BatchID != report.BatchID || l.FileHash == "" {
			t.Fatalf("log=%+v", l)
		}
	}
	if got := testutil.ToFloat64(f.metrics.FilesTotal.WithLabelValues(store.KindReport, store.StatusImported)); got != 2 {
		t.Fatalf("files metric=%v", got)
	}
}

func TestRun_SkipsSheetsWithoutHeader(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	report := f.coord.Run(ImportOptions{Files: []FileInput{
		{Name: "notes.xlsx", Data: workbook(t, map[string][]any{"A1": {"meeting notes"}})},
		{Name: "broken.xlsx", Data: []byte("not a workbook")},
	}})
	if report.ImportedFiles != 0 || report.SkippedFiles != 1 || report.ErrorFiles != 1 {
		t.Fatalf("report=%+v", report)
	}
	if report.Committed {
		t.Fatalf("nothing imported, nothing to commit")
	}
	if !f.state.Summary().Empty() {
		t.Fatalf("summary should stay empty")
	}
	if report.Files[0].Status != FileSkipped || report.Files[1].Status != FileError {
		t.Fatalf("files=%+v", report.Files)
	}
}

func TestRun_ReimportIsIdempotent(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	in := ImportOptions{Files: []FileInput{{Name: "a.xlsx", Data: statusWorkbook(t, "10", "1",
		[]any{1, "Ali Hassan", "First", 0, 1},
	)}}}
	f.coord.Run(in)
	first := f.state.Summary()

	report := f.coord.Run(in)
	if report.NewStudents != 0 {
		t.Fatalf("NewStudents=%d", report.NewStudents)
	}
	r1, _ := first.Lookup(model.BucketKey{Grade: "10", Section: "1", Period: model.PeriodFirst, Subject: "العلوم"})
	r2, _ := f.state.Summary().Lookup(model.BucketKey{Grade: "10", Section: "1", Period: model.PeriodFirst, Subject: "العلوم"})
	if r1 == nil || r2 == nil || r1.PendingCount != r2.PendingCount || r2.Total() != 1 {
		t.Fatalf("first=%+v second=%+v", r1, r2)
	}
}

func TestRun_MissingLabelsWarnAndUseDefaults(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	data := workbook(t, map[string][]any{
		"A1": {"Student", "Period", "Math"},
		"A2": {"Ali Hassan", "First", 0},
	})
	var warned bool
	var report *ImportReport
	for evt := range f.coord.Import(ImportOptions{Files: []FileInput{{Name: "x.xlsx", Data: data}}}) {
		switch evt.Type {
		case EventWarning:
			warned = true
		case EventDone:
			report = evt.Data.(*ImportReport)
		}
	}
	if !warned {
		t.Fatalf("expected a warning event")
	}
	fr := report.Files[0]
	if fr.Grade != model.DefaultGradeLabel || fr.Section != model.DefaultSectionLabel || fr.GradeFound {
		t.Fatalf("file=%+v", fr)
	}
}

func TestRun_ReadsFromPath(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := os.WriteFile(path, statusWorkbook(t, "11", "3", []any{1, "Huda Salem", "First", 0, 0}), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	report := f.coord.Run(ImportOptions{Files: []FileInput{
		{Path: path},
		{Path: filepath.Join(t.TempDir(), "missing.xlsx")},
	}})
	if report.ImportedFiles != 1 || report.ErrorFiles != 1 {
		t.Fatalf("report=%+v", report)
	}
	if report.Files[0].Filename != "report.xlsx" {
		t.Fatalf("filename=%q", report.Files[0].Filename)
	}
}

func TestStart_RejectsConcurrentBatch(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	release := f.state.BeginBatch()
	if _, err := f.coord.Start(ImportOptions{}); !errors.Is(err, state.ErrBatchInProgress) {
		t.Fatalf("Start err=%v", err)
	}
	if _, err := f.coord.ImportRoster(FileInput{Name: "r.xlsx", Data: []byte("x")}); !errors.Is(err, state.ErrBatchInProgress) {
		t.Fatalf("ImportRoster err=%v", err)
	}
	release()

	ch, err := f.coord.Start(ImportOptions{})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if report := Drain(ch); report == nil || report.TotalFiles != 0 {
		t.Fatalf("report=%+v", report)
	}
}

func TestImport_SerializesBatches(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	inputs := make([]FileInput, 4)
	for i := range inputs {
		inputs[i] = FileInput{
			Name: "f.xlsx",
			Data: statusWorkbook(t, "10", strconv.Itoa(i+1), []any{1, "Ali Hassan", "First", 0, 1}),
		}
	}

	var wg sync.WaitGroup
	for _, in := range inputs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.coord.Run(ImportOptions{Files: []FileInput{in}})
		}()
	}
	wg.Wait()

	if got := len(f.state.Summary()["10"]); got != 4 {
		t.Fatalf("sections=%d, want 4", got)
	}
}

func TestImportRoster(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	res, err := f.coord.ImportRoster(FileInput{Name: "roster.xlsx", Data: workbook(t, map[string][]any{
		"A1": {"Teacher", "Grade", "Subject", "Section"},
		"A2": {"Amal", "10", "Math", "1"},
		"A3": {"Huda", "10", "Math", "1"},
		"A4": {"Bad"},
	})})
	if err != nil {
		t.Fatalf("ImportRoster: %v", err)
	}
	if res.Report.Accepted != 2 || len(res.Report.Skipped) != 1 || res.Grades != 1 {
		t.Fatalf("result=%+v", res)
	}
	if got := f.state.Roster().Teachers("10", "1", "Math"); len(got) != 2 {
		t.Fatalf("teachers=%v", got)
	}

	// an unusable roster keeps the previous one
	_, err = f.coord.ImportRoster(FileInput{Name: "empty.xlsx", Data: workbook(t, map[string][]any{
		"A1": {"Teacher", "Grade", "Subject", "Section"},
	})})
	if !errors.Is(err, parser.ErrRosterEmpty) {
		t.Fatalf("err=%v", err)
	}
	if got := f.state.Roster().Teachers("10", "1", "Math"); len(got) != 2 {
		t.Fatalf("roster replaced by an empty one: %v", got)
	}

	logs, err := f.store.ListImportLogs(10)
	if err != nil {
		t.Fatalf("ListImportLogs: %v", err)
	}
	if len(logs) != 2 || logs[0].Status != store.StatusSkipped || logs[1].Status != store.StatusImported {
		t.Fatalf("logs=%+v", logs)
	}
}
