package importer

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yasserrrr2025/rasd2/internal/metrics"
	"github.com/yasserrrr2025/rasd2/internal/model"
	"github.com/yasserrrr2025/rasd2/internal/parser"
	"github.com/yasserrrr2025/rasd2/internal/service/aggregate"
	"github.com/yasserrrr2025/rasd2/internal/service/excel"
	"github.com/yasserrrr2025/rasd2/internal/service/state"
	"github.com/yasserrrr2025/rasd2/internal/store"
)

// ImportLog persistence of per-file outcomes; *store.Store implements it
type ImportLog interface {
	CreateImportLog(batchID, kind, filename string, fileSize int64, fileHash string) (int64, error)
	FinishImportLog(id int64, out store.ImportOutcome) error
}

// Options coordinator dependencies; every field is optional except the state manager
type Options struct {
	Logs    ImportLog
	Profile parser.Profile
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

// Coordinator runs ingestion batches against the state manager
type Coordinator struct {
	state   *state.Manager
	logs    ImportLog
	profile parser.Profile
	metrics *metrics.Metrics
	log     *zap.Logger
}

// NewCoordinator creates a coordinator; a zero Profile means parser.DefaultProfile
func NewCoordinator(st *state.Manager, opts Options) *Coordinator {
	profile := opts.Profile
	if profile.HeaderWindow == 0 {
		profile = parser.DefaultProfile()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{
		state:   st,
		logs:    opts.Logs,
		profile: profile,
		metrics: opts.Metrics,
		log:     log,
	}
}

// batchContext state of one running batch
type batchContext struct {
	report   *ImportReport
	working  model.Summary
	progress chan ProgressEvent
}

// Import runs a batch once the batch lock is free and streams its progress.
// The channel is closed after the done event.
func (c *Coordinator) Import(opts ImportOptions) <-chan ProgressEvent {
	progress := make(chan ProgressEvent, 100)
	go func() {
		defer close(progress)
		release := c.state.BeginBatch()
		defer release()
		c.doImport(opts, progress)
	}()
	return progress
}

// Start is Import without waiting: it fails with state.ErrBatchInProgress
// when another batch or a reset holds the lock
func (c *Coordinator) Start(opts ImportOptions) (<-chan ProgressEvent, error) {
	release, err := c.state.TryBeginBatch()
	if err != nil {
		return nil, err
	}
	progress := make(chan ProgressEvent, 100)
	go func() {
		defer close(progress)
		defer release()
		c.doImport(opts, progress)
	}()
	return progress, nil
}

// Run executes a batch synchronously and returns its report
func (c *Coordinator) Run(opts ImportOptions) *ImportReport {
	return Drain(c.Import(opts))
}

// Drain consumes a progress stream and returns the report of its done event
func Drain(progress <-chan ProgressEvent) *ImportReport {
	var report *ImportReport
	for evt := range progress {
		if evt.Type == EventDone {
			report, _ = evt.Data.(*ImportReport)
		}
	}
	return report
}

func (c *Coordinator) doImport(opts ImportOptions, progress chan ProgressEvent) {
	startTime := time.Now()
	bc := &batchContext{
		report: &ImportReport{
			BatchID:    uuid.New().String(),
			TotalFiles: len(opts.Files),
			Files:      []FileResult{},
		},
		working:  c.state.Summary(),
		progress: progress,
	}

	c.sendProgress(progress, ProgressEvent{
		Type:    EventStart,
		Message: fmt.Sprintf("importing %d file(s)", len(opts.Files)),
		Data: map[string]any{
			"batch_id":    bc.report.BatchID,
			"total_files": len(opts.Files),
		},
		Timestamp: time.Now(),
	})
	c.log.Info("import batch started",
		zap.String("batch", bc.report.BatchID), zap.Int("files", len(opts.Files)))

	for i, in := range opts.Files {
		c.processFile(bc, i, in)
	}

	if bc.report.ImportedFiles > 0 {
		if err := c.state.CommitSummary(bc.working); err != nil {
			bc.report.CommitError = err.Error()
			c.log.Error("commit summary failed", zap.String("batch", bc.report.BatchID), zap.Error(err))
			c.sendProgress(progress, ProgressEvent{
				Type:      EventError,
				Message:   fmt.Sprintf("saving summary failed: %v", err),
				Timestamp: time.Now(),
			})
		} else {
			bc.report.Committed = true
		}
	}

	bc.report.Duration = time.Since(startTime)
	c.metrics.ObserveBatch(bc.report.Duration)
	c.log.Info("import batch finished",
		zap.String("batch", bc.report.BatchID),
		zap.Int("imported", bc.report.ImportedFiles),
		zap.Int("skipped", bc.report.SkippedFiles),
		zap.Int("errors", bc.report.ErrorFiles),
		zap.Int("records", bc.report.Records),
		zap.Duration("duration", bc.report.Duration))

	// the done event is never dropped
	progress <- ProgressEvent{
		Type:      EventDone,
		Message:   "import finished",
		Data:      bc.report,
		Timestamp: time.Now(),
	}
}

func (c *Coordinator) processFile(bc *batchContext, index int, in FileInput) {
	fileStart := time.Now()
	name := in.Name
	if name == "" {
		name = filepath.Base(in.Path)
	}

	c.sendProgress(bc.progress, ProgressEvent{
		Type:    EventFileStart,
		Message: fmt.Sprintf("processing %s", name),
		Data: map[string]any{
			"filename": name,
			"index":    index + 1,
			"total":    bc.report.TotalFiles,
		},
		Timestamp: time.Now(),
	})

	result := FileResult{Filename: name}
	data, err := readInput(in)
	if err != nil {
		result.Status = FileError
		result.Error = err.Error()
		result.Duration = time.Since(fileStart)
		c.recordFileResult(bc, result, 0)
		return
	}
	result.FileHash = hashBytes(data)
	logID := c.openLog(bc.report.BatchID, store.KindReport, name, int64(len(data)), result.FileHash)

	rows, sheetName, err := excel.ReadFirstSheet(bytes.NewReader(data))
	result.Sheet = sheetName
	if err != nil {
		result.Status = FileError
		result.Error = err.Error()
		result.Duration = time.Since(fileStart)
		c.recordFileResult(bc, result, logID)
		return
	}

	sheet, err := parser.ParseSheet(rows, c.profile)
	if err != nil {
		result.Status = FileError
		if errors.Is(err, parser.ErrHeaderNotFound) {
			result.Status = FileSkipped
		}
		result.Error = err.Error()
		result.Duration = time.Since(fileStart)
		c.recordFileResult(bc, result, logID)
		return
	}

	result.Grade, result.Section = sheet.Grade, sheet.Section
	result.GradeFound, result.SectionFound = sheet.GradeFound, sheet.SectionFound
	if !sheet.GradeFound || !sheet.SectionFound {
		c.sendProgress(bc.progress, ProgressEvent{
			Type:    EventWarning,
			Message: fmt.Sprintf("%s: grade/section label not found, using %q / %q", name, sheet.Grade, sheet.Section),
			Data: map[string]any{
				"filename":      name,
				"grade_found":   sheet.GradeFound,
				"section_found": sheet.SectionFound,
			},
			Timestamp: time.Now(),
		})
	}

	merged := aggregate.Merge(bc.working, sheet.Grade, sheet.Section, sheet.Records())
	result.Status = FileImported
	result.Records = merged.Records
	result.Buckets = merged.Buckets
	result.NewStudents = merged.NewStudents
	result.Duration = time.Since(fileStart)
	c.recordFileResult(bc, result, logID)
}

// recordFileResult folds a file outcome into the report, the import log, metrics and the stream
func (c *Coordinator) recordFileResult(bc *batchContext, result FileResult, logID int64) {
	r := bc.report
	r.Files = append(r.Files, result)
	switch result.Status {
	case FileImported:
		r.ImportedFiles++
		r.Records += result.Records
		r.Buckets += result.Buckets
		r.NewStudents += result.NewStudents
	case FileSkipped:
		r.SkippedFiles++
	default:
		r.ErrorFiles++
	}

	c.finishLog(logID, store.ImportOutcome{
		Status:       result.Status,
		Grade:        result.Grade,
		Section:      result.Section,
		Records:      result.Records,
		Buckets:      result.Buckets,
		ErrorMessage: result.Error,
	})
	c.metrics.ObserveFile(store.KindReport, result.Status)
	c.metrics.ObserveRecords(result.Records)

	fields := []zap.Field{
		zap.String("batch", r.BatchID),
		zap.String("file", result.Filename),
		zap.String("status", result.Status),
		zap.Int("records", result.Records),
	}
	evtType := EventFileDone
	switch result.Status {
	case FileImported:
		c.log.Info("file imported", append(fields, zap.String("grade", result.Grade), zap.String("section", result.Section))...)
	case FileSkipped:
		c.log.Warn("file skipped", append(fields, zap.String("reason", result.Error))...)
	default:
		evtType = EventError
		c.log.Error("file failed", append(fields, zap.String("error", result.Error))...)
	}

	c.sendProgress(bc.progress, ProgressEvent{
		Type:      evtType,
		Message:   fileMessage(result),
		Data:      result,
		Timestamp: time.Now(),
	})
}

func fileMessage(r FileResult) string {
	switch r.Status {
	case FileImported:
		return fmt.Sprintf("%s: %d record(s) for %s - %s", r.Filename, r.Records, r.Grade, r.Section)
	case FileSkipped:
		return fmt.Sprintf("%s skipped: %s", r.Filename, r.Error)
	default:
		return fmt.Sprintf("%s failed: %s", r.Filename, r.Error)
	}
}

func (c *Coordinator) openLog(batchID, kind, filename string, size int64, hash string) int64 {
	if c.logs == nil {
		return 0
	}
	id, err := c.logs.CreateImportLog(batchID, kind, filename, size, hash)
	if err != nil {
		c.log.Warn("import log create failed", zap.String("file", filename), zap.Error(err))
		return 0
	}
	return id
}

func (c *Coordinator) finishLog(id int64, out store.ImportOutcome) {
	if c.logs == nil || id == 0 {
		return
	}
	if err := c.logs.FinishImportLog(id, out); err != nil {
		c.log.Warn("import log update failed", zap.Int64("id", id), zap.Error(err))
	}
}

// sendProgress non-blocking; events are dropped when the consumer lags
func (c *Coordinator) sendProgress(ch chan ProgressEvent, event ProgressEvent) {
	select {
	case ch <- event:
	default:
	}
}

func readInput(in FileInput) ([]byte, error) {
	if in.Data != nil {
		return in.Data, nil
	}
	if in.Path == "" {
		return nil, errors.New("no file content")
	}
	data, err := os.ReadFile(in.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
