package importer

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yasserrrr2025/rasd2/internal/parser"
	"github.com/yasserrrr2025/rasd2/internal/service/excel"
	"github.com/yasserrrr2025/rasd2/internal/store"
)

// ImportRoster replaces the teacher roster from a workbook. Malformed rows are
// skipped and reported; a roster without any well-formed row is rejected with
// parser.ErrRosterEmpty and the previous roster is kept. Fails with
// state.ErrBatchInProgress while a batch runs.
func (c *Coordinator) ImportRoster(in FileInput) (*RosterResult, error) {
	release, err := c.state.TryBeginBatch()
	if err != nil {
		return nil, err
	}
	defer release()

	name := in.Name
	if name == "" {
		name = filepath.Base(in.Path)
	}
	result := &RosterResult{BatchID: uuid.New().String(), Filename: name}

	data, err := readInput(in)
	if err != nil {
		c.metrics.ObserveFile(store.KindRoster, FileError)
		return nil, err
	}
	logID := c.openLog(result.BatchID, store.KindRoster, name, int64(len(data)), hashBytes(data))

	fail := func(status string, err error) (*RosterResult, error) {
		c.finishLog(logID, store.ImportOutcome{Status: status, ErrorMessage: err.Error()})
		c.metrics.ObserveFile(store.KindRoster, status)
		c.log.Warn("roster rejected", zap.String("file", name), zap.Error(err))
		return result, err
	}

	rows, sheetName, err := excel.ReadFirstSheet(bytes.NewReader(data))
	result.Sheet = sheetName
	if err != nil {
		return fail(FileError, err)
	}

	roster, rep := parser.BuildRoster(rows)
	result.Report = rep
	if err := rep.Err(); err != nil {
		return fail(FileSkipped, err)
	}
	if err := c.state.ReplaceRoster(roster); err != nil {
		return fail(FileError, fmt.Errorf("saving roster failed: %w", err))
	}
	result.Grades = len(roster)

	c.finishLog(logID, store.ImportOutcome{Status: FileImported, Records: rep.Accepted})
	c.metrics.ObserveFile(store.KindRoster, FileImported)
	if len(rep.Skipped) > 0 {
		c.log.Warn("roster rows skipped",
			zap.String("file", name), zap.Ints("rows", rep.Skipped))
	}
	c.log.Info("roster replaced", zap.String("file", name), zap.Int("accepted", rep.Accepted))
	return result, nil
}
