package importer

import (
	"time"

	"github.com/yasserrrr2025/rasd2/internal/parser"
	"github.com/yasserrrr2025/rasd2/internal/store"
)

// Progress event types
const (
	EventStart     = "start"
	EventFileStart = "file_start"
	EventFileDone  = "file_done"
	EventWarning   = "warning"
	EventError     = "error"
	EventDone      = "done"
)

// File outcomes
const (
	FileImported = store.StatusImported
	FileSkipped  = store.StatusSkipped
	FileError    = store.StatusError
)

// FileInput one workbook of a batch: in-memory Data, or read from Path when Data is nil
type FileInput struct {
	Name string
	Path string
	Data []byte
}

// ImportOptions one ingestion batch
type ImportOptions struct {
	Files []FileInput
}

// ProgressEvent streamed while a batch runs
type ProgressEvent struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// FileResult outcome of one workbook
type FileResult struct {
	Filename     string        `json:"filename"`
	Sheet        string        `json:"sheet,omitempty"`
	Status       string        `json:"status"`
	Grade        string        `json:"grade,omitempty"`
	Section      string        `json:"section,omitempty"`
	GradeFound   bool          `json:"gradeFound"`
	SectionFound bool          `json:"sectionFound"`
	Records      int           `json:"records"`
	Buckets      int           `json:"buckets"`
	NewStudents  int           `json:"newStudents"`
	FileHash     string        `json:"fileHash,omitempty"`
	Error        string        `json:"error,omitempty"`
	Duration     time.Duration `json:"duration"`
}

// ImportReport outcome of a batch
type ImportReport struct {
	BatchID       string        `json:"batchId"`
	TotalFiles    int           `json:"totalFiles"`
	ImportedFiles int           `json:"importedFiles"`
	SkippedFiles  int           `json:"skippedFiles"`
	ErrorFiles    int           `json:"errorFiles"`
	Records       int           `json:"records"`
	Buckets       int           `json:"buckets"`
	NewStudents   int           `json:"newStudents"`
	Committed     bool          `json:"committed"`
	CommitError   string        `json:"commitError,omitempty"`
	Files         []FileResult  `json:"files"`
	Duration      time.Duration `json:"duration"`
}

// RosterResult outcome of a roster upload
type RosterResult struct {
	BatchID  string              `json:"batchId"`
	Filename string              `json:"filename"`
	Sheet    string              `json:"sheet"`
	Report   parser.RosterReport `json:"report"`
	Grades   int                 `json:"grades"`
}
