package parser

import (
	"errors"

	"github.com/yasserrrr2025/rasd2/internal/model"
)

// Matrix row-major cell values of one sheet (string, number or nil)
type Matrix [][]any

// ErrHeaderNotFound no row in the scan window has both an identity and a period column
var ErrHeaderNotFound = errors.New("header row not found")

// ErrRosterEmpty roster sheet produced no well-formed row
var ErrRosterEmpty = errors.New("roster has no well-formed rows (expected columns: teacher, grade, subject, section)")

// MetadataField keyword set for one metadata label (grade or section)
type MetadataField struct {
	Name     string   `toml:"name"`
	Keywords []string `toml:"keywords"`
	// Reject longer phrases that contain a keyword but name a different field
	Reject []string `toml:"reject"`
	// Siblings keywords of the other metadata fields; a neighbour cell holding
	// one of them is a label, not this field's value
	Siblings []string `toml:"-"`
}

// PeriodAlias texts that map a period cell onto a period key
type PeriodAlias struct {
	Period  model.Period
	Aliases []string
}

// Profile keyword sets and scan bounds for status-report sheets
type Profile struct {
	Grade   MetadataField
	Section MetadataField

	Identity     []string
	PeriodHeader []string
	Periods      []PeriodAlias

	// ExcludeExact header labels excluded only on exact match (short markers)
	ExcludeExact []string
	// ExcludeContains header labels excluded on substring match
	ExcludeContains []string

	MetadataWindow int
	HeaderWindow   int
	MinNameLength  int

	DefaultGrade   string
	DefaultSection string
}

// DefaultProfile Arabic export labels plus their English equivalents
func DefaultProfile() Profile {
	return defaultProfile().LinkMetadata()
}

// LinkMetadata sets each metadata field's Siblings to the other field's keywords
func (p Profile) LinkMetadata() Profile {
	p.Grade.Siblings = append([]string(nil), p.Section.Keywords...)
	p.Section.Siblings = append([]string(nil), p.Grade.Keywords...)
	return p
}

func defaultProfile() Profile {
	return Profile{
		Grade: MetadataField{
			Name:     "grade",
			Keywords: []string{"الصف", "Grade"},
		},
		Section: MetadataField{
			Name:     "section",
			Keywords: []string{"الفصل", "Section"},
			Reject:   []string{"الفصل الدراسي", "Academic Term", "Semester"},
		},
		Identity:     []string{"الطالب", "الاسم", "Student", "Name"},
		PeriodHeader: []string{"الفترة", "Period"},
		Periods: []PeriodAlias{
			{Period: model.PeriodFirst, Aliases: []string{"أولى", "الاولى", "First", "1st"}},
			{Period: model.PeriodSecond, Aliases: []string{"ثانية", "الثانيه", "Second", "2nd"}},
		},
		ExcludeExact: []string{"م", "No", "No.", "#", "S/N", "SN"},
		ExcludeContains: []string{
			"السلوك", "المواظبة", "الاسم", "الطالب", "الفترة", "رقم الهوية",
			"Conduct", "Behavior", "Behaviour", "Attendance",
			"Student", "Name", "Period", "National ID", "ID Number",
		},
		MetadataWindow: 20,
		HeaderWindow:   40,
		MinNameLength:  4,
		DefaultGrade:   model.DefaultGradeLabel,
		DefaultSection: model.DefaultSectionLabel,
	}
}

// SubjectColumn one subject column of the header row
type SubjectColumn struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

// Header located header row and its column roles
type Header struct {
	Row         int             `json:"row"`
	PeriodCol   int             `json:"periodCol"`
	IdentityCol int             `json:"identityCol"`
	Subjects    []SubjectColumn `json:"subjects"`
}

// StatusCode value of a subject cell
type StatusCode int

const (
	StatusNone     StatusCode = iota // blank or unrecognized
	StatusRecorded                   // 0
	StatusPending                    // 1
)

// Record one extracted (student, period, subject, status) tuple
type Record struct {
	Student string       `json:"student"`
	Period  model.Period `json:"period"`
	Subject string       `json:"subject"`
	Status  StatusCode   `json:"status"`
}

// Recorded whether the status means "recorded"
func (r Record) Recorded() bool {
	return r.Status == StatusRecorded
}

// RosterReport outcome of a roster build
type RosterReport struct {
	DataRows int   `json:"dataRows"`
	Accepted int   `json:"accepted"`
	Skipped  []int `json:"skipped,omitempty"` // 1-based sheet rows
}

// Err ErrRosterEmpty when nothing was accepted
func (r RosterReport) Err() error {
	if r.Accepted == 0 {
		return ErrRosterEmpty
	}
	return nil
}
