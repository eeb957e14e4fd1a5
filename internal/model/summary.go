package model

import (
	"math"
	"sort"
)

// Period academic term label; only PeriodFirst and PeriodSecond are valid keys
type Period string

const (
	PeriodFirst  Period = "First"
	PeriodSecond Period = "Second"
)

// AllPeriods periods in display order
var AllPeriods = []Period{PeriodFirst, PeriodSecond}

// PeriodFilter period selection used by reports
type PeriodFilter string

const (
	FilterFirst  PeriodFilter = "first"
	FilterSecond PeriodFilter = "second"
	FilterBoth   PeriodFilter = "both"
)

// ParsePeriodFilter parses a query value; unknown or empty values select both periods
func ParsePeriodFilter(s string) PeriodFilter {
	switch PeriodFilter(s) {
	case FilterFirst, FilterSecond:
		return PeriodFilter(s)
	}
	switch Period(s) {
	case PeriodFirst:
		return FilterFirst
	case PeriodSecond:
		return FilterSecond
	}
	return FilterBoth
}

// Periods returns the periods selected by the filter
func (f PeriodFilter) Periods() []Period {
	switch f {
	case FilterFirst:
		return []Period{PeriodFirst}
	case FilterSecond:
		return []Period{PeriodSecond}
	default:
		return AllPeriods
	}
}

// Labels used when a sheet carries no recognizable grade/section cell
const (
	DefaultGradeLabel   = "Unknown grade"
	DefaultSectionLabel = "Unknown section"
	UnassignedTeacher   = "Unassigned"
)

// SubjectRecord completion state of one (grade, section, period, subject) bucket.
// StudentOrder holds exactly the keys of StudentStatus in first-seen order.
type SubjectRecord struct {
	CompletedCount       int             `json:"completedCount"`
	PendingCount         int             `json:"pendingCount"`
	CompletionPercentage float64         `json:"completionPercentage"`
	StudentStatus        map[string]bool `json:"studentStatus"`
	StudentOrder         []string        `json:"studentOrder"`
}

// NewSubjectRecord creates an empty record
func NewSubjectRecord() *SubjectRecord {
	return &SubjectRecord{
		StudentStatus: make(map[string]bool),
		StudentOrder:  []string{},
	}
}

// Set writes a student's status, last write wins. Reports whether the student is new.
func (r *SubjectRecord) Set(student string, recorded bool) bool {
	if r.StudentStatus == nil {
		r.StudentStatus = make(map[string]bool)
	}
	_, seen := r.StudentStatus[student]
	if !seen {
		r.StudentOrder = append(r.StudentOrder, student)
	}
	r.StudentStatus[student] = recorded
	return !seen
}

// Recount derives the counters and the percentage from StudentStatus
func (r *SubjectRecord) Recount() {
	completed, pending := 0, 0
	for _, ok := range r.StudentStatus {
		if ok {
			completed++
		} else {
			pending++
		}
	}
	r.CompletedCount = completed
	r.PendingCount = pending
	r.CompletionPercentage = Percentage(completed, completed+pending)
}

// Total completed + pending
func (r *SubjectRecord) Total() int {
	return r.CompletedCount + r.PendingCount
}

// Repair restores the order/status invariant on a record loaded from storage
func (r *SubjectRecord) Repair() {
	if r.StudentStatus == nil {
		r.StudentStatus = make(map[string]bool)
	}
	seen := make(map[string]bool, len(r.StudentOrder))
	order := make([]string, 0, len(r.StudentStatus))
	for _, name := range r.StudentOrder {
		if _, ok := r.StudentStatus[name]; !ok || seen[name] {
			continue
		}
		seen[name] = true
		order = append(order, name)
	}
	// names present in the map but missing from the order go last, sorted for stability
	var missing []string
	for name := range r.StudentStatus {
		if !seen[name] {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	r.StudentOrder = append(order, missing...)
	r.Recount()
}

// Clone deep copy
func (r *SubjectRecord) Clone() *SubjectRecord {
	out := &SubjectRecord{
		CompletedCount:       r.CompletedCount,
		PendingCount:         r.PendingCount,
		CompletionPercentage: r.CompletionPercentage,
		StudentStatus:        make(map[string]bool, len(r.StudentStatus)),
		StudentOrder:         append([]string(nil), r.StudentOrder...),
	}
	if out.StudentOrder == nil {
		out.StudentOrder = []string{}
	}
	for k, v := range r.StudentStatus {
		out.StudentStatus[k] = v
	}
	return out
}

// Percentage completed/total*100 rounded to one decimal; 0 when total is 0
func Percentage(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return Round1(float64(completed) / float64(total) * 100)
}

// Round1 rounds to one decimal place
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Subjects subject label -> record
type Subjects map[string]*SubjectRecord

// Periods period -> subjects
type Periods map[Period]Subjects

// Sections section label -> periods
type Sections map[string]Periods

// Summary grade label -> sections. Labels are raw extracted strings.
type Summary map[string]Sections

// BucketKey identifies one SubjectRecord
type BucketKey struct {
	Grade   string `json:"grade"`
	Section string `json:"section"`
	Period  Period `json:"period"`
	Subject string `json:"subject"`
}

// Bucket returns the record for the key, creating intermediate levels as needed
func (s Summary) Bucket(k BucketKey) *SubjectRecord {
	sections, ok := s[k.Grade]
	if !ok {
		sections = make(Sections)
		s[k.Grade] = sections
	}
	periods, ok := sections[k.Section]
	if !ok {
		periods = make(Periods)
		sections[k.Section] = periods
	}
	subjects, ok := periods[k.Period]
	if !ok {
		subjects = make(Subjects)
		periods[k.Period] = subjects
	}
	rec, ok := subjects[k.Subject]
	if !ok || rec == nil {
		rec = NewSubjectRecord()
		subjects[k.Subject] = rec
	}
	return rec
}

// Lookup returns the record for the key without creating it
func (s Summary) Lookup(k BucketKey) (*SubjectRecord, bool) {
	rec, ok := s[k.Grade][k.Section][k.Period][k.Subject]
	if !ok || rec == nil {
		return nil, false
	}
	return rec, true
}

// Empty reports whether no bucket exists
func (s Summary) Empty() bool {
	empty := true
	s.Walk(func(BucketKey, *SubjectRecord) bool {
		empty = false
		return false
	})
	return empty
}

// Clone deep copy
func (s Summary) Clone() Summary {
	out := make(Summary, len(s))
	for grade, sections := range s {
		cs := make(Sections, len(sections))
		for section, periods := range sections {
			cp := make(Periods, len(periods))
			for period, subjects := range periods {
				csub := make(Subjects, len(subjects))
				for subject, rec := range subjects {
					if rec != nil {
						csub[subject] = rec.Clone()
					}
				}
				cp[period] = csub
			}
			cs[section] = cp
		}
		out[grade] = cs
	}
	return out
}

// Walk visits every bucket in sorted order (grade, section, period, subject).
// Returning false stops the walk.
func (s Summary) Walk(fn func(BucketKey, *SubjectRecord) bool) {
	for _, grade := range sortedKeys(s) {
		sections := s[grade]
		for _, section := range sortedKeys(sections) {
			periods := sections[section]
			for _, period := range orderedPeriods(periods) {
				subjects := periods[period]
				for _, subject := range sortedKeys(subjects) {
					rec := subjects[subject]
					if rec == nil {
						continue
					}
					if !fn(BucketKey{Grade: grade, Section: section, Period: period, Subject: subject}, rec) {
						return
					}
				}
			}
		}
	}
}

// Repair drops invalid entries and restores every record's invariants
func (s Summary) Repair() {
	for grade, sections := range s {
		if sections == nil {
			delete(s, grade)
			continue
		}
		for section, periods := range sections {
			if periods == nil {
				delete(sections, section)
				continue
			}
			for period, subjects := range periods {
				if (period != PeriodFirst && period != PeriodSecond) || subjects == nil {
					delete(periods, period)
					continue
				}
				for subject, rec := range subjects {
					if rec == nil {
						delete(subjects, subject)
						continue
					}
					rec.Repair()
				}
			}
		}
	}
}

// Classes returns the sorted (grade, section) pairs present in the summary
func (s Summary) Classes() []ClassKey {
	var out []ClassKey
	for _, grade := range sortedKeys(s) {
		for _, section := range sortedKeys(s[grade]) {
			out = append(out, ClassKey{Grade: grade, Section: section})
		}
	}
	return out
}

// ClassKey grade + section
type ClassKey struct {
	Grade   string `json:"grade"`
	Section string `json:"section"`
}

// Label "grade - section"
func (k ClassKey) Label() string {
	return k.Grade + " - " + k.Section
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func orderedPeriods(m Periods) []Period {
	out := make([]Period, 0, len(m))
	for _, p := range AllPeriods {
		if _, ok := m[p]; ok {
			out = append(out, p)
		}
	}
	return out
}
