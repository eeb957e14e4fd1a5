package parser

import "iter"

// Sheet a status-report sheet with its located labels and header
type Sheet struct {
	Grade        string `json:"grade"`
	Section      string `json:"section"`
	GradeFound   bool   `json:"gradeFound"`
	SectionFound bool   `json:"sectionFound"`
	Header       Header `json:"header"`

	rows    Matrix
	profile Profile
}

// ParseSheet locates the header and the grade/section labels of a status report.
// Missing labels fall back to the profile defaults; a missing header is ErrHeaderNotFound.
func ParseSheet(rows Matrix, p Profile) (*Sheet, error) {
	p = p.LinkMetadata()
	h, err := LocateHeader(rows, p)
	if err != nil {
		return nil, err
	}

	grade, gradeOK := LocateMetadata(rows, p.Grade, p.MetadataWindow)
	if !gradeOK {
		grade = p.DefaultGrade
	}
	section, sectionOK := LocateMetadata(rows, p.Section, p.MetadataWindow)
	if !sectionOK {
		section = p.DefaultSection
	}

	return &Sheet{
		Grade:        grade,
		Section:      section,
		GradeFound:   gradeOK,
		SectionFound: sectionOK,
		Header:       h,
		rows:         rows,
		profile:      p,
	}, nil
}

// Records lazily extracts the sheet's status records; each call starts a new pass
func (s *Sheet) Records() iter.Seq[Record] {
	return ExtractRecords(s.rows, s.Header, s.profile)
}

// DataRows number of rows below the header
func (s *Sheet) DataRows() int {
	return max(len(s.rows)-s.Header.Row-1, 0)
}
