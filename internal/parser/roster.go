package parser

import "github.com/yasserrrr2025/rasd2/internal/model"

// roster column order: teacher, grade, subject, section
const (
	rosterColTeacher = iota
	rosterColGrade
	rosterColSubject
	rosterColSection
	rosterColumns
)

// BuildRoster maps a teacher roster sheet (header row first) into a
// grade -> section -> subject -> teachers lookup. Short rows and rows with an
// empty field are skipped and reported.
func BuildRoster(rows Matrix) (model.Roster, RosterReport) {
	roster := model.Roster{}
	report := RosterReport{}
	if len(rows) <= 1 {
		return roster, report
	}

	for i, row := range rows[1:] {
		rowNo := i + 2
		if blankRow(row) {
			continue
		}
		report.DataRows++
		if len(row) < rosterColumns {
			report.Skipped = append(report.Skipped, rowNo)
			continue
		}
		teacher := CellText(row, rosterColTeacher)
		grade := CellText(row, rosterColGrade)
		subject := CellText(row, rosterColSubject)
		section := CellText(row, rosterColSection)
		if teacher == "" || grade == "" || subject == "" || section == "" {
			report.Skipped = append(report.Skipped, rowNo)
			continue
		}
		roster.Add(grade, section, subject, teacher)
		report.Accepted++
	}
	return roster, report
}

func blankRow(row []any) bool {
	for col := range row {
		if CellText(row, col) != "" {
			return false
		}
	}
	return true
}
