package model

// Roster grade -> section -> subject -> teachers. Replaced wholesale on every upload.
type Roster map[string]map[string]map[string][]string

// Add appends a teacher to the (grade, section, subject) list unless already present
func (r Roster) Add(grade, section, subject, teacher string) {
	sections, ok := r[grade]
	if !ok {
		sections = make(map[string]map[string][]string)
		r[grade] = sections
	}
	subjects, ok := sections[section]
	if !ok {
		subjects = make(map[string][]string)
		sections[section] = subjects
	}
	for _, t := range subjects[subject] {
		if t == teacher {
			return
		}
	}
	subjects[subject] = append(subjects[subject], teacher)
}

// Teachers returns the teachers for a bucket, nil when unmapped
func (r Roster) Teachers(grade, section, subject string) []string {
	return r[grade][section][subject]
}

// Empty reports whether the roster has no entries
func (r Roster) Empty() bool {
	return len(r) == 0
}

// Clone deep copy
func (r Roster) Clone() Roster {
	out := make(Roster, len(r))
	for grade, sections := range r {
		cs := make(map[string]map[string][]string, len(sections))
		for section, subjects := range sections {
			csub := make(map[string][]string, len(subjects))
			for subject, teachers := range subjects {
				csub[subject] = append([]string(nil), teachers...)
			}
			cs[section] = csub
		}
		out[grade] = cs
	}
	return out
}
