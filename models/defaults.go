package models

// NeedsDefaults reports whether any of teachers, assignments or classes is empty.
func (c Collections) NeedsDefaults() bool {
	return len(c.Teachers) == 0 || len(c.Assignments) == 0 || len(c.Classes) == 0
}

// ApplyDefaults fills the empty ones of teachers, assignments and classes with
// the initial data of a fresh install. Seeded assignments have no ID yet.
func (c *Collections) ApplyDefaults() {
	if len(c.Teachers) == 0 {
		c.Teachers = []Teacher{
			{ID: "1", Name: "Dr. Abdul Sami"},
			{ID: "2", Name: "Dr. Asim Patrick"},
		}
	}
	if len(c.Assignments) == 0 {
		c.Assignments = []Assignment{
			{TeacherID: "1", Class: "BS-I", Subject: "Biosafety And Risk Management"},
			{TeacherID: "1", Class: "BS-II", Subject: "Soil Microbiology"},
			{TeacherID: "2", Class: "BS-I", Subject: "Fundamentals of Microbiology-I"},
			{TeacherID: "2", Class: "BS-II", Subject: "Microbial Taxonomy"},
		}
	}
	if len(c.Classes) == 0 {
		c.Classes = []Clazz{
			{Name: "BS-I"},
			{Name: "BS-II"},
		}
	}
}
