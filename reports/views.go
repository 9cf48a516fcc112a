package reports

import (
	"sort"

	"attendance-server-go/models"
)

type StudentGroup struct {
	Class    string           `json:"class"`
	Students []models.Student `json:"students"`
}

// StudentGroups groups the students by class, classes by name and students by ID.
func StudentGroups(c models.Collections) []StudentGroup {
	byClass := make(map[string][]models.Student)
	for _, s := range c.Students {
		byClass[s.Class] = append(byClass[s.Class], s)
	}

	groups := make([]StudentGroup, 0, len(byClass))
	for class, students := range byClass {
		sort.SliceStable(students, func(i, j int) bool { return students[i].ID < students[j].ID })
		groups = append(groups, StudentGroup{Class: class, Students: students})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Class < groups[j].Class })
	return groups
}

type TeacherRow struct {
	Teacher     models.Teacher      `json:"teacher"`
	Assignments []models.Assignment `json:"assignments"`
}

// TeacherAssignments lists the teachers with their assignments, in order of first
// assignment. Assignments of unknown teachers are left out.
func TeacherAssignments(c models.Collections) []TeacherRow {
	index := make(map[string]int)
	rows := make([]TeacherRow, 0, len(c.Teachers))
	for _, a := range c.Assignments {
		t, ok := c.FindTeacher(a.TeacherID)
		if !ok {
			continue
		}
		i, seen := index[t.ID]
		if !seen {
			i = len(rows)
			index[t.ID] = i
			rows = append(rows, TeacherRow{Teacher: t})
		}
		rows[i].Assignments = append(rows[i].Assignments, a)
	}
	return rows
}

type ClassRow struct {
	Name     string `json:"name"`
	Teacher  string `json:"teacher"`
	Students int    `json:"students"`
}

// ClassList returns the classes with their student count.
func ClassList(c models.Collections) []ClassRow {
	rows := make([]ClassRow, 0, len(c.Classes))
	for _, cl := range c.Classes {
		rows = append(rows, ClassRow{Name: cl.Name, Teacher: cl.Teacher, Students: len(c.StudentsInClass(cl.Name))})
	}
	return rows
}

type SheetRow struct {
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	Status    string `json:"status"`
}

// AttendanceSheet lists the students of a class with their status for a date and
// subject, not_marked when nothing was recorded.
func AttendanceSheet(c models.Collections, class, date, subject string) ([]SheetRow, error) {
	if !c.HasClass(class) {
		return nil, models.ErrClassNotFound
	}
	rows := make([]SheetRow, 0)
	for _, s := range c.StudentsInClass(class) {
		status := models.StatusNotMarked
		for _, r := range c.Attendance {
			if r.SameSlot(s.ID, date, subject) {
				status = r.Status
				break
			}
		}
		rows = append(rows, SheetRow{StudentID: s.ID, Name: s.Name, Status: status})
	}
	return rows, nil
}
