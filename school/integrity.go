package school

import (
	"attendance-server-go/models"
)

// RepairReport counts what Repair removed.
type RepairReport struct {
	DroppedAssignments int `json:"droppedAssignments"`
	DroppedStudents    int `json:"droppedStudents"`
}

// Validate reports whether c is structurally sound: every collection is a list and,
// unless the school is empty, every assignment and student references an existing
// teacher and class.
func Validate(c models.Collections) bool {
	if c.Students == nil || c.Teachers == nil || c.Assignments == nil || c.Classes == nil || c.Attendance == nil {
		return false
	}
	if c.IsEmpty() {
		return true
	}

	teachers := teacherIDs(c.Teachers)
	for _, a := range c.Assignments {
		if _, ok := teachers[a.TeacherID]; !ok {
			return false
		}
	}
	classes := classNames(c.Classes)
	for _, s := range c.Students {
		if _, ok := classes[s.Class]; !ok {
			return false
		}
	}
	return true
}

// Repair makes c valid: non-list collections become empty, assignments of unknown
// teachers and students of unknown classes are dropped.
func Repair(c *models.Collections) RepairReport {
	if c.Students == nil {
		c.Students = []models.Student{}
	}
	if c.Teachers == nil {
		c.Teachers = []models.Teacher{}
	}
	if c.Assignments == nil {
		c.Assignments = []models.Assignment{}
	}
	if c.Classes == nil {
		c.Classes = []models.Clazz{}
	}
	if c.Attendance == nil {
		c.Attendance = []models.AttendanceRecord{}
	}

	var rep RepairReport

	teachers := teacherIDs(c.Teachers)
	assignments := make([]models.Assignment, 0, len(c.Assignments))
	for _, a := range c.Assignments {
		if _, ok := teachers[a.TeacherID]; ok {
			assignments = append(assignments, a)
		} else {
			rep.DroppedAssignments++
		}
	}
	c.Assignments = assignments

	classes := classNames(c.Classes)
	students := make([]models.Student, 0, len(c.Students))
	for _, s := range c.Students {
		if _, ok := classes[s.Class]; ok {
			students = append(students, s)
		} else {
			rep.DroppedStudents++
		}
	}
	c.Students = students

	return rep
}

func teacherIDs(teachers []models.Teacher) map[string]struct{} {
	ids := make(map[string]struct{}, len(teachers))
	for _, t := range teachers {
		ids[t.ID] = struct{}{}
	}
	return ids
}

func classNames(classes []models.Clazz) map[string]struct{} {
	names := make(map[string]struct{}, len(classes))
	for _, c := range classes {
		names[c.Name] = struct{}{}
	}
	return names
}
