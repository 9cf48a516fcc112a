package reports

import (
	"sort"

	"attendance-server-go/models"
)

// UnknownTeacher is shown for assignments whose teacher does not exist.
const UnknownTeacher = "Unknown Teacher"

type DepartmentRow struct {
	Class          string `json:"class"`
	Students       int    `json:"students"`
	Teachers       int    `json:"teachers"`
	AttendanceRate int    `json:"attendanceRate"`
}

// DepartmentSummary returns, per class, its student count, the number of distinct
// teachers assigned to it and its attendance rate.
func DepartmentSummary(c models.Collections) []DepartmentRow {
	students := classOf(c)
	rows := make([]DepartmentRow, 0, len(c.Classes))
	for _, cl := range c.Classes {
		teachers := make(map[string]struct{})
		for _, a := range c.Assignments {
			if a.Class != cl.Name {
				continue
			}
			if t, ok := c.FindTeacher(a.TeacherID); ok {
				teachers[t.ID] = struct{}{}
			}
		}
		rows = append(rows, DepartmentRow{
			Class:          cl.Name,
			Students:       len(c.StudentsInClass(cl.Name)),
			Teachers:       len(teachers),
			AttendanceRate: percent(classTally(c, students, cl.Name)),
		})
	}
	return rows
}

type ClassAttendanceRow struct {
	Class          string `json:"class"`
	Students       int    `json:"students"`
	Present        int    `json:"present"`
	Absent         int    `json:"absent"`
	AttendanceRate int    `json:"attendanceRate"`
}

// ClassAttendance returns the present and absent totals of every class.
func ClassAttendance(c models.Collections) []ClassAttendanceRow {
	students := classOf(c)
	rows := make([]ClassAttendanceRow, 0, len(c.Classes))
	for _, cl := range c.Classes {
		present, total := classTally(c, students, cl.Name)
		rows = append(rows, ClassAttendanceRow{
			Class:          cl.Name,
			Students:       len(c.StudentsInClass(cl.Name)),
			Present:        present,
			Absent:         total - present,
			AttendanceRate: percent(present, total),
		})
	}
	return rows
}

// ClassReport returns the attendance row of a single class.
func ClassReport(c models.Collections, class string) (ClassAttendanceRow, error) {
	for _, row := range ClassAttendance(c) {
		if row.Class == class {
			return row, nil
		}
	}
	return ClassAttendanceRow{}, models.ErrClassNotFound
}

type StudentReport struct {
	Student        models.Student `json:"student"`
	Total          int            `json:"total"`
	Present        int            `json:"present"`
	Absent         int            `json:"absent"`
	AttendanceRate float64        `json:"attendanceRate"`
}

// StudentSummary counts all attendance records of a student.
func StudentSummary(c models.Collections, id string) (StudentReport, error) {
	s, ok := c.FindStudent(id)
	if !ok {
		return StudentReport{}, models.ErrStudentNotFound
	}
	present, total := tally(c.Attendance, func(r models.AttendanceRecord) bool { return r.StudentID == id })
	return StudentReport{
		Student:        s,
		Total:          total,
		Present:        present,
		Absent:         total - present,
		AttendanceRate: percentOneDecimal(present, total),
	}, nil
}

// SubjectQuery selects the attendance of one subject in a class over an inclusive date range.
type SubjectQuery struct {
	Class     string `form:"class" json:"class" binding:"required"`
	Subject   string `form:"subject" json:"subject" binding:"required"`
	StartDate string `form:"start" json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate   string `form:"end" json:"endDate" binding:"required,datetime=2006-01-02"`
}

type SubjectRow struct {
	StudentID      string  `json:"id"`
	Name           string  `json:"name"`
	PresentDays    int     `json:"presentDays"`
	AbsentDays     int     `json:"absentDays"`
	AttendanceRate float64 `json:"attendanceRate"`
}

type SubjectReport struct {
	SubjectQuery
	Rows []SubjectRow `json:"data"`
}

// Subject reports, per student of the class sorted by ID, the present and absent
// days in the subject between the start and end dates.
func Subject(c models.Collections, q SubjectQuery) (SubjectReport, error) {
	if !c.HasClass(q.Class) {
		return SubjectReport{}, models.ErrClassNotFound
	}

	students := c.StudentsInClass(q.Class)
	sort.SliceStable(students, func(i, j int) bool { return students[i].ID < students[j].ID })

	rep := SubjectReport{SubjectQuery: q, Rows: make([]SubjectRow, 0, len(students))}
	for _, s := range students {
		present, total := tally(c.Attendance, func(r models.AttendanceRecord) bool {
			// ISO dates order as strings
			return r.StudentID == s.ID && r.Subject == q.Subject && r.Date >= q.StartDate && r.Date <= q.EndDate
		})
		rep.Rows = append(rep.Rows, SubjectRow{
			StudentID:      s.ID,
			Name:           s.Name,
			PresentDays:    present,
			AbsentDays:     total - present,
			AttendanceRate: percentOneDecimal(present, total),
		})
	}
	return rep, nil
}
