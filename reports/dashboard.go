package reports

import (
	"attendance-server-go/models"
)

type Dashboard struct {
	Students       int         `json:"students"`
	Teachers       int         `json:"teachers"`
	Classes        int         `json:"classes"`
	AttendanceRate int         `json:"attendanceRate"`
	ClassCards     []ClassCard `json:"classCards"`
}

type ClassCard struct {
	Class          string           `json:"class"`
	Students       int              `json:"students"`
	AttendanceRate int              `json:"attendanceRate"`
	Teachers       []TeacherSubject `json:"teachers"`
}

type TeacherSubject struct {
	Teacher string `json:"teacher"`
	Subject string `json:"subject"`
}

// NewDashboard returns the school-wide counts and one card per class.
func NewDashboard(c models.Collections) Dashboard {
	teachers := make(map[string]struct{}, len(c.Teachers))
	for _, t := range c.Teachers {
		teachers[t.ID] = struct{}{}
	}

	students := classOf(c)
	d := Dashboard{
		Students:       len(c.Students),
		Teachers:       len(teachers),
		Classes:        len(c.Classes),
		AttendanceRate: OverallAttendanceRate(c),
		ClassCards:     make([]ClassCard, 0, len(c.Classes)),
	}
	for _, cl := range c.Classes {
		card := ClassCard{
			Class:          cl.Name,
			Students:       len(c.StudentsInClass(cl.Name)),
			AttendanceRate: percent(classTally(c, students, cl.Name)),
			Teachers:       []TeacherSubject{},
		}
		for _, a := range c.Assignments {
			if a.Class != cl.Name {
				continue
			}
			name := UnknownTeacher
			if t, ok := c.FindTeacher(a.TeacherID); ok {
				name = t.Name
			}
			card.Teachers = append(card.Teachers, TeacherSubject{Teacher: name, Subject: a.Subject})
		}
		d.ClassCards = append(d.ClassCards, card)
	}
	return d
}
