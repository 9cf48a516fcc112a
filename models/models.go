package models

// Attendance statuses
const (
	StatusPresent   = "present"
	StatusAbsent    = "absent"
	StatusNotMarked = "not_marked" // view-only, never persisted
)

// DateLayout is the ISO date format used for attendance dates and report ranges.
const DateLayout = "2006-01-02"

// Clazz represents a class
type Clazz struct {
	Name    string `json:"name"`              // Unique class name (e.g. BS-I)
	Teacher string `json:"teacher,omitempty"` // Optional display name of the class teacher
}

// Student represents a student
type Student struct {
	ID    string `json:"id"`    // Unique student ID (roll number)
	Name  string `json:"name"`  // Student name
	Class string `json:"class"` // Name of the class the student belongs to
}

// Teacher represents a teacher. A teacher only exists while it holds at least one assignment.
type Teacher struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Assignment says which teacher teaches which subject to which class
type Assignment struct {
	ID        string `json:"id"`        // Stable assignment ID
	TeacherID string `json:"teacherId"` // ID of the assigned teacher
	Class     string `json:"class"`     // Name of the class
	Subject   string `json:"subject"`   // Subject from the curriculum
}

// AttendanceRecord is one status observation for a student, on a date, in a subject
type AttendanceRecord struct {
	StudentID string `json:"studentId"`
	Date      string `json:"date"` // YYYY-MM-DD
	Subject   string `json:"subject"`
	Status    string `json:"status"`    // present | absent
	Timestamp string `json:"timestamp"` // RFC 3339, UTC
}

// SameSlot reports whether r is recorded for the given (student, date, subject) triple.
func (r AttendanceRecord) SameSlot(studentID, date, subject string) bool {
	return r.StudentID == studentID && r.Date == date && r.Subject == subject
}

// IsPresent reports whether the record marks the student present.
func (r AttendanceRecord) IsPresent() bool {
	return r.Status == StatusPresent
}

// Collections is the whole school state: the five persisted lists.
// A nil list means the stored value was not list-shaped.
type Collections struct {
	Students    []Student          `json:"students"`
	Teachers    []Teacher          `json:"teachers"`
	Assignments []Assignment       `json:"teacherAssignments"`
	Classes     []Clazz            `json:"classes"`
	Attendance  []AttendanceRecord `json:"attendance"`
}

// NewCollections returns an empty, valid state.
func NewCollections() Collections {
	return Collections{
		Students:    []Student{},
		Teachers:    []Teacher{},
		Assignments: []Assignment{},
		Classes:     []Clazz{},
		Attendance:  []AttendanceRecord{},
	}
}

// Clone returns a deep copy of c. Nil lists stay nil.
func (c Collections) Clone() Collections {
	return Collections{
		Students:    cloneSlice(c.Students),
		Teachers:    cloneSlice(c.Teachers),
		Assignments: cloneSlice(c.Assignments),
		Classes:     cloneSlice(c.Classes),
		Attendance:  cloneSlice(c.Attendance),
	}
}

// IsEmpty reports whether there are no students, teachers and classes (fresh install).
func (c Collections) IsEmpty() bool {
	return len(c.Students) == 0 && len(c.Teachers) == 0 && len(c.Classes) == 0
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

// FindStudent returns the student with the given ID
func (c Collections) FindStudent(id string) (Student, bool) {
	for _, s := range c.Students {
		if s.ID == id {
			return s, true
		}
	}
	return Student{}, false
}

// FindTeacher returns the teacher with the given ID
func (c Collections) FindTeacher(id string) (Teacher, bool) {
	for _, t := range c.Teachers {
		if t.ID == id {
			return t, true
		}
	}
	return Teacher{}, false
}

// HasClass checks if a class with the given name exists
func (c Collections) HasClass(name string) bool {
	for _, cl := range c.Classes {
		if cl.Name == name {
			return true
		}
	}
	return false
}

// StudentsInClass returns the students of a class in stored order
func (c Collections) StudentsInClass(name string) []Student {
	out := make([]Student, 0)
	for _, s := range c.Students {
		if s.Class == name {
			out = append(out, s)
		}
	}
	return out
}
