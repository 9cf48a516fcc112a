package school

import (
	"context"

	"go.uber.org/zap"

	"attendance-server-go/models"
)

// NewAssignment assigns a subject of a class to a teacher, by name. An unknown
// teacher name creates the teacher.
type NewAssignment struct {
	TeacherName string `json:"teacherName" validate:"required"`
	Class       string `json:"class" validate:"required"`
	Subject     string `json:"subject" validate:"required,curriculum"`
}

func (na *NewAssignment) Validate() error {
	na.TeacherName = cleanString(na.TeacherName)
	na.Class = cleanString(na.Class)
	na.Subject = cleanString(na.Subject)
	return fromValidator(validate.Struct(na))
}

// UpdateAssignment renames the assigned teacher and moves the assignment.
type UpdateAssignment NewAssignment

func (ua *UpdateAssignment) Validate() error {
	return (*NewAssignment)(ua).Validate()
}

// AddAssignment creates an assignment, creating its teacher when no teacher has that exact name.
func (r *Registry) AddAssignment(ctx context.Context, na NewAssignment) (models.Assignment, error) {
	if err := na.Validate(); err != nil {
		return models.Assignment{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.data.HasClass(na.Class) {
		return models.Assignment{}, unknownClass("class")
	}
	if r.subjectTaken(na.Class, na.Subject, "") {
		return models.Assignment{}, ErrSubjectAssigned
	}

	teacherID := ""
	for _, t := range r.data.Teachers {
		if t.Name == na.TeacherName {
			teacherID = t.ID
			break
		}
	}
	if teacherID == "" {
		teacherID = r.newID()
		r.data.Teachers = append(r.data.Teachers, models.Teacher{ID: teacherID, Name: na.TeacherName})
		r.log.Info("teacher created", zap.String("id", teacherID), zap.String("name", na.TeacherName))
	}

	a := models.Assignment{
		ID:        r.newID(),
		TeacherID: teacherID,
		Class:     na.Class,
		Subject:   na.Subject,
	}
	r.data.Assignments = append(r.data.Assignments, a)
	return a, r.commit(ctx)
}

// EditAssignment renames the teacher holding the assignment and changes its class and subject.
func (r *Registry) EditAssignment(ctx context.Context, id string, ua UpdateAssignment) (models.Assignment, error) {
	if err := ua.Validate(); err != nil {
		return models.Assignment{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.assignmentIndex(id)
	if i < 0 {
		return models.Assignment{}, ErrAssignmentNotFound
	}
	if !r.data.HasClass(ua.Class) {
		return models.Assignment{}, unknownClass("class")
	}
	if r.subjectTaken(ua.Class, ua.Subject, id) {
		return models.Assignment{}, ErrSubjectAssigned
	}

	a := &r.data.Assignments[i]
	for j := range r.data.Teachers {
		if r.data.Teachers[j].ID == a.TeacherID {
			r.data.Teachers[j].Name = ua.TeacherName
		}
	}
	a.Class = ua.Class
	a.Subject = ua.Subject
	return *a, r.commit(ctx)
}

// DeleteAssignment removes an assignment. A teacher left without assignments is removed too.
func (r *Registry) DeleteAssignment(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.assignmentIndex(id)
	if i < 0 {
		return ErrAssignmentNotFound
	}
	teacherID := r.data.Assignments[i].TeacherID
	r.data.Assignments = append(r.data.Assignments[:i:i], r.data.Assignments[i+1:]...)

	for _, a := range r.data.Assignments {
		if a.TeacherID == teacherID {
			return r.commit(ctx)
		}
	}
	teachers := make([]models.Teacher, 0, len(r.data.Teachers))
	for _, t := range r.data.Teachers {
		if t.ID != teacherID {
			teachers = append(teachers, t)
		}
	}
	r.data.Teachers = teachers
	r.log.Info("teacher removed", zap.String("id", teacherID))
	return r.commit(ctx)
}

// AvailableSubjects returns the curriculum subjects not yet assigned in the class.
func (r *Registry) AvailableSubjects(class string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.data.HasClass(class) {
		return nil, ErrClassNotFound
	}
	out := make([]string, 0, len(models.Curriculum))
	for _, subject := range models.Curriculum {
		if !r.subjectTaken(class, subject, "") {
			out = append(out, subject)
		}
	}
	return out, nil
}

// ClassSubjects returns the subjects assigned in the class, in assignment order.
func (r *Registry) ClassSubjects(class string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.data.HasClass(class) {
		return nil, ErrClassNotFound
	}
	out := make([]string, 0)
	for _, a := range r.data.Assignments {
		if a.Class == class {
			out = append(out, a.Subject)
		}
	}
	return out, nil
}

// subjectTaken reports whether an assignment other than exceptID already covers (class, subject).
func (r *Registry) subjectTaken(class, subject, exceptID string) bool {
	for _, a := range r.data.Assignments {
		if a.Class == class && a.Subject == subject && a.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *Registry) assignmentIndex(id string) int {
	for i, a := range r.data.Assignments {
		if a.ID == id {
			return i
		}
	}
	return -1
}
