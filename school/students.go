package school

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"attendance-server-go/models"
)

// NewStudent is what we require from clients when adding a Student.
type NewStudent struct {
	ID    string `json:"id" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Class string `json:"class" validate:"required"`
}

func (ns *NewStudent) Validate() error {
	ns.ID = cleanString(ns.ID)
	ns.Name = cleanString(ns.Name)
	ns.Class = cleanString(ns.Class)
	return fromValidator(validate.Struct(ns))
}

// UpdateStudent defines what information may be provided to modify an existing
// Student. The ID can not be changed.
type UpdateStudent struct {
	Name  string `json:"name" validate:"required"`
	Class string `json:"class" validate:"required"`
}

func (us *UpdateStudent) Validate() error {
	us.Name = cleanString(us.Name)
	us.Class = cleanString(us.Class)
	return fromValidator(validate.Struct(us))
}

func unknownClass(field string) error {
	return NewValidationError(ErrClassNotFound, FieldError{Field: field, Error: "class does not exist"})
}

// AddStudent adds a student to an existing class.
func (r *Registry) AddStudent(ctx context.Context, ns NewStudent) (models.Student, error) {
	if err := ns.Validate(); err != nil {
		return models.Student{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.data.HasClass(ns.Class) {
		return models.Student{}, unknownClass("class")
	}
	if _, ok := r.data.FindStudent(ns.ID); ok {
		return models.Student{}, ErrDuplicateStudentID
	}

	s := models.Student{ID: ns.ID, Name: ns.Name, Class: ns.Class}
	r.data.Students = append(r.data.Students, s)
	r.log.Info("student added", zap.String("id", s.ID), zap.String("class", s.Class))
	return s, r.commit(ctx)
}

// EditStudent replaces the name and class of a student.
func (r *Registry) EditStudent(ctx context.Context, id string, us UpdateStudent) (models.Student, error) {
	if err := us.Validate(); err != nil {
		return models.Student{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.studentIndex(id)
	if i < 0 {
		return models.Student{}, ErrStudentNotFound
	}
	if !r.data.HasClass(us.Class) {
		return models.Student{}, unknownClass("class")
	}

	r.data.Students[i].Name = us.Name
	r.data.Students[i].Class = us.Class
	return r.data.Students[i], r.commit(ctx)
}

// DeleteStudent removes a student. Its attendance records are kept.
func (r *Registry) DeleteStudent(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.studentIndex(id)
	if i < 0 {
		return ErrStudentNotFound
	}
	r.data.Students = append(r.data.Students[:i:i], r.data.Students[i+1:]...)
	r.log.Info("student deleted", zap.String("id", id))
	return r.commit(ctx)
}

// Students returns all students in stored order.
func (r *Registry) Students() []models.Student {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Student, len(r.data.Students))
	copy(out, r.data.Students)
	return out
}

// Student returns the student with the given ID.
func (r *Registry) Student(id string) (models.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.data.FindStudent(id)
	if !ok {
		return models.Student{}, ErrStudentNotFound
	}
	return s, nil
}

// StudentsByClass returns the students of a class sorted by ID.
func (r *Registry) StudentsByClass(class string) ([]models.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.data.HasClass(class) {
		return nil, ErrClassNotFound
	}
	students := r.data.StudentsInClass(class)
	sort.SliceStable(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students, nil
}

func (r *Registry) studentIndex(id string) int {
	for i, s := range r.data.Students {
		if s.ID == id {
			return i
		}
	}
	return -1
}
