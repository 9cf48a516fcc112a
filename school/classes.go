package school

import (
	"context"

	"go.uber.org/zap"

	"attendance-server-go/models"
)

// NewClass is what we require from clients when adding a Class.
type NewClass struct {
	Name    string `json:"name" validate:"required"`
	Teacher string `json:"teacher"`
}

func (nc *NewClass) Validate() error {
	nc.Name = cleanString(nc.Name)
	nc.Teacher = cleanString(nc.Teacher)
	return fromValidator(validate.Struct(nc))
}

// UpdateClass defines what may be changed on a Class. Nil fields are left untouched.
type UpdateClass struct {
	Name    *string `json:"name" validate:"omitnil,min=1"`
	Teacher *string `json:"teacher"`
}

func (uc *UpdateClass) Validate() error {
	if uc.Name != nil {
		name := cleanString(*uc.Name)
		uc.Name = &name
	}
	if uc.Teacher != nil {
		teacher := cleanString(*uc.Teacher)
		uc.Teacher = &teacher
	}
	return fromValidator(validate.Struct(uc))
}

// AddClass creates a class with a unique name.
func (r *Registry) AddClass(ctx context.Context, nc NewClass) (models.Clazz, error) {
	if err := nc.Validate(); err != nil {
		return models.Clazz{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.data.HasClass(nc.Name) {
		return models.Clazz{}, ErrClassExists
	}
	cl := models.Clazz{Name: nc.Name, Teacher: nc.Teacher}
	r.data.Classes = append(r.data.Classes, cl)
	r.log.Info("class added", zap.String("name", cl.Name))
	return cl, r.commit(ctx)
}

// EditClass changes the class teacher and renames the class. A rename moves the
// students and assignments of the class along.
func (r *Registry) EditClass(ctx context.Context, name string, uc UpdateClass) (models.Clazz, error) {
	if err := uc.Validate(); err != nil {
		return models.Clazz{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.classIndex(name)
	if i < 0 {
		return models.Clazz{}, ErrClassNotFound
	}

	if uc.Name != nil && *uc.Name != name {
		newName := *uc.Name
		if r.data.HasClass(newName) {
			return models.Clazz{}, ErrClassExists
		}
		r.data.Classes[i].Name = newName
		for j := range r.data.Students {
			if r.data.Students[j].Class == name {
				r.data.Students[j].Class = newName
			}
		}
		for j := range r.data.Assignments {
			if r.data.Assignments[j].Class == name {
				r.data.Assignments[j].Class = newName
			}
		}
		r.log.Info("class renamed", zap.String("from", name), zap.String("to", newName))
	}
	if uc.Teacher != nil {
		r.data.Classes[i].Teacher = *uc.Teacher
	}
	return r.data.Classes[i], r.commit(ctx)
}

// DeleteClass removes a class. Its students are dropped by the repair that runs
// before saving; assignments keep the class name.
func (r *Registry) DeleteClass(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.classIndex(name)
	if i < 0 {
		return ErrClassNotFound
	}
	r.data.Classes = append(r.data.Classes[:i:i], r.data.Classes[i+1:]...)
	r.log.Info("class deleted", zap.String("name", name))
	return r.commit(ctx)
}

func (r *Registry) classIndex(name string) int {
	for i, cl := range r.data.Classes {
		if cl.Name == name {
			return i
		}
	}
	return -1
}
