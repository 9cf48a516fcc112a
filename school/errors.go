package school

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"attendance-server-go/models"
)

var (
	ErrStudentNotFound    = models.ErrStudentNotFound
	ErrClassNotFound      = models.ErrClassNotFound
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrDuplicateStudentID = errors.New("a student with this id already exists")
	ErrClassExists        = errors.New("a class with this name already exists")
	ErrSubjectAssigned    = errors.New("this subject is already assigned in this class")

	// ErrNotPersisted is matched by errors returned when a change was applied
	// in memory but could not be written to the store.
	ErrNotPersisted = errors.New("changes were applied but could not be saved")
)

// FieldError is used to indicate an error with a specific input field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err *ValidationError) Error() string {
	if err.Err == nil {
		return "invalid input"
	}
	return err.Err.Error()
}

func (err *ValidationError) Unwrap() error { return err.Err }

// fromValidator converts validator errors into a ValidationError with translated messages.
func fromValidator(err error) error {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return err
	}
	flds := make([]FieldError, 0, len(vErrs))
	for _, fe := range vErrs {
		flds = append(flds, FieldError{Field: fe.Field(), Error: fe.Translate(translator)})
	}
	return NewValidationError(errors.New("invalid input"), flds...)
}

type persistError struct {
	err error
}

func (e *persistError) Error() string        { return ErrNotPersisted.Error() + ": " + e.err.Error() }
func (e *persistError) Unwrap() error        { return e.err }
func (e *persistError) Is(target error) bool { return target == ErrNotPersisted }
