package models

import "errors"

// Lookup errors shared by the roster operations and the reports.
var (
	ErrStudentNotFound = errors.New("student not found")
	ErrClassNotFound   = errors.New("class not found")
)
