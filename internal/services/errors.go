package services

import "errors"

// Validation errors. They are reported to the user as warnings and are
// always detected before any extraction or completion call.
var (
	ErrNoResumes           = errors.New("no resumes uploaded")
	ErrTooManyResumes      = errors.New("too many resumes uploaded")
	ErrEmptyJobDescription = errors.New("job description is required")
	ErrInvalidUpload       = errors.New("invalid upload")
)

// IsValidationError reports whether err should be shown as a warning.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNoResumes) ||
		errors.Is(err, ErrTooManyResumes) ||
		errors.Is(err, ErrEmptyJobDescription) ||
		errors.Is(err, ErrInvalidUpload)
}
