package csvimport

import "errors"

var (
	// ErrEmptyFile is returned when the uploaded file has no content
	ErrEmptyFile = errors.New("file is empty")
	// ErrInvalidEncoding is returned when the file is not valid UTF-8
	ErrInvalidEncoding = errors.New("file encoding must be UTF-8")
	// ErrMissingHeader is returned when the header row is absent
	ErrMissingHeader = errors.New("missing header row")
)
