package errs

import (
	"errors"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrBookUnavailable = errors.New("book is not available")
	ErrAlreadyReturned = errors.New("issue is already returned")
	ErrGenreExists     = errors.New("genre already exists")
)
