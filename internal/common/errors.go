package common

import "errors"

var (
	// lookup errors
	ErrUserNotFound = errors.New("user not found")
	ErrNoTeacher    = errors.New("no teacher found")

	// input errors
	ErrMissingArgument = errors.New("missing argument")
	ErrInvalidEmail    = errors.New("invalid email")

	// configuration that would leave data incomplete
	ErrBlankTeacherDefault = errors.New("teacher default is blank")

	// refusing to delete everyone
	ErrEmptyAllowList = errors.New("seed email allow-list is empty")
)
