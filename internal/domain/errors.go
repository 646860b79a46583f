package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when a request carries no valid identity
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials is returned when an email/password pair does not match
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError reports caller-correctable input problems.
type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type NotFoundError struct {
	Resource string
	ID       interface{}
	Err      error
}

func (e NotFoundError) Error() string {
	switch {
	case e.Resource == "":
		return "not found"
	case e.ID != nil:
		return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
	default:
		return fmt.Sprintf("%s not found", e.Resource)
	}
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

// ForbiddenError is returned when the caller is known but not allowed to act.
type ForbiddenError struct {
	Msg string
}

func (e ForbiddenError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "forbidden"
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsForbidden(err error) bool {
	var target ForbiddenError
	return errors.As(err, &target)
}
