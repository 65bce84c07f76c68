package domain

import (
	"errors"
	"fmt"
)

// ValidationError reports bad user input, optionally tied to a form field.
type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	switch {
	case e.Msg != "" && e.Field != "":
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Field != "":
		return fmt.Sprintf("invalid %s", e.Field)
	default:
		return "validation error"
	}
}

func (e ValidationError) Unwrap() error { return e.Err }

// FieldErrors groups several ValidationErrors from one form submission.
type FieldErrors []ValidationError

func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return "validation error"
	}
	if len(fe) == 1 {
		return fe[0].Error()
	}
	return fmt.Sprintf("%s (and %d more)", fe[0].Error(), len(fe)-1)
}

// ByField indexes the messages by form field for re-rendering.
func (fe FieldErrors) ByField() map[string]string {
	out := make(map[string]string, len(fe))
	for _, e := range fe {
		if _, ok := out[e.Field]; !ok {
			out[e.Field] = e.Msg
		}
	}
	return out
}

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
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

// UnauthorizedError means the session has no usable API token.
type UnauthorizedError struct {
	Msg string
	Err error
}

func (e UnauthorizedError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "please sign in to continue"
}

func (e UnauthorizedError) Unwrap() error { return e.Err }

// UpstreamError wraps any other failure talking to the rental API.
type UpstreamError struct {
	Status int
	Msg    string
	Err    error
}

func (e UpstreamError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Status > 0 {
		return fmt.Sprintf("rental service returned status %d", e.Status)
	}
	return "rental service unavailable"
}

func (e UpstreamError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	if errors.As(err, &target) {
		return true
	}
	var fields FieldErrors
	return errors.As(err, &fields)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsUnauthorized(err error) bool {
	var target UnauthorizedError
	return errors.As(err, &target)
}

func IsUpstream(err error) bool {
	var target UpstreamError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

// UserMessage is the text shown to the customer in a flash message.
// Internal errors never leak their cause.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if IsInternal(err) {
		return "something went wrong, please try again"
	}
	return err.Error()
}
