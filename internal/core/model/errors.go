package model

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound is returned when an entity is required to exist and does not.
	ErrNotFound = errors.New("entity was not found")

	// ErrNotPersisted is returned when a write completed without affecting any row.
	ErrNotPersisted = errors.New("no rows were affected")
)

// GenericErrorMessage is the only message a caller ever sees for a failed operation.
const GenericErrorMessage = "An error occured while processing your request."

// Error is the uniform error surfaced by the persistence layer. The underlying cause is kept
// for errors.Is/As and logging but is never serialized.
type Error struct {
	Status  int
	Message string
	Name    string
	cause   error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.Name + ": " + e.Message
	}
	return e.Name + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Body returns the payload sent to the caller.
func (e *Error) Body() ErrorBody {
	return ErrorBody{Message: e.Message, Name: e.Name}
}

// ErrorBody is the JSON form of Error.
type ErrorBody struct {
	Message string `json:"message"`
	Name    string `json:"name"`
}

// Normalize converts any error into the uniform *Error. Nil stays nil and an *Error is returned as is.
func Normalize(err error) error {
	if err == nil {
		return nil
	}
	var uniform *Error
	if errors.As(err, &uniform) {
		return uniform
	}
	return &Error{
		Status:  http.StatusInternalServerError,
		Message: GenericErrorMessage,
		Name:    errorName(err),
		cause:   err,
	}
}

func errorName(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "NotFoundError"
	case errors.Is(err, ErrNotPersisted):
		return "NotPersistedError"
	default:
		return "DatabaseError"
	}
}
