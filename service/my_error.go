package service

import (
	"errors"
	"fmt"
)

const (
	// ErrInternalServerError means that an internal server error has occurred.
	ErrInternalServerError = "internal_server_error"
	// ErrEntityNotFound means that record or row is absent in repository or storage.
	ErrEntityNotFound = "entity_not_found"
	// ErrBadParameter means that provided parameter does not match declared.
	ErrBadParameter = "bad_parameter"
	// ErrUnavailable means that the coordination store or the registry can't be reached.
	ErrUnavailable = "unavailable"
	// ErrInvalidSession means that the session id is unknown to the routing table or the worker.
	ErrInvalidSession = "invalid_session"
	// ErrInvalidPipeline means that the pipeline id is unknown or its definition was rejected.
	ErrInvalidPipeline = "invalid_pipeline"
	// ErrOverloaded means that no worker has capacity under both soft and hard limits.
	ErrOverloaded = "overloaded"
	// ErrWorkerError means that a worker process or a remote worker reported a failure.
	ErrWorkerError = "worker_error"
	// ErrWorkerClosed means that a worker process exited or closed before responding.
	ErrWorkerClosed = "worker_closed"
	// ErrProtocolError means that a client command is malformed.
	ErrProtocolError = "protocol_error"
)

// MyError represents an error within the context of mygreyhound services.
type MyError struct {
	// Code is a machine-readable code.
	Code string `json:"code,omitempty"`
	// Message is a human-readable message.
	Message string `json:"message"`
	// Inner is a wrapped error that is never shown to API consumers.
	Inner error `json:"-"`
}

// NewMyError creates a new MyError.
func NewMyError(code string, message string, inner error) *MyError {
	return &MyError{
		Code:    code,
		Message: message,
		Inner:   inner,
	}
}

// newCodedError keeps an already classified inner error as is and classifies everything else with code.
func newCodedError(code string, message string, inner error) *MyError {
	myInner := ToMyError(inner)
	if myInner != nil {
		return myInner
	}

	return NewMyError(code, message, inner)
}

func NewInternalServerError(message string, inner error) *MyError {
	return newCodedError(ErrInternalServerError, message, inner)
}

func NewEntityNotFoundError(message string, inner error) *MyError {
	return newCodedError(ErrEntityNotFound, message, inner)
}

func NewBadParameterError(message string, inner error) *MyError {
	return newCodedError(ErrBadParameter, message, inner)
}

func NewUnavailableError(message string, inner error) *MyError {
	return newCodedError(ErrUnavailable, message, inner)
}

func NewInvalidSessionError(message string, inner error) *MyError {
	return newCodedError(ErrInvalidSession, message, inner)
}

func NewInvalidPipelineError(message string, inner error) *MyError {
	return newCodedError(ErrInvalidPipeline, message, inner)
}

func NewOverloadedError(message string, inner error) *MyError {
	return newCodedError(ErrOverloaded, message, inner)
}

func NewWorkerError(message string, inner error) *MyError {
	return newCodedError(ErrWorkerError, message, inner)
}

func NewWorkerClosedError(message string, inner error) *MyError {
	return newCodedError(ErrWorkerClosed, message, inner)
}

func NewProtocolError(message string, inner error) *MyError {
	return newCodedError(ErrProtocolError, message, inner)
}

func (e MyError) Error() string {
	if e.Inner != nil {
		return fmt.Sprintf("%s %s: %v", e.Code, e.Message, e.Inner)
	}

	return fmt.Sprintf("%s %s", e.Code, e.Message)
}

// Unwrap the error returning the error's reason.
func (e MyError) Unwrap() error {
	return e.Inner
}

// ToMyError returns a pointer to a mygreyhound error, or nil if it is not a mygreyhound error.
func ToMyError(err error) *MyError {
	var e *MyError
	if errors.As(err, &e) {
		return e
	}

	return nil
}

// ToMyErrorCode returns the code of the error, if available.
func ToMyErrorCode(err error) string {
	myerror := ToMyError(err)
	if myerror != nil {
		return myerror.Code
	}
	return ""
}

func IsMyError(err error, code string) bool {
	myerror := ToMyError(err)
	if myerror != nil {
		return myerror.Code == code
	}
	return false
}

func IsInternalServerError(err error) bool {
	return IsMyError(err, ErrInternalServerError)
}

func IsEntityNotFoundError(err error) bool {
	return IsMyError(err, ErrEntityNotFound)
}

func IsBadParameterError(err error) bool {
	return IsMyError(err, ErrBadParameter)
}

func IsUnavailableError(err error) bool {
	return IsMyError(err, ErrUnavailable)
}

func IsInvalidSessionError(err error) bool {
	return IsMyError(err, ErrInvalidSession)
}

func IsInvalidPipelineError(err error) bool {
	return IsMyError(err, ErrInvalidPipeline)
}

func IsOverloadedError(err error) bool {
	return IsMyError(err, ErrOverloaded)
}

// IsWorkerFailure reports worker_error and worker_closed alike.
func IsWorkerFailure(err error) bool {
	return IsMyError(err, ErrWorkerError) || IsMyError(err, ErrWorkerClosed)
}

func IsWorkerClosedError(err error) bool {
	return IsMyError(err, ErrWorkerClosed)
}

func IsProtocolError(err error) bool {
	return IsMyError(err, ErrProtocolError)
}
