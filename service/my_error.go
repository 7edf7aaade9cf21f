package service

import (
	"errors"
	"fmt"
)

const (
	// ErrInternalServerError means that an internal server error has occurred.
	ErrInternalServerError = "internal_server_error"
	// ErrEntityNotFound means that a requested resource (other than a node) is absent.
	ErrEntityNotFound = "entity_not_found"
	// ErrBadParameter means that provided parameter does not match declared.
	ErrBadParameter = "bad_parameter"
	// ErrDuplicateNode means that a live node with the same class and id is already registered.
	ErrDuplicateNode = "duplicate_node"
	// ErrUnknownNode means that no node with the given class and id is registered.
	ErrUnknownNode = "unknown_node"
	// ErrStoreError means that the persistent store failed; the operation was rolled back and may be retried.
	ErrStoreError = "store_error"
)

// MyError represents an error within the context of the master registry.
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

func NewInternalServerError(message string, inner error) *MyError {
	return newOrInner(ErrInternalServerError, message, inner)
}

func NewEntityNotFoundError(message string, inner error) *MyError {
	return newOrInner(ErrEntityNotFound, message, inner)
}

func NewBadParameterError(message string, inner error) *MyError {
	return newOrInner(ErrBadParameter, message, inner)
}

func NewDuplicateNodeError(message string, inner error) *MyError {
	return newOrInner(ErrDuplicateNode, message, inner)
}

func NewUnknownNodeError(message string, inner error) *MyError {
	return newOrInner(ErrUnknownNode, message, inner)
}

func NewStoreError(message string, inner error) *MyError {
	return newOrInner(ErrStoreError, message, inner)
}

// newOrInner keeps an already classified inner error instead of re-wrapping it.
func newOrInner(code string, message string, inner error) *MyError {
	myInner := ToMyError(inner)
	if myInner != nil {
		return myInner
	}

	return NewMyError(code, message, inner)
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

// ToMyError returns a pointer to a registry error, or nil if it is not a registry error.
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

func IsDuplicateNodeError(err error) bool {
	return IsMyError(err, ErrDuplicateNode)
}

func IsUnknownNodeError(err error) bool {
	return IsMyError(err, ErrUnknownNode)
}

func IsStoreError(err error) bool {
	return IsMyError(err, ErrStoreError)
}
