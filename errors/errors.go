/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind categorizes a store error. Programs should act on an error's Kind,
// not its message.
type Kind int

const (
	// Unknown is used when the backing store's failure could not be categorized.
	Unknown Kind = iota

	// NotFound indicates the referenced document or collection does not exist.
	NotFound

	// AlreadyExists indicates a document exists where none was expected.
	AlreadyExists

	// InvalidArgument indicates the backing store rejected an input value.
	InvalidArgument

	// PermissionDenied indicates the caller lacks access to the resource.
	PermissionDenied

	// Unavailable indicates the backing store is temporarily unreachable.
	Unavailable

	// DeadlineExceeded indicates the operation ran past its deadline.
	DeadlineExceeded

	// ResourceExhausted indicates a quota or size cap was exceeded, such as
	// committing a write batch larger than the store's maximum.
	ResourceExhausted

	// FailedPrecondition indicates the store's state does not permit the
	// operation, for example updating a document that does not exist.
	FailedPrecondition

	// Canceled indicates the caller's context was canceled mid-operation.
	Canceled
)

var kindNames = map[Kind]string{
	Unknown:            "unknown",
	NotFound:           "not found",
	AlreadyExists:      "already exists",
	InvalidArgument:    "invalid argument",
	PermissionDenied:   "permission denied",
	Unavailable:        "unavailable",
	DeadlineExceeded:   "deadline exceeded",
	ResourceExhausted:  "resource exhausted",
	FailedPrecondition: "failed precondition",
	Canceled:           "canceled",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the single error type surfaced by the library. Every failure
// raised by a backing store is wrapped into one, carrying the store's own
// error as the cause. The layers above never translate it further.
type Error struct {
	Kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.msg == "" {
		return fmt.Sprintf("store error (%s)", e.Kind)
	}
	return fmt.Sprintf("%s (%s)", e.msg, e.Kind)
}

// Unwrap returns the backing store's underlying error, which may be nil.
func (e *Error) Unwrap() error {
	return e.err
}

// New returns a store error with the given kind, cause and message.
func New(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, msg: msg, err: err}
}

// Newf formats a message with args, then calls New.
func Newf(kind Kind, err error, format string, args ...any) *Error {
	return New(kind, err, fmt.Sprintf(format, args...))
}

// KindOf returns the Kind of err if it is (or wraps) a store *Error.
// It returns Unknown for any other non-nil error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return Unknown
}

// GRPCKind extracts the gRPC status code from err and converts it into a
// Kind. It returns Unknown when the error does not carry a gRPC status.
func GRPCKind(err error) Kind {
	switch status.Code(err) {
	case codes.NotFound:
		return NotFound
	case codes.AlreadyExists:
		return AlreadyExists
	case codes.InvalidArgument:
		return InvalidArgument
	case codes.PermissionDenied:
		return PermissionDenied
	case codes.Unavailable:
		return Unavailable
	case codes.DeadlineExceeded:
		return DeadlineExceeded
	case codes.ResourceExhausted:
		return ResourceExhausted
	case codes.FailedPrecondition:
		return FailedPrecondition
	case codes.Canceled:
		return Canceled
	default:
		return Unknown
	}
}

// FromGRPC wraps a gRPC-surfaced backend error into a store error, deriving
// the Kind from its status code. A nil err returns nil.
func FromGRPC(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Newf(GRPCKind(err), err, format, args...)
}

// IsNotFound reports whether err is a store error with Kind NotFound.
func IsNotFound(err error) bool {
	return is(err, NotFound)
}

// IsAlreadyExists reports whether err is a store error with Kind AlreadyExists.
func IsAlreadyExists(err error) bool {
	return is(err, AlreadyExists)
}

// IsPermissionDenied reports whether err is a store error with Kind PermissionDenied.
func IsPermissionDenied(err error) bool {
	return is(err, PermissionDenied)
}

// IsUnavailable reports whether err is a store error with Kind Unavailable.
func IsUnavailable(err error) bool {
	return is(err, Unavailable)
}

// IsResourceExhausted reports whether err is a store error with Kind ResourceExhausted.
func IsResourceExhausted(err error) bool {
	return is(err, ResourceExhausted)
}

// IsCanceled reports whether err is a store error with Kind Canceled.
func IsCanceled(err error) bool {
	return is(err, Canceled)
}

func is(err error, kind Kind) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == kind
}
