package model

import (
	"context"
	"net"

	"github.com/go-faster/errors"
)

type ErrorKind string

const (
	ErrBadRequest       ErrorKind = "BadRequest"
	ErrMethodNotAllowed ErrorKind = "MethodNotAllowed"
	ErrUpstream         ErrorKind = "UpstreamError"
	ErrMalformedRecord  ErrorKind = "MalformedUpstreamRecord"
	ErrTracking         ErrorKind = "TrackingFailure"
)

// Error is a classified pipeline failure. Message is what a client may see;
// StatusCode is the upstream HTTP status when one was received.
type Error struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func BadRequest(msg string) error {
	return &Error{Kind: ErrBadRequest, Message: msg}
}

func MethodNotAllowed(msg string) error {
	return &Error{Kind: ErrMethodNotAllowed, Message: msg}
}

// Upstream reports a business error returned by the photo provider.
func Upstream(msg string, statusCode int) error {
	return &Error{Kind: ErrUpstream, Message: msg, StatusCode: statusCode}
}

// UpstreamCause reports a transport level failure talking to the provider.
func UpstreamCause(msg string, cause error) error {
	return &Error{Kind: ErrUpstream, Message: msg, Err: cause}
}

func Malformed(msg string) error {
	return &Error{Kind: ErrMalformedRecord, Message: msg}
}

func Tracking(msg string, cause error) error {
	return &Error{Kind: ErrTracking, Message: msg, Err: cause}
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// PublicMessage is the part of err a client may see. The cause chain stays in
// the logs since transport errors carry upstream URLs.
func PublicMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Err != nil && isTimeout(e.Err) {
		return e.Message + ": timeout"
	}
	return e.Message
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
