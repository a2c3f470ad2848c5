package custerror

import (
	"context"
	"errors"
	"fmt"
)

const (
	CodeInternal uint32 = iota + 1
	CodeInvalidArgument
	CodeAlreadyExists
	CodePermissionDenied
	CodeNotFound
	CodeAmbiguous
	CodeUnsupported
	CodeNoHandler
	CodeUnavailable
	CodeUpstream
	CodeTimeout
)

var codeNames = map[uint32]string{
	CodeInternal:         "Internal",
	CodeInvalidArgument:  "InvalidArgument",
	CodeAlreadyExists:    "AlreadyExists",
	CodePermissionDenied: "Denied",
	CodeNotFound:         "NotFound",
	CodeAmbiguous:        "Ambiguous",
	CodeUnsupported:      "Unsupported",
	CodeNoHandler:        "NoHandler",
	CodeUnavailable:      "UpstreamUnavailable",
	CodeUpstream:         "UpstreamError",
	CodeTimeout:          "Timeout",
}

type CustomError struct {
	Code    uint32
	Message string
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%s: %s", CodeName(e.Code), e.Message)
}

// Is matches on code only, so a formatted error matches its sentinel.
func (e *CustomError) Is(target error) bool {
	var t *CustomError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func CodeName(code uint32) string {
	name, found := codeNames[code]
	if !found {
		return "Unknown"
	}
	return name
}

func NewError(code uint32, msg string) *CustomError {
	return &CustomError{Code: code, Message: msg}
}

var (
	ErrorInternal         = NewError(CodeInternal, "internal error")
	ErrorInvalidArgument  = NewError(CodeInvalidArgument, "invalid argument")
	ErrorAlreadyExists    = NewError(CodeAlreadyExists, "already exists")
	ErrorPermissionDenied = NewError(CodePermissionDenied, "permission denied")
	ErrorNotFound         = NewError(CodeNotFound, "not found")
	ErrorAmbiguous        = NewError(CodeAmbiguous, "ambiguous selection")
	ErrorUnsupported      = NewError(CodeUnsupported, "unsupported")
	ErrorNoHandler        = NewError(CodeNoHandler, "no handler registered")
	ErrorUnavailable      = NewError(CodeUnavailable, "upstream unavailable")
	ErrorUpstream         = NewError(CodeUpstream, "upstream error")
	ErrorTimeout          = NewError(CodeTimeout, "timeout")
)

func FormatInternalError(format string, args ...interface{}) error {
	return NewError(CodeInternal, fmt.Sprintf(format, args...))
}

func FormatInvalidArgument(format string, args ...interface{}) error {
	return NewError(CodeInvalidArgument, fmt.Sprintf(format, args...))
}

func FormatAlreadyExists(format string, args ...interface{}) error {
	return NewError(CodeAlreadyExists, fmt.Sprintf(format, args...))
}

func FormatPermissionDenied(format string, args ...interface{}) error {
	return NewError(CodePermissionDenied, fmt.Sprintf(format, args...))
}

func FormatNotFound(format string, args ...interface{}) error {
	return NewError(CodeNotFound, fmt.Sprintf(format, args...))
}

func FormatAmbiguous(format string, args ...interface{}) error {
	return NewError(CodeAmbiguous, fmt.Sprintf(format, args...))
}

func FormatUnsupported(format string, args ...interface{}) error {
	return NewError(CodeUnsupported, fmt.Sprintf(format, args...))
}

func FormatNoHandler(format string, args ...interface{}) error {
	return NewError(CodeNoHandler, fmt.Sprintf(format, args...))
}

func FormatUnavailable(format string, args ...interface{}) error {
	return NewError(CodeUnavailable, fmt.Sprintf(format, args...))
}

func FormatUpstream(format string, args ...interface{}) error {
	return NewError(CodeUpstream, fmt.Sprintf(format, args...))
}

func FormatTimeout(format string, args ...interface{}) error {
	return NewError(CodeTimeout, fmt.Sprintf(format, args...))
}

// Classify maps any error onto the coded taxonomy. Uncoded errors are treated
// as upstream failures, deadline errors as timeouts.
func Classify(err error) *CustomError {
	if err == nil {
		return nil
	}
	var custErr *CustomError
	if errors.As(err, &custErr) {
		return custErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(CodeTimeout, err.Error())
	}
	if errors.Is(err, context.Canceled) {
		return NewError(CodeUnavailable, err.Error())
	}
	return NewError(CodeUpstream, err.Error())
}

func CodeOf(err error) uint32 {
	if c := Classify(err); c != nil {
		return c.Code
	}
	return 0
}
