package domain

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeUnavailable     ErrorCode = "UNAVAILABLE"
	CodeMalformed       ErrorCode = "MALFORMED"
	CodeAlreadyExists   ErrorCode = "ALREADY_EXISTS"
	CodeInternal        ErrorCode = "INTERNAL"
)

// Sentinel errors crossing the adapter and registry boundaries. Only
// ErrUnknownTool and ErrDuplicateTool may surface to callers untranslated;
// the rest are classified into Resolution statuses by the tool layer.
var (
	ErrUnknownTool       = errors.New("unknown tool")
	ErrDuplicateTool     = errors.New("duplicate tool")
	ErrRegistryFrozen    = errors.New("registry frozen")
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrSourceMalformed   = errors.New("source malformed")
	ErrNotFound          = errors.New("not found")
)

type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.Op == "" {
		if msg == "" {
			return string(e.Code)
		}
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	if msg == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, msg)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func E(code ErrorCode, op, msg string, cause error) *Error {
	if msg == "" && cause != nil {
		msg = cause.Error()
	}
	return &Error{
		Code:    code,
		Op:      op,
		Message: msg,
		Cause:   cause,
	}
}

func Wrap(code ErrorCode, op string, err error) *Error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		if existing.Op != "" || op == "" {
			return existing
		}
		return &Error{
			Code:    existing.Code,
			Op:      op,
			Message: existing.Message,
			Cause:   existing.Cause,
		}
	}
	return E(code, op, "", err)
}

func CodeFrom(err error) (ErrorCode, bool) {
	if err == nil {
		return "", false
	}
	var domainErr *Error
	if errors.As(err, &domainErr) && domainErr.Code != "" {
		return domainErr.Code, true
	}
	switch {
	case errors.Is(err, ErrUnknownTool), errors.Is(err, ErrNotFound):
		return CodeNotFound, true
	case errors.Is(err, ErrDuplicateTool), errors.Is(err, ErrRegistryFrozen):
		return CodeAlreadyExists, true
	case errors.Is(err, ErrSourceUnavailable):
		return CodeUnavailable, true
	case errors.Is(err, ErrSourceMalformed):
		return CodeMalformed, true
	default:
		return "", false
	}
}
