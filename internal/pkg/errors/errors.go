package errors

import (
	stderrors "errors"
	"fmt"
)

// Codes for every failure the generator knows how to name.
const (
	CodeDataUnavailable      = "DATA_UNAVAILABLE"
	CodeEntryDocumentMissing = "ENTRY_DOCUMENT_MISSING"
	CodeRecordParseDrift     = "RECORD_PARSE_DRIFT"
	CodeInvalidRecord        = "INVALID_RECORD"
	CodeFileWriteFailure     = "FILE_WRITE_FAILURE"
	CodeInvalidConfig        = "INVALID_CONFIG"
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any *AppError carrying the same code, so callers can compare
// against the sentinels below with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap attaches a cause to a fresh error with the given code.
func Wrap(code, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

var (
	ErrDataUnavailable = New(
		CodeDataUnavailable,
		"no usable mosque records found",
	)

	ErrEntryDocumentMissing = New(
		CodeEntryDocumentMissing,
		"entry document not found; build the application bundle first",
	)

	ErrInvalidRecord = New(
		CodeInvalidRecord,
		"mosque record failed validation",
	)

	ErrFileWriteFailure = New(
		CodeFileWriteFailure,
		"writing output file failed",
	)

	ErrInvalidConfig = New(
		CodeInvalidConfig,
		"invalid configuration",
	)
)

// CodeOf returns the code of the first *AppError in err's chain, or "".
func CodeOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
