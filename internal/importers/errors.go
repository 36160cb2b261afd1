package importers

import (
	"errors"
	"fmt"
)

// Request-level failure kinds. They abort an import before any record is
// written and are matched with errors.Is.
var (
	ErrPayloadTooLarge = errors.New("payload too large")
	ErrMalformedFormat = errors.New("malformed format")
	ErrTooManyRecords  = errors.New("too many records")
)

// Reason distinguishes request-level failures that share a kind.
type Reason string

const (
	ReasonTooLarge Reason = "too_large"
	ReasonNoArray  Reason = "no_array"
	ReasonSyntax   Reason = "syntax"
	ReasonNotArray Reason = "not_array"
	ReasonTooMany  Reason = "too_many"
)

// ImportError is returned by Pipeline.Import when the upload as a whole is
// rejected.
type ImportError struct {
	Kind   error
	Reason Reason
	Detail string
	Err    error
}

func (e *ImportError) Error() string {
	msg := e.Kind.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ImportError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func payloadTooLarge(size, limit int64) *ImportError {
	return &ImportError{
		Kind:   ErrPayloadTooLarge,
		Reason: ReasonTooLarge,
		Detail: fmt.Sprintf("%d bytes exceeds the %d byte limit", size, limit),
	}
}

func malformed(reason Reason, detail string, err error) *ImportError {
	return &ImportError{Kind: ErrMalformedFormat, Reason: reason, Detail: detail, Err: err}
}

func tooManyRecords(count, limit int) *ImportError {
	return &ImportError{
		Kind:   ErrTooManyRecords,
		Reason: ReasonTooMany,
		Detail: fmt.Sprintf("%d records exceeds the limit of %d", count, limit),
	}
}
