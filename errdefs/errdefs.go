// Package errdefs defines the error kinds shared by tool handlers and transports.
//
// Handlers wrap one of the sentinels with %w so callers can classify a failure
// with errors.Is without depending on the package that produced it.
package errdefs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput reports a missing or malformed tool argument.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDownload reports a failed fetch or a response that is not a PDF.
	ErrDownload = errors.New("download failed")
	// ErrExtraction reports a document with no recoverable text.
	ErrExtraction = errors.New("text extraction failed")
	// ErrUpstream reports an unconfigured or failing external API.
	ErrUpstream = errors.New("upstream error")
	// ErrEmptyResponse reports a provider reply with no usable candidate.
	ErrEmptyResponse = errors.New("empty response")
)

var kinds = []error{ErrInvalidInput, ErrDownload, ErrExtraction, ErrUpstream, ErrEmptyResponse}

// InvalidInput returns an ErrInvalidInput carrying a formatted message.
func InvalidInput(format string, args ...any) error {
	return &kindError{kind: ErrInvalidInput, msg: fmt.Sprintf(format, args...)}
}

// Download wraps err as an ErrDownload.
func Download(msg string, err error) error {
	return &kindError{kind: ErrDownload, msg: msg, err: err}
}

// Extraction wraps err as an ErrExtraction.
func Extraction(msg string, err error) error {
	return &kindError{kind: ErrExtraction, msg: msg, err: err}
}

// Upstream wraps err as an ErrUpstream.
func Upstream(msg string, err error) error {
	return &kindError{kind: ErrUpstream, msg: msg, err: err}
}

// EmptyResponse returns an ErrEmptyResponse carrying msg.
func EmptyResponse(msg string) error {
	return &kindError{kind: ErrEmptyResponse, msg: msg}
}

// IsKnown reports whether err belongs to one of the handler error kinds.
// Anything else reaching a transport is treated as an internal fault.
func IsKnown(err error) bool {
	return Kind(err) != nil
}

// Kind returns the sentinel err was classified with, or nil.
func Kind(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// kindError keeps the user-facing message separate from the sentinel so that
// Error() reads naturally ("url is required") while errors.Is still matches.
type kindError struct {
	kind error
	msg  string
	err  error
}

func (e *kindError) Error() string {
	switch {
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	default:
		return e.kind.Error()
	}
}

func (e *kindError) Is(target error) bool { return target == e.kind }

func (e *kindError) Unwrap() error { return e.err }
