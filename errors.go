package worldpack

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// CodecError is the error type returned by every package in this module. Each
// error derives from one of the roots below, so callers can classify a failure
// with [errors.Is] no matter how much context was layered on top of it.
type CodecError interface {
	error
	WithMessage(message string) CodecError
	Wrap(err error) CodecError
}

type baseCodecError string

const rootError = baseCodecError("")

// Fatal conditions. Any of these aborts the operation and no output is written.
var ErrConfig = rootError.WithMessage("Invalid configuration")
var ErrTruncatedStream = rootError.WithMessage("Bitstream truncated")
var ErrShortHeader = rootError.WithMessage("Container shorter than header")
var ErrMissingTrailer = rootError.WithMessage("Extras length missing")
var ErrInvalidArgument = rootError.WithMessage("Invalid argument")
var ErrIOFailed = rootError.WithMessage("Input/output error")
var ErrAlreadyInProgress = rootError.WithMessage("Operation already in progress")

// Recoverable conditions. Decoding carries on and these only show up in the
// warnings of a decode report.
var ErrMarkerAbsent = rootError.WithMessage("End-of-stream marker not found")
var ErrExtrasShortfall = rootError.WithMessage("Extras pool has fewer chunks than literal slots")

func (e baseCodecError) Error() string {
	return string(e)
}

func (e baseCodecError) RootCause() CodecError {
	return e
}

func (e baseCodecError) WithMessage(message string) CodecError {
	return customCodecError{
		message:       message,
		originalError: e,
	}
}

func (e baseCodecError) Wrap(err error) CodecError {
	return customCodecError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

// -----------------------------------------------------------------------------

type customCodecError struct {
	message       string
	originalError error
}

// Error implements the `error` object interface. When called, it returns a string
// describing the error.
func (e customCodecError) Error() string {
	return e.message
}

func (e customCodecError) WithMessage(message string) CodecError {
	return customCodecError{
		message:       fmt.Sprintf("%s: %s", e.message, message),
		originalError: e,
	}
}

func (e customCodecError) Wrap(err error) CodecError {
	return customCodecError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

func (e customCodecError) Unwrap() error {
	return e.originalError
}
