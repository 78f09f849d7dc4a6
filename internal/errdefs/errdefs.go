// Package errdefs defines the error taxonomy shared across nodeops.
//
// Validation and document errors wrap ErrInvalidInput, missing documents and
// resources wrap ErrNotFound, and collaborator failures carry their own typed
// errors so callers can decide retry/abort with errors.Is and errors.As.
package errdefs

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound indicates a document or resource that is absent where absence
// is not itself a valid state.
var ErrNotFound = errors.New("not found")

// ErrInvalidInput indicates a user-correctable validation violation or a
// malformed document.
var ErrInvalidInput = errors.New("invalid input")

// NotFoundf returns an error wrapping ErrNotFound with a formatted message.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// InvalidInputf returns an error wrapping ErrInvalidInput with a formatted
// message naming the offending field or value.
func InvalidInputf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// ProviderError indicates a collaborator rejected a request. It is surfaced
// with the collaborator's message and is never retried by the layer that
// returns it.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider rejected %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsProvider reports whether err is a ProviderError.
func IsProvider(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// TimeoutError indicates a deadline elapsed while polling. LastStatus carries
// the most recently observed state so callers can decide retry/abort.
type TimeoutError struct {
	Name       string
	LastStatus string
	Elapsed    time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting on %q (last status %q)", e.Elapsed, e.Name, e.LastStatus)
}

// IsTimeout reports whether err is a TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// DecodeError indicates a malformed discovery token or report. Stage names
// the codec stage that failed (base58, zstd, yaml, json).
type DecodeError struct {
	Stage string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode failed at %s stage: %v", e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsDecode reports whether err is a DecodeError.
func IsDecode(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// ParseError indicates a storage path that is not a valid per-node discovery
// entry. The path is always carried so that "corrupt entry" never collapses
// into "no node present".
type ParseError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot parse node from %q: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("cannot parse node from %q: %s", e.Path, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParse reports whether err is a ParseError.
func IsParse(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
