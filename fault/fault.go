// Package fault defines the closed set of errors returned by the video resolution pipeline.
//
// Every error produced by the pipeline is a *Error whose Unwrap yields exactly one
// of the sentinel kinds below, so callers can match with errors.Is without knowing
// anything about the underlying transport or JSON decoder.
package fault

import (
	"context"
	"errors"
	"fmt"
	"net"
	"regexp"
)

// Families.
var (
	ErrExtraction       = errors.New("state extraction failed")
	ErrStreamResolution = errors.New("stream resolution failed")
)

// Kinds. The extraction and stream kinds wrap their family, so
// errors.Is(err, ErrExtraction) holds for both ErrFormatNotFound and ErrMalformedState.
var (
	ErrTransport         = errors.New("transport failure")
	ErrFormatNotFound    = fmt.Errorf("%w: embedded state not found", ErrExtraction)
	ErrMalformedState    = fmt.Errorf("%w: malformed embedded state", ErrExtraction)
	ErrKeyResolution     = errors.New("access key resolution failed")
	ErrNotCurrentlyLive  = fmt.Errorf("%w: video is not currently live", ErrStreamResolution)
	ErrMetadataMalformed = fmt.Errorf("%w: streaming metadata malformed", ErrStreamResolution)
)

// Kinds lists every leaf kind, in pipeline order.
var Kinds = []error{
	ErrTransport,
	ErrFormatNotFound,
	ErrMalformedState,
	ErrKeyResolution,
	ErrNotCurrentlyLive,
	ErrMetadataMalformed,
}

// Stage identifies the pipeline step an error was raised in.
type Stage string

const (
	StageFetching     Stage = "fetching"
	StageExtracting   Stage = "extracting"
	StageResolvingKey Stage = "resolving-key"
	StageAssembling   Stage = "assembling"
)

// maxBody caps how much of an upstream body is kept in an error message.
const maxBody = 256

// Error wraps a kind sentinel with the context needed to diagnose it.
type Error struct {
	Kind   error
	Stage  Stage
	Op     string // e.g. "inkey", or the extraction strategy that matched
	Status int
	Body   string
	Err    error // lower-level cause, kept for the message only
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("vlive: %s: %v", e.Stage, e.Kind)
	if e.Op != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Op)
	}
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s", msg, Redact(e.Err.Error()))
	}
	return msg
}

// Unwrap exposes only the kind sentinel; the cause is deliberately not reachable.
func (e *Error) Unwrap() error {
	return e.Kind
}

// New builds an *Error of the given kind.
func New(kind error, stage Stage, op string, cause error) *Error {
	return &Error{Kind: kind, Stage: stage, Op: op, Err: cause}
}

// Status builds an *Error describing an unexpected upstream status code.
func Status(kind error, stage Stage, op string, status int, body []byte) *Error {
	return &Error{Kind: kind, Stage: stage, Op: op, Status: status, Body: snippet(body)}
}

// Transport classifies a failed round-trip. Timeouts and cancellations are
// deliberately folded into ErrTransport.
func Transport(stage Stage, op string, cause error) *Error {
	var fe *Error
	if errors.As(cause, &fe) {
		return fe
	}
	return New(ErrTransport, stage, op, cause)
}

// IsTimeout reports whether err came from a deadline, context or network timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// Timeout reports whether the cause of e was a timeout or a cancellation.
func (e *Error) Timeout() bool {
	return e.Err != nil && IsTimeout(e.Err)
}

// KindOf returns the leaf kind of err, or nil if err is not a pipeline error.
func KindOf(err error) error {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return nil
}

// StageOf returns the stage err was raised in, or "" if err is not a pipeline error.
func StageOf(err error) Stage {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Stage
	}
	return ""
}

// Retryable reports whether a caller-level retry of the whole pipeline may help.
func Retryable(err error) bool {
	return errors.Is(err, ErrTransport) || errors.Is(err, ErrKeyResolution)
}

var secretPattern = regexp.MustCompile(`(?i)("?(?:inkey|key|__gda__)"?\s*[=:]\s*"?)([^"&\s,}]+)`)

// Redact masks access keys in s.
func Redact(s string) string {
	return secretPattern.ReplaceAllString(s, "${1}[REDACTED]")
}

func snippet(body []byte) string {
	s := string(body)
	if len(s) > maxBody {
		s = s[:maxBody] + "..."
	}
	return Redact(s)
}
