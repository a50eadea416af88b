package capability

import "encoding/json"

// Status classifies the outcome of one external capability call.
type Status int

const (
	StatusOK Status = iota
	StatusError
	StatusMalformed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusError:
		return "error"
	case StatusMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Result is the tagged union every capability call is coerced into before the
// orchestrator inspects it: a success payload, a structured error, or
// malformed model output. Phase transitions never depend on parsing ad hoc
// text.
type Result[T any] struct {
	Status  Status
	Payload T
	Err     error
	Raw     json.RawMessage // original model output, kept for malformed diagnostics
}

// OK reports whether the payload is usable.
func (r Result[T]) OK() bool { return r.Status == StatusOK }

// Success wraps a usable payload.
func Success[T any](v T) Result[T] {
	return Result[T]{Status: StatusOK, Payload: v}
}

// Failure wraps a transport/timeout/provider error.
func Failure[T any](err error) Result[T] {
	return Result[T]{Status: StatusError, Err: err}
}

// Malformed wraps model output that did not parse or violated the capability
// contract.
func Malformed[T any](raw json.RawMessage, err error) Result[T] {
	return Result[T]{Status: StatusMalformed, Err: err, Raw: raw}
}
