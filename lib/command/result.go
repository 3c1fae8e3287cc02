package command

import (
	"github.com/kvclabs/dkc/lib/provider"
)

// --------------------------------------------------------------------------
// Outcome
// --------------------------------------------------------------------------

// Outcome classifies how a command finished. NotFound is reserved for
// lookups whose target simply was not there; every other unsuccessful
// execution is Failed and carries the backend response codes.
type Outcome int

const (
	OutcomeFound Outcome = iota
	OutcomeNotFound
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeNotFound:
		return "not found"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// --------------------------------------------------------------------------
// Result
// --------------------------------------------------------------------------

// Result is the immutable envelope every command execution produces. The
// response code and subcode are read from the handle directly after the
// underlying call, whether it succeeded or not.
type Result[T any] struct {
	kind    string
	outcome Outcome
	value   T
	code    provider.ResCode
	subcode provider.ResSubcode
}

// Kind names the command that produced this result.
func (r Result[T]) Kind() string { return r.kind }

// Outcome reports how the command finished.
func (r Result[T]) Outcome() Outcome { return r.outcome }

// IsSuccess reports whether the underlying call completed, which includes
// lookups that found nothing.
func (r Result[T]) IsSuccess() bool { return r.outcome != OutcomeFailed }

// Value returns the typed payload and whether the command actually
// produced one (OutcomeFound).
func (r Result[T]) Value() (T, bool) {
	return r.value, r.outcome == OutcomeFound
}

// Code returns the primary backend response code.
func (r Result[T]) Code() provider.ResCode { return r.code }

// Subcode returns the detail response code.
func (r Result[T]) Subcode() provider.ResSubcode { return r.subcode }

// finish builds the result for a completed call, reading the response
// codes from the same handle the call used.
func finish[T any](kind string, p provider.Provider, h provider.Handle, outcome Outcome, value T) Result[T] {
	r := Result[T]{
		kind:    kind,
		outcome: outcome,
		value:   value,
		code:    p.ResCode(h),
		subcode: p.ResSubcode(h),
	}
	if outcome == OutcomeFailed {
		Logger.Warningf("%s failed (code %s, subcode %s)", kind, r.code, r.subcode)
	}
	return r
}

// outcomeOf maps the provider call convention (err, found) onto an Outcome.
func outcomeOf(err error, found bool) Outcome {
	switch {
	case err != nil:
		return OutcomeFailed
	case !found:
		return OutcomeNotFound
	default:
		return OutcomeFound
	}
}
