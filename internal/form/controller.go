// Package form implements the validate-then-submit flow for a single form as
// an explicit state machine. Each submission attempt moves Idle -> Validating
// -> Submitting and ends in exactly one of Succeeded, ValidationFailed, or
// SubmitFailed, so every failure path is independently testable.
package form

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rcardoso/feedbase/internal/validation"
)

type State int

const (
	Idle State = iota
	Validating
	Submitting
	Succeeded
	ValidationFailed
	SubmitFailed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case ValidationFailed:
		return "validation_failed"
	case SubmitFailed:
		return "submit_failed"
	default:
		return "unknown"
	}
}

// ErrInFlight is returned when Submit is called while a previous submission
// for the same controller has not finished. The trigger should be ignored.
var ErrInFlight = errors.New("form: submission already in flight")

// RemoteError is a structured rejection from the backend. Fields carries the
// server-provided field-error map when present; Message is the global
// description otherwise.
type RemoteError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *RemoteError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("remote rejection (status %d): %d field error(s)", e.StatusCode, len(e.Fields))
	}
	return fmt.Sprintf("remote rejection (status %d): %s", e.StatusCode, e.Message)
}

// Submitter sends validated values to the backend. A nil return means
// success; a *RemoteError return is unpacked per the precedence rules; any
// other error is treated as a transport failure.
type Submitter func(ctx context.Context, values map[string]string) error

// Result is the outcome of one submission attempt. Values holds what the
// form should re-render: all entered values are preserved on failure except
// the configured clear-on-failure fields (e.g. a login password).
type Result struct {
	State       State
	FieldErrors map[string]string
	Notice      string
	Values      map[string]string
}

type Controller struct {
	schema        *validation.Schema
	submit        Submitter
	clearOnFail   []string
	failureNotice string
	inFlight      atomic.Bool
}

type Option func(*Controller)

// WithClearOnFailure names fields whose values are dropped from the
// re-render values after any failed attempt.
func WithClearOnFailure(fields ...string) Option {
	return func(c *Controller) { c.clearOnFail = fields }
}

// WithFailureNotice overrides the generic global failure message.
func WithFailureNotice(msg string) Option {
	return func(c *Controller) { c.failureNotice = msg }
}

func NewController(schema *validation.Schema, submit Submitter, opts ...Option) *Controller {
	c := &Controller{
		schema:        schema,
		submit:        submit,
		failureNotice: "Something went wrong. Please try again.",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit runs one attempt: clear prior errors, validate locally, and only if
// validation passes call the backend. Overlapping calls on the same
// controller return ErrInFlight and do nothing. A canceled context discards
// the late result so it never reaches a torn-down view.
func (c *Controller) Submit(ctx context.Context, values map[string]string) (Result, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return Result{State: Idle}, ErrInFlight
	}
	defer c.inFlight.Store(false)

	// Validating: no network call is made past this point unless the
	// schema passes with zero violations.
	if errs := c.schema.Validate(values); len(errs) > 0 {
		return c.failed(Result{State: ValidationFailed, FieldErrors: errs}, values), nil
	}

	// Submitting
	err := c.submit(ctx, values)
	if ctx.Err() != nil {
		return Result{State: Idle}, ctx.Err()
	}
	if err == nil {
		return Result{State: Succeeded, Values: copyValues(values, nil)}, nil
	}

	// Error precedence: server field map first, then server message,
	// then the generic transport-failure notice.
	var remote *RemoteError
	if errors.As(err, &remote) {
		if len(remote.Fields) > 0 {
			return c.failed(Result{State: ValidationFailed, FieldErrors: remote.Fields}, values), nil
		}
		notice := remote.Message
		if notice == "" {
			notice = c.failureNotice
		}
		return c.failed(Result{State: SubmitFailed, Notice: notice}, values), nil
	}
	return c.failed(Result{State: SubmitFailed, Notice: c.failureNotice}, values), nil
}

func (c *Controller) failed(r Result, values map[string]string) Result {
	r.Values = copyValues(values, c.clearOnFail)
	return r
}

func copyValues(values map[string]string, clear []string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = v
	}
	for _, f := range clear {
		delete(out, f)
	}
	return out
}
