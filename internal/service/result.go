package service

import appErrors "github.com/noah-isme/inteduweb-admin/pkg/errors"

// Phase is the lifecycle stage of one command.
type Phase string

const (
	// PhasePending means nothing has settled; an ignored command stays pending.
	PhasePending  Phase = ""
	PhaseOK       Phase = "ok"
	PhaseFailed   Phase = "failed"
	PhaseCanceled Phase = "canceled"
)

// Result is what a command hands back to its caller.
type Result[V any] struct {
	Phase Phase
	Value V
	Err   error
}

// OK reports a successful command.
func (r Result[V]) OK() bool {
	return r.Phase == PhaseOK
}

// Message is the user-facing failure text, empty unless the command failed.
func (r Result[V]) Message() string {
	if r.Phase != PhaseFailed {
		return ""
	}
	return appErrors.Message(r.Err)
}

func ok[V any](value V) Result[V] {
	return Result[V]{Phase: PhaseOK, Value: value}
}

func failed[V any](err error) Result[V] {
	return Result[V]{Phase: PhaseFailed, Err: err}
}

func canceled[V any](err error) Result[V] {
	return Result[V]{Phase: PhaseCanceled, Err: err}
}
