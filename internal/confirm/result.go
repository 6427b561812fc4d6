package confirm

import (
	"fmt"
)

// Awaitable is the pending result of an asynchronous confirm handler.
// The handler's work is finished when a value is received or the channel is
// closed; a non-nil error marks it as failed.
type Awaitable <-chan error

// Async runs fn on its own goroutine and returns its result as an Awaitable.
// A panic inside fn is reported as an error.
func Async(fn func() error) Awaitable {
	ch := make(chan error, 1)
	go func() {
		defer close(ch)
		defer func() {
			if r := recover(); r != nil {
				ch <- fmt.Errorf("handler panicked: %v", r)
			}
		}()
		ch <- fn()
	}()
	return ch
}

// Resolved returns an Awaitable that is already complete with err.
func Resolved(err error) Awaitable {
	ch := make(chan error, 1)
	ch <- err
	close(ch)
	return ch
}

// ConfirmFunc handles confirmation. Returning a non-nil Awaitable keeps the
// dialog open in a loading state until it resolves.
type ConfirmFunc func(h *Handle) (Awaitable, error)

// CancelFunc handles cancellation. It is never awaited.
type CancelFunc func(h *Handle) error

// DecisionFunc receives both outcomes through one callback.
type DecisionFunc func(confirmed bool, h *Handle) (Awaitable, error)

// ResultChannel is how a request reports its outcome: either Unified or Split.
// It is chosen once, when the request is built.
type ResultChannel interface {
	resultChannel()
}

// Unified reports both outcomes through Fn.
type Unified struct {
	Fn DecisionFunc
}

// Split reports confirmation and cancellation through separate handlers.
// Either may be nil.
type Split struct {
	OnConfirm ConfirmFunc
	OnCancel  CancelFunc
}

func (Unified) resultChannel() {}
func (Split) resultChannel()   {}

func (h *Handle) invokeConfirm() (aw Awaitable, err error) {
	defer func() {
		if r := recover(); r != nil {
			aw, err = nil, fmt.Errorf("confirm handler panicked: %v", r)
		}
	}()

	switch rc := h.req.Result.(type) {
	case Split:
		if rc.OnConfirm != nil {
			return rc.OnConfirm(h)
		}
	case Unified:
		if rc.Fn != nil {
			return rc.Fn(true, h)
		}
	}
	return nil, nil
}

func (h *Handle) invokeCancel() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cancel handler panicked: %v", r)
		}
	}()

	switch rc := h.req.Result.(type) {
	case Split:
		if rc.OnCancel != nil {
			return rc.OnCancel(h)
		}
	case Unified:
		if rc.Fn != nil {
			// Cancellation never waits on the returned Awaitable.
			_, err := rc.Fn(false, h)
			return err
		}
	}
	return nil
}
