package syncer

import "errors"

// Status is the lifecycle phase of a remote resource.
type Status int

const (
	Idle Status = iota
	Loading
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Ticket identifies one issued request. Tickets increase monotonically per
// tracker; the zero ticket is never issued.
type Ticket uint64

var (
	errUnknown = errors.New("unknown error")
	errNoFetch = errors.New("no fetch configured")
)

// Tracker is the value-typed state machine behind a Controller:
//
//	idle --Begin--> loading --Succeed--> succeeded
//	                loading --Fail-----> failed
//	succeeded|failed|loading --Begin--> loading (new ticket)
//
// Succeed and Fail only take effect for the most recently issued ticket while
// loading. Anything else is a stale completion and is reported as rejected.
type Tracker struct {
	status Status
	err    error
	latest Ticket
}

// Status returns the current phase.
func (t Tracker) Status() Status { return t.status }

// Err returns the error recorded by the last failure. It is nil after a
// success and may still hold the previous failure while loading.
func (t Tracker) Err() error { return t.err }

// Loading reports whether a request is in flight.
func (t Tracker) Loading() bool { return t.status == Loading }

// Latest returns the most recently issued ticket.
func (t Tracker) Latest() Ticket { return t.latest }

// Begin issues a new ticket and moves to loading. Any ticket issued before it
// becomes stale.
func (t Tracker) Begin() (Tracker, Ticket) {
	t.latest++
	t.status = Loading
	return t, t.latest
}

// Succeed moves to succeeded and clears the error when tk is current.
func (t Tracker) Succeed(tk Ticket) (Tracker, bool) {
	if !t.current(tk) {
		return t, false
	}
	t.status = Succeeded
	t.err = nil
	return t, true
}

// Fail moves to failed and records err when tk is current. A nil err is
// recorded as a generic error so that a failed tracker always carries one.
func (t Tracker) Fail(tk Ticket, err error) (Tracker, bool) {
	if !t.current(tk) {
		return t, false
	}
	if err == nil {
		err = errUnknown
	}
	t.status = Failed
	t.err = err
	return t, true
}

func (t Tracker) current(tk Ticket) bool {
	return t.status == Loading && tk != 0 && tk == t.latest
}
