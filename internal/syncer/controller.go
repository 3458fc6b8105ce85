package syncer

import (
	"context"
	"io"
	"log/slog"
)

// Updater applies a transition to a state of type S. fn receives a copy of the
// current state and reports whether it changed anything; only then is the
// copy published. Implementations must serialize calls.
type Updater[S any] interface {
	Update(fn func(*S) bool) bool
}

// FetchFunc performs the remote call. It receives the state as it was right
// after the request was issued.
type FetchFunc[S, T any] func(ctx context.Context, s S) (T, error)

// Config wires a Controller.
type Config[S, T any] struct {
	// Name labels log lines, e.g. "posts".
	Name string
	// Store holds the state the tracker lives in.
	Store Updater[S]
	// Tracker locates this controller's tracker inside the state.
	Tracker func(*S) *Tracker
	// Fetch is the default remote call used by Sync.
	Fetch FetchFunc[S, T]
	// Apply merges successful data into the state.
	Apply  func(s *S, data T)
	Logger *slog.Logger
}

// Controller drives a Tracker around a remote fetch.
//
// Overlapping requests supersede each other: a Request while loading issues a
// new ticket and the older completion is discarded when it arrives.
type Controller[S, T any] struct {
	name    string
	store   Updater[S]
	tracker func(*S) *Tracker
	fetch   FetchFunc[S, T]
	apply   func(*S, T)
	logger  *slog.Logger
}

// Outcome describes how one Sync ended.
type Outcome struct {
	Ticket Ticket
	// Applied is true when the completion was current and changed state.
	Applied bool
	// Err is the fetch error, if any, whether or not it was applied.
	Err error
}

// Stale reports whether the completion was discarded by fencing. An outcome
// with no ticket never issued a request and is not stale.
func (o Outcome) Stale() bool { return o.Ticket != 0 && !o.Applied }

// New builds a Controller.
func New[S, T any](cfg Config[S, T]) *Controller[S, T] {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	apply := cfg.Apply
	if apply == nil {
		apply = func(*S, T) {}
	}
	return &Controller[S, T]{
		name:    cfg.Name,
		store:   cfg.Store,
		tracker: cfg.Tracker,
		fetch:   cfg.Fetch,
		apply:   apply,
		logger:  logger.With("resource", cfg.Name),
	}
}

// Request moves the tracker to loading and returns the new ticket.
func (c *Controller[S, T]) Request() Ticket {
	tk, _ := c.request()
	return tk
}

func (c *Controller[S, T]) request() (Ticket, S) {
	var (
		tk   Ticket
		snap S
	)
	c.store.Update(func(s *S) bool {
		tr := c.tracker(s)
		*tr, tk = tr.Begin()
		snap = *s
		return true
	})
	c.logger.Debug("sync requested", "ticket", tk)
	return tk, snap
}

// Resolve applies data and moves to succeeded if tk is still current.
func (c *Controller[S, T]) Resolve(tk Ticket, data T) bool {
	applied := c.store.Update(func(s *S) bool {
		tr := c.tracker(s)
		next, ok := tr.Succeed(tk)
		if !ok {
			return false
		}
		*tr = next
		c.apply(s, data)
		return true
	})
	if !applied {
		c.logger.Debug("discarding stale response", "ticket", tk)
		return false
	}
	c.logger.Debug("sync succeeded", "ticket", tk)
	return true
}

// Reject records err and moves to failed if tk is still current. Existing
// data is left as it was.
func (c *Controller[S, T]) Reject(tk Ticket, err error) bool {
	applied := c.store.Update(func(s *S) bool {
		tr := c.tracker(s)
		next, ok := tr.Fail(tk, err)
		if !ok {
			return false
		}
		*tr = next
		return true
	})
	if !applied {
		c.logger.Debug("discarding stale failure", "ticket", tk, "error", err)
		return false
	}
	c.logger.Warn("sync failed", "ticket", tk, "error", err)
	return true
}

// Sync runs the configured fetch through Request and Resolve or Reject.
func (c *Controller[S, T]) Sync(ctx context.Context) Outcome {
	return c.Run(ctx, c.fetch)
}

// Run is Sync with an explicit fetch, for requests that carry arguments.
func (c *Controller[S, T]) Run(ctx context.Context, fetch FetchFunc[S, T]) Outcome {
	tk, snap := c.request()
	if fetch == nil {
		err := errNoFetch
		return Outcome{Ticket: tk, Applied: c.Reject(tk, err), Err: err}
	}
	data, err := fetch(ctx, snap)
	if err != nil {
		return Outcome{Ticket: tk, Applied: c.Reject(tk, err), Err: err}
	}
	return Outcome{Ticket: tk, Applied: c.Resolve(tk, data)}
}
