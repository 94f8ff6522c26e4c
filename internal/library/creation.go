package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"bookmemo/internal/book"
	"bookmemo/internal/notify"
)

// ErrSubmitDisabled is returned by Submit when the submit action is not
// available: the input is not a 13 character ISBN or a submission is
// already in flight.
var ErrSubmitDisabled = errors.New("submit is disabled")

const (
	msgAlreadyRegistered = "already registered"
	msgNotFound          = "not found"
	msgCreateFailed      = "failed to register book"
)

type State int

const (
	StateIdle State = iota
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeCreated
	OutcomeDuplicate
	OutcomeNotFound
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeCreated:
		return "created"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Creation registers a book by ISBN-13. It is Idle or Submitting; only one
// submission is in flight at a time.
type Creation struct {
	repo      book.Repository
	notifier  notify.Notifier
	onCreated func(ctx context.Context)

	mu    sync.Mutex
	state State
	input string
	open  bool

	disposed atomic.Bool
}

// NewCreation builds an idle creation controller. onCreated runs after every
// successful registration.
func NewCreation(repo book.Repository, notifier notify.Notifier, onCreated func(ctx context.Context)) *Creation {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Creation{
		repo:      repo,
		notifier:  notifier,
		onCreated: onCreated,
	}
}

func (c *Creation) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Creation) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// SetInput replaces the ISBN input. It is ignored while submitting.
func (c *Creation) SetInput(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateSubmitting {
		return
	}
	c.input = s
}

// InputEnabled reports whether the input accepts edits.
func (c *Creation) InputEnabled() bool {
	return c.State() == StateIdle
}

// SubmitEnabled reports whether Submit would send a request.
func (c *Creation) SubmitEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitEnabledLocked()
}

func (c *Creation) submitEnabledLocked() bool {
	return c.state == StateIdle && book.ValidISBN13(c.input)
}

// Busy reports whether the busy indicator should be shown.
func (c *Creation) Busy() bool {
	return c.State() == StateSubmitting
}

// Open shows the creation surface.
func (c *Creation) Open() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = true
}

// Close hides the creation surface. The input is kept.
func (c *Creation) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
}

func (c *Creation) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Submit sends the current input. It returns ErrSubmitDisabled without any
// request when the submit action is unavailable.
func (c *Creation) Submit(ctx context.Context) (Outcome, error) {
	const op = "library.Creation.Submit"

	c.mu.Lock()
	if !c.submitEnabledLocked() {
		c.mu.Unlock()
		return OutcomeNone, ErrSubmitDisabled
	}
	c.state = StateSubmitting
	isbn := c.input
	c.mu.Unlock()

	err := c.repo.CreateBook(ctx, isbn)
	outcome := outcomeOf(err)

	// Back to Idle and, on success, cleared and closed in one step so the
	// same ISBN is never submittable again.
	c.mu.Lock()
	c.state = StateIdle
	if outcome == OutcomeCreated && !c.disposed.Load() {
		c.open = false
		c.input = ""
	}
	c.mu.Unlock()

	if c.disposed.Load() {
		return outcome, err
	}

	switch outcome {
	case OutcomeCreated:
		slog.Info("book registered", slog.String("op", op), slog.String("isbn_13", isbn))
		if c.onCreated != nil {
			c.onCreated(ctx)
		}
		return outcome, nil
	case OutcomeDuplicate:
		notify.Warn(c.notifier, msgAlreadyRegistered)
	case OutcomeNotFound:
		notify.Warn(c.notifier, msgNotFound)
	default:
		notify.Error(c.notifier, msgCreateFailed)
	}

	slog.Warn("book registration failed",
		slog.String("op", op),
		slog.String("isbn_13", isbn),
		slog.String("outcome", outcome.String()),
		slog.String("err", err.Error()),
	)
	return outcome, fmt.Errorf("%s: %w", op, err)
}

func outcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeCreated
	case errors.Is(err, book.ErrAlreadyRegistered):
		return OutcomeDuplicate
	case errors.Is(err, book.ErrNotFound):
		return OutcomeNotFound
	default:
		return OutcomeFailed
	}
}

// Dispose stops the controller from writing state or alerting.
func (c *Creation) Dispose() {
	c.disposed.Store(true)
}
