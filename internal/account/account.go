// Package account drives the login, create-account and logout flows.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"bookmemo/internal/apiclient"
	"bookmemo/internal/notify"
	"bookmemo/internal/session"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidInput is returned before any request when the credentials
	// fail validation.
	ErrInvalidInput = errors.New("invalid credentials input")
	// ErrBusy is returned while another account request is in flight.
	ErrBusy = errors.New("account request in flight")
)

const (
	msgInputWrong  = "one of the inputs is wrong, please try again"
	msgServerError = "an error occurred, please try again later"
	msgLogoutError = "failed to log out"
)

// Authenticator is the collaborator's account surface.
type Authenticator interface {
	Login(ctx context.Context, email, password string) error
	CreateAccount(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
}

// Credentials is what the login and create-account forms submit.
type Credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

var validate = validator.New()

// Validate returns one message per failing field.
func (c Credentials) Validate() []string {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email address")
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return msgs
}

type Controller struct {
	auth      Authenticator
	navigator session.Navigator
	notifier  notify.Notifier

	mu   sync.Mutex
	busy bool
}

func NewController(auth Authenticator, navigator session.Navigator, notifier notify.Notifier) *Controller {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Controller{auth: auth, navigator: navigator, notifier: notifier}
}

// Busy reports whether a request is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Login signs in and moves to the library page on success.
func (c *Controller) Login(ctx context.Context, creds Credentials) error {
	return c.submit(ctx, "account.Controller.Login", creds, c.auth.Login)
}

// CreateAccount registers, which also signs in, and moves to the library page.
func (c *Controller) CreateAccount(ctx context.Context, creds Credentials) error {
	return c.submit(ctx, "account.Controller.CreateAccount", creds, c.auth.CreateAccount)
}

func (c *Controller) submit(ctx context.Context, op string, creds Credentials, call func(ctx context.Context, email, password string) error) error {
	if msgs := creds.Validate(); len(msgs) > 0 {
		notify.Warn(c.notifier, strings.Join(msgs, "\n"))
		return fmt.Errorf("%s: %w: %s", op, ErrInvalidInput, strings.Join(msgs, "; "))
	}

	if !c.begin() {
		return ErrBusy
	}
	err := call(ctx, creds.Email, creds.Password)
	c.end()

	if err != nil {
		slog.Warn("account request failed", slog.String("op", op), slog.String("err", err.Error()))
		c.report(err)
		return fmt.Errorf("%s: %w", op, err)
	}

	slog.Info("signed in", slog.String("op", op))
	c.redirect(session.PageLibrary)
	return nil
}

// report turns a failed login or signup into alerts. Client errors get the
// input-wrong message plus the collaborator's own explanation when present.
func (c *Controller) report(err error) {
	code := apiclient.StatusCode(err)
	if code == 0 || code >= 500 {
		notify.Error(c.notifier, msgServerError)
		return
	}
	notify.Warn(c.notifier, msgInputWrong)
	if msg := apiclient.ServerMessage(err); msg != "" {
		notify.Info(c.notifier, msg)
	}
}

// Logout ends the session and moves to the login page.
func (c *Controller) Logout(ctx context.Context) error {
	const op = "account.Controller.Logout"

	if !c.begin() {
		return ErrBusy
	}
	err := c.auth.Logout(ctx)
	c.end()

	if err != nil {
		slog.Warn("logout failed", slog.String("op", op), slog.String("err", err.Error()))
		notify.Error(c.notifier, msgLogoutError)
		return fmt.Errorf("%s: %w", op, err)
	}
	c.redirect(session.PageLogin)
	return nil
}

func (c *Controller) begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return false
	}
	c.busy = true
	return true
}

func (c *Controller) end() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
}

func (c *Controller) redirect(page session.Page) {
	if c.navigator != nil {
		c.navigator.Redirect(page)
	}
}
