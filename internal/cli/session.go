package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"bookmemo/internal/account"
	"bookmemo/internal/apiclient"
	"bookmemo/internal/notify"
	"bookmemo/internal/session"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// alerts collects controller alerts for a single command. In text mode they
// are echoed to the diagnostics writer as they arrive.
type alerts struct {
	notify.Recorder
	echo io.Writer
}

func (a *alerts) Notify(msg notify.Message) {
	a.Recorder.Notify(msg)
	if a.echo != nil {
		writeLine(a.echo, "%s: %s", msg.Level, msg.Text)
	}
}

// Texts returns the recorded alert texts in order.
func (a *alerts) Texts() []string {
	msgs := a.Messages()
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Text)
	}
	return out
}

func (o *RootOptions) newAlerts(f *OutputFormatter) *alerts {
	a := &alerts{}
	if f.Format != "json" {
		a.echo = f.errWriter()
	}
	return a
}

// failWithAlerts reports err. Text mode has already echoed any alerts, so
// fallback is printed only when there were none. JSON output joins them into
// the error message.
func failWithAlerts(f *OutputFormatter, a *alerts, exitCode int, code, fallback string, err error) error {
	if f.Format != "json" && len(a.Messages()) > 0 {
		return WrapExitError(exitCode, fallback, err)
	}
	msg := fallback
	if texts := a.Texts(); len(texts) > 0 {
		msg = strings.Join(texts, "; ")
	}
	return f.Fail(exitCode, code, msg, err)
}

// credentials returns the configured email and password, prompting for the
// missing ones when stdin is a terminal.
func (o *RootOptions) credentials(ctx context.Context, title string) (account.Credentials, error) {
	creds := account.Credentials{Email: o.Config.Email, Password: o.Config.Password}
	if creds.Email != "" && creds.Password != "" {
		return creds, nil
	}
	if o.Interactive == nil || !o.Interactive() {
		return creds, NewExitError(ExitCommandError, "email and password are required (set BOOKMEMO_EMAIL and BOOKMEMO_PASSWORD or pass --email/--password)")
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Description("Email").
				Value(&creds.Email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&creds.Password),
		),
	)
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return creds, NewExitError(ExitCommandError, "cancelled")
		}
		return creds, fmt.Errorf("credentials prompt: %w", err)
	}
	return creds, nil
}

// signIn builds a client and logs it in through the account controller.
// One-shot commands keep the session cookie only for their own lifetime.
func (o *RootOptions) signIn(cmd *cobra.Command, f *OutputFormatter, a *alerts) (*apiclient.Client, error) {
	ctx := cmd.Context()

	client, err := o.newClient()
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeInvalidInput, "invalid api url", err)
	}

	creds, err := o.credentials(ctx, "Log in")
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return nil, f.Fail(exitErr.Code, ErrCodeAuth, exitErr.Message, nil)
		}
		return nil, f.Fail(ExitCommandError, ErrCodeAuth, "could not read credentials", err)
	}

	f.VerboseLog("logging in to %s as %s", client.BaseURL(), creds.Email)
	ctrl := account.NewController(client, nil, a)
	if err := ctrl.Login(ctx, creds); err != nil {
		return nil, failWithAlerts(f, a, loginExitCode(err), ErrCodeAuth, "login failed", err)
	}
	return client, nil
}

func loginExitCode(err error) int {
	if errors.Is(err, account.ErrInvalidInput) {
		return ExitCommandError
	}
	if code := apiclient.StatusCode(err); code == 0 || code >= 500 {
		return ExitCommandError
	}
	return ExitFailure
}

// pageNavigator records the last redirect a controller asked for.
type pageNavigator struct {
	page session.Page
}

func (n *pageNavigator) Redirect(page session.Page) {
	n.page = page
}
