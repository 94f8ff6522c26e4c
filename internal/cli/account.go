package cli

import (
	"errors"
	"io"

	"bookmemo/internal/account"

	"github.com/spf13/cobra"
)

// NewLoginCommand creates the login command. It checks the credentials and
// the session round trip; the session itself ends with the process.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Check that the configured credentials can log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccount(rootOpts, cmd, "Log in", false)
		},
	}
}

// NewSignupCommand creates the signup command.
func NewSignupCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "signup",
		Aliases: []string{"create-account"},
		Short:   "Create an account",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccount(rootOpts, cmd, "Create account", true)
		},
	}
}

func runAccount(opts *RootOptions, cmd *cobra.Command, title string, create bool) error {
	ctx := cmd.Context()
	f := opts.formatter(cmd)
	a := opts.newAlerts(f)

	client, err := opts.newClient()
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeInvalidInput, "invalid api url", err)
	}

	creds, err := opts.credentials(ctx, title)
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return f.Fail(exitErr.Code, ErrCodeAuth, exitErr.Message, nil)
		}
		return f.Fail(ExitCommandError, ErrCodeAuth, "could not read credentials", err)
	}

	nav := &pageNavigator{}
	ctrl := account.NewController(client, nav, a)
	if create {
		err = ctrl.CreateAccount(ctx, creds)
	} else {
		err = ctrl.Login(ctx, creds)
	}
	if err != nil {
		return failWithAlerts(f, a, loginExitCode(err), ErrCodeAuth, "request failed", err)
	}

	loggedIn, err := client.CheckSession(ctx)
	if err != nil || !loggedIn {
		return f.Fail(ExitFailure, ErrCodeAuth, "session was not established", err)
	}

	data := map[string]string{"email": creds.Email, "page": string(nav.page)}
	if !create {
		_ = ctrl.Logout(ctx)
	}

	return f.Success(data, func(w io.Writer) {
		if create {
			writeLine(w, "Created account %s", creds.Email)
			return
		}
		writeLine(w, "Logged in as %s", creds.Email)
	})
}
