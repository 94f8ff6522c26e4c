package cli

import (
	"fmt"

	"bookmemo/internal/session"
	"bookmemo/internal/tui"

	"github.com/spf13/cobra"
)

const tuiCommandName = "tui"

// NewTUICommand creates the full screen UI command.
func NewTUICommand(rootOpts *RootOptions) *cobra.Command {
	var page string
	cmd := &cobra.Command{
		Use:   tuiCommandName,
		Short: "Open the full screen library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(rootOpts, cmd, page)
		},
	}
	cmd.Flags().StringVar(&page, "page", string(session.PageTop), "start page (/, /login, /create-account, /library)")
	return cmd
}

func runTUI(opts *RootOptions, cmd *cobra.Command, page string) error {
	f := opts.formatter(cmd)

	start, err := parsePage(page)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeInvalidInput, err.Error(), nil)
	}
	if opts.Interactive != nil && !opts.Interactive() {
		return f.Fail(ExitCommandError, ErrCodeGeneric, "the tui needs a terminal", nil)
	}

	client, err := opts.newClient()
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeInvalidInput, "invalid api url", err)
	}

	err = tui.Run(cmd.Context(), client, tui.Options{
		SessionBlocking: opts.Config.SessionBlocking,
		Animations:      true,
		StartPage:       start,
	})
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeGeneric, "tui stopped", err)
	}
	return nil
}

func parsePage(s string) (session.Page, error) {
	for _, p := range []session.Page{session.PageTop, session.PageLogin, session.PageCreateAccount, session.PageLibrary} {
		if s == string(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown page %q", s)
}
