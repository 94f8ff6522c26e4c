package cli

import (
	"fmt"
	"io"
	"os"

	"bookmemo/internal/apiclient"
	"bookmemo/internal/config"
	"bookmemo/internal/logging"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags and shared dependencies for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	Config *config.Config
	// Interactive reports whether prompts may be shown.
	Interactive func() bool

	closeLog func() error
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the bookmemo CLI.
func NewRootCommand(cfg *config.Config) *cobra.Command {
	return newRootCommand(&RootOptions{
		Config:      cfg,
		Interactive: stdinIsTerminal,
	})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cfg := opts.Config
	cmd := &cobra.Command{
		Use:   "bookmemo",
		Short: "bookmemo - your books and the memos you keep about them",
		Long:  "A terminal client for a personal book library with reading memos.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return opts.setupLogging(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.closeLog != nil {
				return opts.closeLog()
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "collaborator base URL")
	cmd.PersistentFlags().StringVar(&cfg.Email, "email", cfg.Email, "account email")
	cmd.PersistentFlags().StringVar(&cfg.Password, "password", cfg.Password, "account password")

	cmd.AddCommand(NewTUICommand(opts))
	cmd.AddCommand(NewBooksCommand(opts))
	cmd.AddCommand(NewMemosCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewSignupCommand(opts))
	cmd.AddCommand(NewDevServerCommand(opts))

	return cmd
}

// setupLogging sends logs to stderr for one-shot commands. The full screen
// UI owns the terminal, so it logs to the configured file or nowhere.
func (o *RootOptions) setupLogging(cmd *cobra.Command) error {
	level := o.Config.LogLevel
	if o.Verbose {
		level = "debug"
	}
	if cmd.Name() == tuiCommandName {
		closeFn, err := logging.Setup(level, o.Config.LogFile, true)
		o.closeLog = closeFn
		return err
	}
	closeFn, err := logging.Setup(level, "", false)
	o.closeLog = closeFn
	return err
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

func (o *RootOptions) newClient() (*apiclient.Client, error) {
	return apiclient.New(o.Config.APIURL, apiclient.WithSessionPath(o.Config.SessionPath))
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func stdinIsTerminal() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

func writeLine(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format+"\n", args...)
}
