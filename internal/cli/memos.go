package cli

import (
	"fmt"
	"io"
	"strings"

	"bookmemo/internal/book"
	"bookmemo/internal/library"
	"bookmemo/internal/memo"

	"github.com/spf13/cobra"
)

// MemoResult is the JSON shape of one memo.
type MemoResult struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// NewMemosCommand creates the memos command group.
func NewMemosCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memos",
		Short: "List, add and delete the memos of a book",
	}
	cmd.AddCommand(newMemosListCommand(rootOpts))
	cmd.AddCommand(newMemosAddCommand(rootOpts))
	cmd.AddCommand(newMemosRemoveCommand(rootOpts))
	return cmd
}

func newMemosListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list <isbn-13>",
		Short: "List the memos of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMemos(rootOpts, cmd, args[0], nil)
		},
	}
}

func newMemosAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <isbn-13> <text>...",
		Short: "Attach a memo to a book",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args[1:], " ")
			return runMemos(rootOpts, cmd, args[0], func(store *memo.Store) (string, error) {
				if err := store.Add(cmd.Context(), text); err != nil {
					return "failed to add memo", err
				}
				return "", nil
			})
		},
	}
}

func newMemosRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <isbn-13> <memo-id>",
		Aliases: []string{"delete"},
		Short:   "Delete one memo",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := book.MemoID(args[1])
			return runMemos(rootOpts, cmd, args[0], func(store *memo.Store) (string, error) {
				if err := store.Remove(cmd.Context(), id); err != nil {
					return "failed to delete memo", err
				}
				return "", nil
			})
		},
	}
}

// runMemos opens the book's detail, loads its memos, applies action when set
// and prints the list as it stands afterwards.
func runMemos(opts *RootOptions, cmd *cobra.Command, isbn string, action func(store *memo.Store) (string, error)) error {
	f := opts.formatter(cmd)
	a := opts.newAlerts(f)

	collection, err := opts.openCollection(cmd, f, a)
	if err != nil {
		return err
	}
	defer collection.Dispose()

	detail, ok := collection.Detail(isbn)
	if !ok {
		return f.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("book %s is not in the library", isbn), nil)
	}
	return runOnDetail(f, a, cmd, detail, action)
}

func runOnDetail(f *OutputFormatter, a *alerts, cmd *cobra.Command, detail *library.Detail, action func(store *memo.Store) (string, error)) error {
	detail.Open(cmd.Context())
	defer detail.Close()

	store := detail.Memos()
	if !store.Loaded() {
		return failWithAlerts(f, a, ExitFailure, ErrCodeGeneric, "failed to load memos", nil)
	}
	if action != nil {
		if msg, err := action(store); err != nil {
			return failWithAlerts(f, a, ExitFailure, ErrCodeGeneric, msg, err)
		}
	}

	memos := store.Memos()
	results := make([]MemoResult, 0, len(memos))
	for _, m := range memos {
		results = append(results, MemoResult{ID: m.ID.String(), Text: m.Text})
	}
	return f.Success(results, func(w io.Writer) {
		if len(memos) == 0 {
			writeLine(w, "No memos.")
			return
		}
		for _, m := range memos {
			writeLine(w, "%s  %s", m.ID, m.Text)
		}
	})
}
