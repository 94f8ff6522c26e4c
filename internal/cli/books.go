package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"bookmemo/internal/book"
	"bookmemo/internal/library"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// BookResult is the JSON shape of one book.
type BookResult struct {
	ISBN13        string   `json:"isbn_13"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Publisher     string   `json:"publisher,omitempty"`
	PublishedDate string   `json:"published_date,omitempty"`
}

func toBookResult(b book.Book) BookResult {
	return BookResult{
		ISBN13:        b.ISBN13,
		Title:         b.Title,
		Authors:       b.Authors,
		Publisher:     b.Publisher,
		PublishedDate: b.PublishedDate,
	}
}

// NewBooksCommand creates the books command group.
func NewBooksCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "List, register and delete books",
	}
	cmd.AddCommand(newBooksListCommand(rootOpts))
	cmd.AddCommand(newBooksAddCommand(rootOpts))
	cmd.AddCommand(newBooksRemoveCommand(rootOpts))
	return cmd
}

func newBooksListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBooksList(rootOpts, cmd)
		},
	}
}

func runBooksList(opts *RootOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	a := opts.newAlerts(f)

	collection, err := opts.openCollection(cmd, f, a)
	if err != nil {
		return err
	}
	defer collection.Dispose()

	books := collection.Books()
	results := make([]BookResult, 0, len(books))
	for _, b := range books {
		results = append(results, toBookResult(b))
	}
	return f.Success(results, func(w io.Writer) {
		if len(books) == 0 {
			writeLine(w, "No books yet.")
			return
		}
		for _, b := range books {
			writeLine(w, "%s  %s  %s", b.ISBN13, b.Title, b.MainAuthor())
		}
	})
}

func newBooksAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <isbn-13>",
		Short: "Register a book by ISBN-13",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBooksAdd(rootOpts, cmd, args[0])
		},
	}
}

func runBooksAdd(opts *RootOptions, cmd *cobra.Command, isbn string) error {
	f := opts.formatter(cmd)
	a := opts.newAlerts(f)

	if !book.ValidISBN13(isbn) {
		return f.Fail(ExitCommandError, ErrCodeInvalidInput,
			fmt.Sprintf("ISBN-13 must be %d characters, got %d", book.ISBN13Length, utf8.RuneCountInString(isbn)), nil)
	}

	client, err := opts.signIn(cmd, f, a)
	if err != nil {
		return err
	}
	collection := library.NewCollection(client, client, a, nil)
	defer collection.Dispose()

	creation := collection.Creation()
	creation.Open()
	creation.SetInput(isbn)

	outcome, err := creation.Submit(cmd.Context())
	switch outcome {
	case library.OutcomeCreated:
	case library.OutcomeDuplicate:
		return failWithAlerts(f, a, ExitFailure, ErrCodeDuplicate, "book already registered", err)
	case library.OutcomeNotFound:
		return failWithAlerts(f, a, ExitFailure, ErrCodeNotFound, "book not found", err)
	default:
		return failWithAlerts(f, a, ExitFailure, ErrCodeGeneric, "failed to register book", err)
	}

	result := BookResult{ISBN13: isbn}
	if d, ok := collection.Detail(isbn); ok {
		result = toBookResult(d.Book())
	}
	return f.Success(result, func(w io.Writer) {
		if result.Title == "" {
			writeLine(w, "Registered %s", isbn)
			return
		}
		writeLine(w, "Registered %s  %s", isbn, result.Title)
	})
}

func newBooksRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "rm <isbn-13>",
		Aliases: []string{"delete"},
		Short:   "Delete a book and its memos",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBooksRemove(rootOpts, cmd, args[0], yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func runBooksRemove(opts *RootOptions, cmd *cobra.Command, isbn string, yes bool) error {
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

	detail.RequestDelete()
	confirmed, err := opts.confirm(cmd.Context(), detail.Gate().Message(), yes)
	if err != nil {
		detail.CancelDelete()
		return f.Fail(ExitCommandError, ErrCodeCancelled, err.Error(), nil)
	}
	if !confirmed {
		detail.CancelDelete()
		return f.Fail(ExitFailure, ErrCodeCancelled, "cancelled", nil)
	}

	if _, err := detail.ConfirmDelete(cmd.Context()); err != nil {
		return failWithAlerts(f, a, ExitFailure, ErrCodeGeneric, "failed to delete book", err)
	}

	return f.Success(map[string]string{"isbn_13": isbn}, func(w io.Writer) {
		writeLine(w, "Deleted %s", isbn)
	})
}

// openCollection signs in and loads the book list.
func (o *RootOptions) openCollection(cmd *cobra.Command, f *OutputFormatter, a *alerts) (*library.Collection, error) {
	client, err := o.signIn(cmd, f, a)
	if err != nil {
		return nil, err
	}
	collection := library.NewCollection(client, client, a, nil)
	if err := collection.Refresh(cmd.Context()); err != nil {
		collection.Dispose()
		return nil, failWithAlerts(f, a, ExitFailure, ErrCodeGeneric, "failed to load books", err)
	}
	return collection, nil
}

var errNotInteractive = errors.New("refusing to delete without confirmation: pass --yes or run in a terminal")

// confirm asks the user to approve a destructive action.
func (o *RootOptions) confirm(ctx context.Context, message string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	if o.Interactive == nil || !o.Interactive() {
		return false, errNotInteractive
	}

	var ok bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(message).
			Affirmative("Delete").
			Negative("Cancel").
			Value(&ok),
	))
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}
