package library

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"bookmemo/internal/book"
	"bookmemo/internal/confirm"
	"bookmemo/internal/memo"
	"bookmemo/internal/notify"
)

const (
	msgDeleteConfirm = "Delete this book and all of its memos?"
	msgDeleteFailed  = "failed to delete book"
)

// Detail shows one book, hosts its memo store and guards deletion with a
// confirmation gate.
type Detail struct {
	book      book.Book
	repo      book.Repository
	memos     *memo.Store
	gate      *confirm.Gate
	notifier  notify.Notifier
	onDeleted func(ctx context.Context)

	mu      sync.Mutex
	open    bool
	lastErr error

	disposed atomic.Bool
}

// NewDetail wires a detail controller for b. onDeleted runs after a confirmed
// and successful delete.
func NewDetail(b book.Book, repo book.Repository, memoRepo book.MemoRepository, notifier notify.Notifier, onChange func(), onDeleted func(ctx context.Context)) *Detail {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	d := &Detail{
		book:      b,
		repo:      repo,
		notifier:  notifier,
		onDeleted: onDeleted,
	}
	d.memos = memo.NewStore(b.ISBN13, memoRepo, notifier, onChange)
	d.gate = confirm.New(msgDeleteConfirm, confirm.SeverityDanger, d.deleteBook, nil)
	return d
}

func (d *Detail) Book() book.Book { return d.book }

func (d *Detail) ISBN13() string { return d.book.ISBN13 }

// Memos returns the memo store scoped to this book.
func (d *Detail) Memos() *memo.Store { return d.memos }

// Gate returns the delete confirmation gate.
func (d *Detail) Gate() *confirm.Gate { return d.gate }

// IsOpen reports whether the detail view is shown.
func (d *Detail) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

// Open shows the detail view and loads its memos.
func (d *Detail) Open(ctx context.Context) {
	d.mu.Lock()
	d.open = true
	d.mu.Unlock()

	_ = d.memos.Load(ctx)
}

// Close hides the detail view and any pending confirmation.
func (d *Detail) Close() {
	d.mu.Lock()
	d.open = false
	d.mu.Unlock()
	d.gate.Close()
}

// RequestDelete opens the confirmation gate. It never deletes.
func (d *Detail) RequestDelete() {
	d.gate.Open()
}

// ConfirmDelete fires the gate's confirm action. It reports whether a delete
// request was issued, and returns the delete error when it failed.
func (d *Detail) ConfirmDelete(ctx context.Context) (bool, error) {
	if !d.gate.Confirm(ctx) {
		return false, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return true, d.lastErr
}

// CancelDelete closes the gate without sending anything.
func (d *Detail) CancelDelete() {
	d.gate.Cancel()
}

func (d *Detail) deleteBook(ctx context.Context) {
	const op = "library.Detail.deleteBook"

	d.mu.Lock()
	d.lastErr = nil
	d.mu.Unlock()

	err := d.repo.DeleteBook(ctx, d.book.ISBN13)
	if err != nil {
		slog.Error("book delete failed",
			slog.String("op", op),
			slog.String("isbn_13", d.book.ISBN13),
			slog.String("err", err.Error()),
		)
		d.mu.Lock()
		d.lastErr = fmt.Errorf("%s: %w", op, err)
		d.mu.Unlock()
		if !d.disposed.Load() {
			notify.Error(d.notifier, msgDeleteFailed)
		}
		return
	}

	slog.Info("book deleted", slog.String("op", op), slog.String("isbn_13", d.book.ISBN13))
	if d.disposed.Load() {
		return
	}
	d.Close()
	if d.onDeleted != nil {
		d.onDeleted(ctx)
	}
}

// Dispose stops the detail and its memo store from writing state.
func (d *Detail) Dispose() {
	d.disposed.Store(true)
	d.memos.Dispose()
}
