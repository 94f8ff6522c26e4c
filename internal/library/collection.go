// Package library owns the book list and the per-book controllers hanging
// off it.
//
// The collection is the only writer of the book list, and it only ever
// writes it by replacing it with a full refetch. Every create or delete in
// the subtree ends with a call to Refresh.
package library

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"bookmemo/internal/book"
	"bookmemo/internal/notify"
)

type Collection struct {
	repo     book.Repository
	memoRepo book.MemoRepository
	notifier notify.Notifier
	onChange func()

	mu      sync.Mutex
	books   []book.Book
	details map[string]*Detail

	creation *Creation
	disposed atomic.Bool
}

// NewCollection builds an empty collection. Call Refresh to mount it.
// onChange, when set, fires after the book list or any memo list changes.
func NewCollection(repo book.Repository, memoRepo book.MemoRepository, notifier notify.Notifier, onChange func()) *Collection {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	c := &Collection{
		repo:     repo,
		memoRepo: memoRepo,
		notifier: notifier,
		onChange: onChange,
		details:  make(map[string]*Detail),
	}
	c.creation = NewCreation(repo, notifier, c.afterWrite)
	return c
}

// Creation returns the book creation controller wired to this collection.
func (c *Collection) Creation() *Creation {
	return c.creation
}

// Refresh replaces the whole book list with the collaborator's. Any failure
// leaves an empty list. Overlapping calls are not ordered: the last response
// to arrive wins.
func (c *Collection) Refresh(ctx context.Context) error {
	const op = "library.Collection.Refresh"

	books, err := c.repo.ListBooks(ctx)
	if err != nil {
		slog.Warn("book list fetch failed", slog.String("op", op), slog.String("err", err.Error()))
		books = nil
		err = fmt.Errorf("%s: %w", op, err)
	}
	if c.disposed.Load() {
		return err
	}

	c.mu.Lock()
	c.books = books
	c.reconcileLocked()
	c.mu.Unlock()

	slog.Debug("book list replaced", slog.String("op", op), slog.Int("count", len(books)))
	c.changed()
	return err
}

// reconcileLocked keeps one Detail per ISBN-13 in the current list. Details
// for books still present survive, the rest are disposed.
func (c *Collection) reconcileLocked() {
	keep := make(map[string]*Detail, len(c.books))
	for _, b := range c.books {
		if _, dup := keep[b.ISBN13]; dup {
			continue
		}
		if d, ok := c.details[b.ISBN13]; ok {
			keep[b.ISBN13] = d
			continue
		}
		keep[b.ISBN13] = NewDetail(b, c.repo, c.memoRepo, c.notifier, c.changed, c.afterWrite)
	}
	for isbn, d := range c.details {
		if _, ok := keep[isbn]; !ok {
			d.Dispose()
		}
	}
	c.details = keep
}

func (c *Collection) afterWrite(ctx context.Context) {
	_ = c.Refresh(ctx)
}

func (c *Collection) changed() {
	if c.onChange != nil && !c.disposed.Load() {
		c.onChange()
	}
}

// Books returns a copy of the held list in server order.
func (c *Collection) Books() []book.Book {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]book.Book, len(c.books))
	copy(out, c.books)
	return out
}

// Details returns the per-book controllers in list order.
func (c *Collection) Details() []*Detail {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Detail, 0, len(c.details))
	seen := make(map[string]bool, len(c.details))
	for _, b := range c.books {
		if seen[b.ISBN13] {
			continue
		}
		seen[b.ISBN13] = true
		out = append(out, c.details[b.ISBN13])
	}
	return out
}

// Detail returns the controller for isbn13, if the book is in the list.
func (c *Collection) Detail(isbn13 string) (*Detail, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.details[isbn13]
	return d, ok
}

// Dispose stops the collection and everything under it from writing state.
func (c *Collection) Dispose() {
	c.disposed.Store(true)
	c.creation.Dispose()

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range c.details {
		d.Dispose()
	}
}
