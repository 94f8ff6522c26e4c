// Package memo holds the memo list of a single book.
//
// The held list is only ever replaced by a successful Load. Add and Remove
// never patch it; on success they reload, so the list always mirrors what the
// collaborator returned last.
package memo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"bookmemo/internal/book"
	"bookmemo/internal/notify"
)

// ErrEmptyText is returned by Add for empty or whitespace-only text. No
// request is sent.
var ErrEmptyText = errors.New("memo text is empty")

const (
	msgAddFailed    = "failed to add memo"
	msgRemoveFailed = "failed to delete memo"
)

type Store struct {
	isbn13   string
	repo     book.MemoRepository
	notifier notify.Notifier
	onChange func()

	mu     sync.Mutex
	memos  []book.Memo
	loaded bool

	disposed atomic.Bool
}

// NewStore scopes a store to isbn13 for its whole lifetime. onChange, when
// set, is called after every replacement of the held list.
func NewStore(isbn13 string, repo book.MemoRepository, notifier notify.Notifier, onChange func()) *Store {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Store{
		isbn13:   isbn13,
		repo:     repo,
		notifier: notifier,
		onChange: onChange,
	}
}

func (s *Store) ISBN13() string { return s.isbn13 }

// Memos returns a copy of the held list in server order.
func (s *Store) Memos() []book.Memo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]book.Memo, len(s.memos))
	copy(out, s.memos)
	return out
}

// Loaded reports whether at least one Load has succeeded.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Load fetches the memo list. On failure the held list is left as it was.
func (s *Store) Load(ctx context.Context) error {
	const op = "memo.Store.Load"

	memos, err := s.repo.ListMemos(ctx, s.isbn13)
	if err != nil {
		slog.Warn("memo list fetch failed",
			slog.String("op", op),
			slog.String("isbn_13", s.isbn13),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("%s: %w", op, err)
	}
	if s.disposed.Load() {
		return nil
	}

	s.mu.Lock()
	s.memos = memos
	s.loaded = true
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange()
	}
	return nil
}

// Add posts text as a new memo and reloads on success.
func (s *Store) Add(ctx context.Context, text string) error {
	const op = "memo.Store.Add"

	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}

	if err := s.repo.CreateMemo(ctx, s.isbn13, text); err != nil {
		slog.Error("memo create failed",
			slog.String("op", op),
			slog.String("isbn_13", s.isbn13),
			slog.String("err", err.Error()),
		)
		if !s.disposed.Load() {
			notify.Error(s.notifier, msgAddFailed)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return s.reload(ctx)
}

// Remove deletes one memo and reloads on success. Nothing is removed locally.
func (s *Store) Remove(ctx context.Context, id book.MemoID) error {
	const op = "memo.Store.Remove"

	if err := s.repo.DeleteMemo(ctx, id); err != nil {
		slog.Error("memo delete failed",
			slog.String("op", op),
			slog.String("memo_id", id.String()),
			slog.String("err", err.Error()),
		)
		if !s.disposed.Load() {
			notify.Error(s.notifier, msgRemoveFailed)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return s.reload(ctx)
}

// reload runs after a successful mutation. A failed reload keeps the old
// list; the mutation itself still succeeded.
func (s *Store) reload(ctx context.Context) error {
	if s.disposed.Load() {
		return nil
	}
	_ = s.Load(ctx)
	return nil
}

// Dispose stops the store from writing state. Responses that arrive later
// are dropped.
func (s *Store) Dispose() {
	s.disposed.Store(true)
}

func (s *Store) Disposed() bool {
	return s.disposed.Load()
}
