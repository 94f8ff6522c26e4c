package fakeapi

import (
	"errors"
	"sync"

	"bookmemo/internal/book"

	"github.com/google/uuid"
)

var (
	errAccountExists  = errors.New("account already exists")
	errAccountMissing = errors.New("account not found")
	errMemoMissing    = errors.New("memo not found")
)

type storedMemo struct {
	ID     book.MemoID
	ISBN13 string
	Text   string
}

// store is the in-memory library. Books and memos keep insertion order,
// which is the order the collaborator returns them in.
type store struct {
	mu       sync.Mutex
	accounts map[string]string // email -> bcrypt hash
	revoked  map[string]struct{}
	books    []book.Book
	memos    []storedMemo
}

func newStore() *store {
	return &store{
		accounts: make(map[string]string),
		revoked:  make(map[string]struct{}),
	}
}

func (s *store) createAccount(email, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[email]; ok {
		return errAccountExists
	}
	s.accounts[email] = passwordHash
	return nil
}

func (s *store) passwordHash(email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.accounts[email]
	if !ok {
		return "", errAccountMissing
	}
	return h, nil
}

func (s *store) deleteAccount(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, email)
}

func (s *store) revoke(jti string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[jti] = struct{}{}
}

func (s *store) isRevoked(jti string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[jti]
	return ok
}

func (s *store) listBooks() []book.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]book.Book, len(s.books))
	copy(out, s.books)
	return out
}

func (s *store) findBook(isbn13 string) (book.Book, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.bookIndexLocked(isbn13)
	if i < 0 {
		return book.Book{}, false
	}
	return s.books[i], true
}

func (s *store) addBook(b book.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bookIndexLocked(b.ISBN13) >= 0 {
		return book.ErrAlreadyRegistered
	}
	s.books = append(s.books, b)
	return nil
}

// deleteBook removes the book and every memo attached to it.
func (s *store) deleteBook(isbn13 string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.bookIndexLocked(isbn13)
	if i < 0 {
		return book.ErrNotFound
	}
	s.books = append(s.books[:i], s.books[i+1:]...)

	kept := s.memos[:0]
	for _, m := range s.memos {
		if m.ISBN13 != isbn13 {
			kept = append(kept, m)
		}
	}
	s.memos = kept
	return nil
}

func (s *store) bookIndexLocked(isbn13 string) int {
	for i, b := range s.books {
		if b.ISBN13 == isbn13 {
			return i
		}
	}
	return -1
}

func (s *store) listMemos(isbn13 string) []book.Memo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []book.Memo{}
	for _, m := range s.memos {
		if m.ISBN13 == isbn13 {
			out = append(out, book.Memo{ID: m.ID, Text: m.Text})
		}
	}
	return out
}

func (s *store) addMemo(isbn13, text string) (book.Memo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bookIndexLocked(isbn13) < 0 {
		return book.Memo{}, book.ErrNotFound
	}
	m := storedMemo{ID: book.MemoID(uuid.NewString()), ISBN13: isbn13, Text: text}
	s.memos = append(s.memos, m)
	return book.Memo{ID: m.ID, Text: m.Text}, nil
}

func (s *store) findMemo(id book.MemoID) (book.Memo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.memos {
		if m.ID == id {
			return book.Memo{ID: m.ID, Text: m.Text}, true
		}
	}
	return book.Memo{}, false
}

func (s *store) deleteMemo(id book.MemoID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.memos {
		if m.ID == id {
			s.memos = append(s.memos[:i], s.memos[i+1:]...)
			return nil
		}
	}
	return errMemoMissing
}
