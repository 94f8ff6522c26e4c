package tui

import (
	"sync"

	"bookmemo/internal/library"
	"bookmemo/internal/session"
)

type navDoneMsg struct {
	seq     uint64
	page    session.Page
	allowed bool
}

type booksLoadedMsg struct {
	err error
}

type memosLoadedMsg struct {
	isbn13 string
}

type createDoneMsg struct {
	outcome library.Outcome
	err     error
}

type deleteDoneMsg struct {
	isbn13 string
	issued bool
	err    error
}

type memoAddDoneMsg struct {
	isbn13 string
	err    error
}

type memoRemoveDoneMsg struct {
	err error
}

type accountDoneMsg struct {
	err error
}

type toastExpiredMsg struct {
	id int
}

// redirector is the Navigator handed to the session gate and the account
// controller. They run inside commands, so the target is parked here and
// applied by the model on the UI loop.
type redirector struct {
	mu      sync.Mutex
	pending session.Page
	has     bool
}

func (r *redirector) Redirect(page session.Page) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = page
	r.has = true
}

func (r *redirector) take() (session.Page, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	page, ok := r.pending, r.has
	r.pending, r.has = "", false
	return page, ok
}
