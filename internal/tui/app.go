// Package tui is the interactive terminal client. Each page of the service
// is a screen; network work runs in commands and reports back as messages.
package tui

import (
	"context"
	"time"

	"bookmemo/internal/account"
	"bookmemo/internal/book"
	"bookmemo/internal/library"
	"bookmemo/internal/notify"
	"bookmemo/internal/session"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const defaultToastTTL = 4 * time.Second

// Backend is everything the screens need from the collaborator.
type Backend interface {
	book.Repository
	book.MemoRepository
	book.SessionProber
	account.Authenticator
}

type Options struct {
	// SessionBlocking shows a loading screen on protected pages until the
	// session probe resolves. Otherwise the page renders right away and is
	// left when the probe fails.
	SessionBlocking bool
	// Animations enables spinner, cursor blink and toast expiry timers.
	Animations bool
	ToastTTL   time.Duration
	StartPage  session.Page
}

type Model struct {
	ctx     context.Context
	backend Backend
	opts    Options

	nav      *redirector
	toasts   *toastQueue
	notifier notify.Notifier
	provider *session.Provider
	account  *account.Controller

	page       session.Page
	navSeq     uint64
	navPending bool

	email      textinput.Model
	password   textinput.Model
	formFocus  int
	collection *library.Collection
	cursor     int
	isbnInput  textinput.Model

	detail     *library.Detail
	memoInput  textinput.Model
	memoFocus  bool
	memoCursor int
	// memoAdding holds the ISBNs with a memo add in flight.
	memoAdding map[string]bool

	spinner  spinner.Model
	width    int
	quitting bool
}

func New(ctx context.Context, backend Backend, opts Options) *Model {
	if opts.ToastTTL <= 0 {
		opts.ToastTTL = defaultToastTTL
	}
	if opts.StartPage == "" {
		opts.StartPage = session.PageTop
	}

	m := &Model{
		ctx:        ctx,
		backend:    backend,
		opts:       opts,
		nav:        &redirector{},
		memoAdding: make(map[string]bool),
		toasts:     newToastQueue(),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(selectedStyle)),
	}
	m.notifier = notify.Multi{m.toasts, notify.Log{}}
	m.provider = session.NewProvider(session.NewGate(backend, m.nav))
	m.account = account.NewController(backend, m.nav, m.notifier)

	m.email = m.newInput("email")
	m.password = m.newInput("password")
	m.password.EchoMode = textinput.EchoPassword
	m.password.EchoCharacter = '•'
	m.isbnInput = m.newInput("ISBN-13")
	m.memoInput = m.newInput("write a memo")
	return m
}

func (m *Model) newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Width = 40
	if !m.opts.Animations {
		ti.Cursor.SetMode(cursor.CursorStatic)
	}
	return ti
}

// anim drops timer driven commands when animations are off.
func (m *Model) anim(cmd tea.Cmd) tea.Cmd {
	if !m.opts.Animations {
		return nil
	}
	return cmd
}

// Page is the screen currently shown.
func (m *Model) Page() session.Page {
	return m.page
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.navigate(m.opts.StartPage), m.anim(m.spinner.Tick))
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	cmds := []tea.Cmd{cmd}

	if page, ok := m.nav.take(); ok {
		cmds = append(cmds, m.navigate(page))
	}
	if m.opts.Animations {
		for _, id := range m.toasts.unscheduled() {
			id := id
			cmds = append(cmds, tea.Tick(m.opts.ToastTTL, func(time.Time) tea.Msg {
				return toastExpiredMsg{id: id}
			}))
		}
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m.anim(cmd)

	case toastExpiredMsg:
		m.toasts.drop(msg.id)
		return nil

	case navDoneMsg:
		if msg.seq != m.navSeq {
			return nil
		}
		m.navPending = false
		if msg.allowed && msg.page == session.PageLibrary && m.opts.SessionBlocking {
			return m.refreshCmd()
		}
		return nil

	case booksLoadedMsg:
		m.clampCursor()
		return nil

	case memosLoadedMsg:
		m.clampMemoCursor()
		return nil

	case createDoneMsg:
		if msg.outcome == library.OutcomeCreated {
			m.isbnInput.Reset()
			m.isbnInput.Blur()
		} else {
			return m.anim(m.isbnInput.Focus())
		}
		m.clampCursor()
		return nil

	case deleteDoneMsg:
		if msg.issued && msg.err == nil {
			m.detail = nil
			m.memoFocus = false
			m.clampCursor()
		}
		return nil

	case memoAddDoneMsg:
		delete(m.memoAdding, msg.isbn13)
		if msg.err == nil && m.detail != nil && m.detail.ISBN13() == msg.isbn13 {
			m.memoInput.Reset()
		}
		m.clampMemoCursor()
		return nil

	case memoRemoveDoneMsg:
		m.clampMemoCursor()
		return nil

	case accountDoneMsg:
		if msg.err == nil {
			m.password.Reset()
		}
		return nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m.quit()
		}
		if msg.Type == tea.KeyCtrlL {
			m.toasts.clear()
			return nil
		}
		if m.opts.SessionBlocking && m.navPending {
			return nil
		}
		switch m.page {
		case session.PageLogin, session.PageCreateAccount:
			return m.updateAuth(msg)
		case session.PageLibrary:
			if m.detail != nil && m.detail.IsOpen() {
				return m.updateDetail(msg)
			}
			return m.updateLibrary(msg)
		default:
			return m.updateTop(msg)
		}
	}
	return nil
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	if m.collection != nil {
		m.collection.Dispose()
	}
	return tea.Quit
}

// navigate switches the screen and runs the session gate for it once.
func (m *Model) navigate(page session.Page) tea.Cmd {
	if page != session.PageLibrary && m.collection != nil {
		m.collection.Dispose()
		m.collection = nil
		m.detail = nil
	}

	m.page = page
	m.navSeq++
	seq := m.navSeq
	m.navPending = !session.IsPublic(page)

	cmds := []tea.Cmd{func() tea.Msg {
		allowed := m.provider.Navigate(m.ctx, page)
		return navDoneMsg{seq: seq, page: page, allowed: allowed}
	}}

	switch page {
	case session.PageLogin, session.PageCreateAccount:
		m.email.Reset()
		m.password.Reset()
		m.formFocus = 0
		m.password.Blur()
		cmds = append(cmds, m.anim(m.email.Focus()))
	case session.PageLibrary:
		if m.collection == nil {
			m.collection = library.NewCollection(m.backend, m.backend, m.notifier, nil)
			m.cursor = 0
		}
		if !m.opts.SessionBlocking {
			cmds = append(cmds, m.refreshCmd())
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) refreshCmd() tea.Cmd {
	c := m.collection
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		return booksLoadedMsg{err: c.Refresh(m.ctx)}
	}
}

func (m *Model) clampCursor() {
	if m.collection == nil {
		m.cursor = 0
		return
	}
	n := len(m.collection.Details())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) clampMemoCursor() {
	if m.detail == nil {
		m.memoCursor = 0
		return
	}
	n := len(m.detail.Memos().Memos())
	if m.memoCursor >= n {
		m.memoCursor = n - 1
	}
	if m.memoCursor < 0 {
		m.memoCursor = 0
	}
}

// Run starts the full screen program and blocks until it exits.
func Run(ctx context.Context, backend Backend, opts Options) error {
	p := tea.NewProgram(New(ctx, backend, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
