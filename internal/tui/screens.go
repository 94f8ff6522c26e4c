package tui

import (
	"fmt"
	"strings"

	"bookmemo/internal/account"
	"bookmemo/internal/library"
	"bookmemo/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) updateTop(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "l":
		return m.navigate(session.PageLogin)
	case "s":
		return m.navigate(session.PageCreateAccount)
	case "b", "enter":
		return m.navigate(session.PageLibrary)
	case "q":
		return m.quit()
	}
	return nil
}

func (m *Model) updateAuth(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		return m.navigate(session.PageTop)
	case "tab", "shift+tab", "up", "down":
		m.formFocus = 1 - m.formFocus
		if m.formFocus == 0 {
			m.password.Blur()
			return m.anim(m.email.Focus())
		}
		m.email.Blur()
		return m.anim(m.password.Focus())
	case "enter":
		if m.account.Busy() {
			return nil
		}
		creds := account.Credentials{Email: strings.TrimSpace(m.email.Value()), Password: m.password.Value()}
		submit := m.account.Login
		if m.page == session.PageCreateAccount {
			submit = m.account.CreateAccount
		}
		return func() tea.Msg {
			return accountDoneMsg{err: submit(m.ctx, creds)}
		}
	}

	var cmd tea.Cmd
	if m.formFocus == 0 {
		m.email, cmd = m.email.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m.anim(cmd)
}

func (m *Model) updateLibrary(msg tea.KeyMsg) tea.Cmd {
	if m.collection == nil {
		return nil
	}
	creation := m.collection.Creation()
	if creation.IsOpen() {
		return m.updateCreation(creation, msg)
	}

	details := m.collection.Details()
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(details)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor >= len(details) {
			return nil
		}
		d := details[m.cursor]
		m.detail = d
		m.memoCursor = 0
		m.memoFocus = false
		m.memoInput.Reset()
		return func() tea.Msg {
			d.Open(m.ctx)
			return memosLoadedMsg{isbn13: d.ISBN13()}
		}
	case "a":
		creation.Open()
		m.isbnInput.SetValue(creation.Input())
		return m.anim(m.isbnInput.Focus())
	case "r":
		return m.refreshCmd()
	case "o":
		return func() tea.Msg {
			return accountDoneMsg{err: m.account.Logout(m.ctx)}
		}
	case "esc":
		return m.navigate(session.PageTop)
	case "q":
		return m.quit()
	}
	return nil
}

func (m *Model) updateCreation(creation *library.Creation, msg tea.KeyMsg) tea.Cmd {
	if !creation.InputEnabled() {
		return nil
	}
	switch msg.String() {
	case "esc":
		creation.Close()
		m.isbnInput.Blur()
		return nil
	case "enter":
		if !creation.SubmitEnabled() {
			return nil
		}
		m.isbnInput.Blur()
		return func() tea.Msg {
			outcome, err := creation.Submit(m.ctx)
			return createDoneMsg{outcome: outcome, err: err}
		}
	}

	var cmd tea.Cmd
	m.isbnInput, cmd = m.isbnInput.Update(msg)
	creation.SetInput(m.isbnInput.Value())
	return m.anim(cmd)
}

func (m *Model) updateDetail(msg tea.KeyMsg) tea.Cmd {
	d := m.detail
	if d.Gate().Visible() {
		switch msg.String() {
		case "y", "enter":
			return func() tea.Msg {
				issued, err := d.ConfirmDelete(m.ctx)
				return deleteDoneMsg{isbn13: d.ISBN13(), issued: issued, err: err}
			}
		case "n", "esc":
			d.CancelDelete()
		}
		return nil
	}

	if m.memoFocus {
		switch msg.String() {
		case "esc", "tab":
			m.memoFocus = false
			m.memoInput.Blur()
			return nil
		case "enter":
			if m.memoAdding[d.ISBN13()] {
				return nil
			}
			text := m.memoInput.Value()
			store := d.Memos()
			m.memoAdding[d.ISBN13()] = true
			return func() tea.Msg {
				return memoAddDoneMsg{isbn13: store.ISBN13(), err: store.Add(m.ctx, text)}
			}
		}
		var cmd tea.Cmd
		m.memoInput, cmd = m.memoInput.Update(msg)
		return m.anim(cmd)
	}

	memos := d.Memos().Memos()
	switch msg.String() {
	case "tab", "m":
		m.memoFocus = true
		return m.anim(m.memoInput.Focus())
	case "up", "k":
		if m.memoCursor > 0 {
			m.memoCursor--
		}
	case "down", "j":
		if m.memoCursor < len(memos)-1 {
			m.memoCursor++
		}
	case "x":
		if m.memoCursor >= len(memos) {
			return nil
		}
		id := memos[m.memoCursor].ID
		store := d.Memos()
		return func() tea.Msg {
			return memoRemoveDoneMsg{err: store.Remove(m.ctx, id)}
		}
	case "d":
		d.RequestDelete()
	case "esc", "q":
		d.Close()
		m.detail = nil
	}
	return nil
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")

	switch {
	case m.opts.SessionBlocking && m.navPending:
		b.WriteString(m.spinner.View() + " checking session...")
	case m.page == session.PageLogin:
		b.WriteString(m.viewAuth("Log in", "enter: log in • tab: switch field • esc: back"))
	case m.page == session.PageCreateAccount:
		b.WriteString(m.viewAuth("Create account", "enter: create account • tab: switch field • esc: back"))
	case m.page == session.PageLibrary:
		b.WriteString(m.viewLibrary())
	default:
		b.WriteString(m.viewTop())
	}

	if t := m.viewToasts(); t != "" {
		b.WriteString("\n\n")
		b.WriteString(t)
	}
	return b.String()
}

func (m *Model) header() string {
	title := titleStyle.Render("bookmemo")
	if m.provider.LoggedIn() {
		return title + " " + subtleStyle.Render("logged in")
	}
	return title
}

func (m *Model) viewTop() string {
	return "Keep a shelf of the books you read and the notes you took.\n" +
		helpStyle.Render("l: log in • s: create account • b: library • q: quit")
}

func (m *Model) viewAuth(title, help string) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(m.email.View())
	b.WriteString("\n")
	b.WriteString(m.password.View())
	if m.account.Busy() {
		b.WriteString("\n" + m.spinner.View() + " sending...")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(help))
	return b.String()
}

func (m *Model) viewLibrary() string {
	if m.collection == nil {
		return ""
	}
	if m.detail != nil && m.detail.IsOpen() {
		return m.viewDetail()
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render("Library"))
	b.WriteString("\n\n")

	details := m.collection.Details()
	if len(details) == 0 {
		b.WriteString(subtleStyle.Render("No books yet."))
	}
	for i, d := range details {
		bk := d.Book()
		line := fmt.Sprintf("%s  %s", bk.Title, subtleStyle.Render(bk.MainAuthor()))
		if i == m.cursor {
			line = selectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	if creation := m.collection.Creation(); creation.IsOpen() {
		b.WriteString("\n")
		b.WriteString(m.viewCreation(creation))
	}

	b.WriteString(helpStyle.Render("↑/↓: move • enter: open • a: add book • r: reload • o: log out • q: quit"))
	return b.String()
}

func (m *Model) viewCreation(creation *library.Creation) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Register a book"))
	b.WriteString("\n\n")
	b.WriteString(m.isbnInput.View())
	b.WriteString("\n\n")

	submit := "[ register ]"
	switch {
	case creation.Busy():
		b.WriteString(m.spinner.View() + " registering...")
	case creation.SubmitEnabled():
		b.WriteString(selectedStyle.Render(submit))
	default:
		b.WriteString(disabledStyle.Render(submit))
	}
	b.WriteString("\n" + subtleStyle.Render("enter: register • esc: close"))
	return modalStyle.Render(b.String()) + "\n"
}

func (m *Model) viewDetail() string {
	d := m.detail
	bk := d.Book()

	var info strings.Builder
	info.WriteString(labelStyle.Render(bk.Title) + "\n")
	if len(bk.Authors) > 0 {
		info.WriteString(strings.Join(bk.Authors, ", ") + "\n")
	}
	info.WriteString(subtleStyle.Render(fmt.Sprintf("ISBN %s • %s • %s", bk.ISBN13, bk.Publisher, bk.PublishedDate)))
	if bk.Description != "" {
		info.WriteString("\n\n" + bk.Description)
	}

	var b strings.Builder
	b.WriteString(cardStyle.Render(info.String()))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Memos"))
	b.WriteString("\n")

	memos := d.Memos().Memos()
	if len(memos) == 0 {
		b.WriteString(subtleStyle.Render("No memos.") + "\n")
	}
	for i, mm := range memos {
		prefix := "  "
		if i == m.memoCursor && !m.memoFocus {
			prefix = selectedStyle.Render("> ")
		}
		b.WriteString(prefix + mm.Text + "\n")
	}
	b.WriteString("\n")
	b.WriteString(m.memoInput.View())

	if g := d.Gate(); g.Visible() {
		b.WriteString("\n\n")
		b.WriteString(severityStyle(g.Severity()).Render(g.Message() + "\n\n" + "y: delete • n: cancel"))
	}

	b.WriteString(helpStyle.Render("tab: write memo • x: delete memo • d: delete book • esc: back"))
	return b.String()
}

func (m *Model) viewToasts() string {
	toasts := m.toasts.visible()
	if len(toasts) == 0 {
		return ""
	}
	lines := make([]string, 0, len(toasts))
	for _, t := range toasts {
		lines = append(lines, toastStyle(t.msg.Level).Render(t.msg.Text))
	}
	return strings.Join(lines, "\n")
}
