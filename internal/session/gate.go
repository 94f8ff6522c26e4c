// Package session decides, per navigation, whether the visitor may stay on a
// page or is sent to the login page.
package session

import (
	"context"
	"log/slog"

	"bookmemo/internal/book"
)

var publicPages = map[Page]bool{
	PageTop:           true,
	PageLogin:         true,
	PageCreateAccount: true,
}

// IsPublic reports whether page is reachable without a session.
func IsPublic(page Page) bool {
	return publicPages[page]
}

type Gate struct {
	prober    book.SessionProber
	navigator Navigator
}

func NewGate(prober book.SessionProber, navigator Navigator) *Gate {
	return &Gate{prober: prober, navigator: navigator}
}

// Check probes the collaborator. Every failure counts as logged out.
func (g *Gate) Check(ctx context.Context) bool {
	const op = "session.Gate.Check"

	ok, err := g.prober.CheckSession(ctx)
	if err != nil {
		slog.Warn("session probe failed", slog.String("op", op), slog.String("err", err.Error()))
		return false
	}
	return ok
}

// Guard returns whether the visitor may stay on page. Public pages are never
// probed. For any other page a failed check redirects to the login page.
func (g *Gate) Guard(ctx context.Context, page Page) bool {
	if IsPublic(page) {
		return true
	}
	if g.Check(ctx) {
		return true
	}
	g.redirectToLogin(page)
	return false
}

func (g *Gate) redirectToLogin(from Page) {
	slog.Info("redirecting to login", slog.String("op", "session.Gate.Guard"), slog.String("page", string(from)))
	if g.navigator != nil {
		g.navigator.Redirect(PageLogin)
	}
}
