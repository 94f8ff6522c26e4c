package session

import (
	"context"
	"sync"
)

// Status is what a navigation learned about the session.
type Status int

const (
	// StatusUnknown: the page is public or the probe has not resolved yet.
	StatusUnknown Status = iota
	StatusLoggedIn
	StatusLoggedOut
)

func (s Status) String() string {
	switch s {
	case StatusLoggedIn:
		return "logged_in"
	case StatusLoggedOut:
		return "logged_out"
	default:
		return "unknown"
	}
}

// Provider is the single session query shared by every screen. Each
// navigation runs the gate once; screens read the result and never probe on
// their own.
type Provider struct {
	gate *Gate

	mu     sync.Mutex
	seq    uint64
	page   Page
	status Status
	probes int
}

func NewProvider(gate *Gate) *Provider {
	return &Provider{gate: gate}
}

// Navigate runs the guard for page and reports whether the visitor may stay.
// When navigations overlap only the latest one records its result or
// redirects. The redirect runs under the provider lock, so a navigator must
// not call back into the provider.
func (p *Provider) Navigate(ctx context.Context, page Page) bool {
	p.mu.Lock()
	p.seq++
	seq := p.seq
	p.page = page
	p.status = StatusUnknown
	if !IsPublic(page) {
		p.probes++
	}
	p.mu.Unlock()

	if IsPublic(page) {
		return true
	}

	allowed := p.gate.Check(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if seq != p.seq {
		return allowed
	}
	if allowed {
		p.status = StatusLoggedIn
	} else {
		p.status = StatusLoggedOut
		p.gate.redirectToLogin(page)
	}
	return allowed
}

// Page is the target of the latest navigation.
func (p *Provider) Page() Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

func (p *Provider) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// LoggedIn reports whether the latest navigation confirmed a session.
func (p *Provider) LoggedIn() bool {
	return p.Status() == StatusLoggedIn
}

// Probes counts the session checks issued so far.
func (p *Provider) Probes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.probes
}
