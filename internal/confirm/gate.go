// Package confirm implements the yes/no barrier placed in front of every
// destructive action.
//
// Confirm does not close the gate. The caller closes it once the guarded
// action has succeeded, or leaves it open so the user can retry or cancel.
// The confirm action can fire at most once per open cycle: the gate disarms
// while onConfirm runs and only re-arms if the caller left it open.
package confirm

import (
	"context"
	"sync"
)

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityDanger
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityDanger:
		return "danger"
	default:
		return "unknown"
	}
}

type Gate struct {
	message  string
	severity Severity

	onConfirm func(ctx context.Context)
	onCancel  func()

	mu      sync.Mutex
	visible bool
	armed   bool
}

// New builds a hidden gate. A nil onCancel defaults to closing the gate.
func New(message string, severity Severity, onConfirm func(ctx context.Context), onCancel func()) *Gate {
	g := &Gate{
		message:   message,
		severity:  severity,
		onConfirm: onConfirm,
		onCancel:  onCancel,
	}
	if g.onCancel == nil {
		g.onCancel = g.Close
	}
	return g
}

func (g *Gate) Message() string    { return g.message }
func (g *Gate) Severity() Severity { return g.severity }

// Visible reports whether the gate is currently shown.
func (g *Gate) Visible() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.visible
}

// Open shows the gate and arms the confirm action. Opening an already
// visible gate is a no-op.
func (g *Gate) Open() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.visible {
		return
	}
	g.visible = true
	g.armed = true
}

// Close hides the gate.
func (g *Gate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.visible = false
	g.armed = false
}

// Confirm runs onConfirm if the gate is visible and armed. It reports whether
// onConfirm ran.
func (g *Gate) Confirm(ctx context.Context) bool {
	g.mu.Lock()
	if !g.visible || !g.armed {
		g.mu.Unlock()
		return false
	}
	g.armed = false
	g.mu.Unlock()

	if g.onConfirm != nil {
		g.onConfirm(ctx)
	}

	g.mu.Lock()
	if g.visible {
		g.armed = true
	}
	g.mu.Unlock()
	return true
}

// Cancel runs onCancel if the gate is visible and not in the middle of a
// confirm. It reports whether onCancel ran.
func (g *Gate) Cancel() bool {
	g.mu.Lock()
	if !g.visible || !g.armed {
		g.mu.Unlock()
		return false
	}
	g.mu.Unlock()

	g.onCancel()
	return true
}
