// Package notify carries user-visible alerts from controllers to whatever
// surface is showing them (terminal toast, CLI stderr, test recorder).
package notify

import (
	"log/slog"
	"sync"
)

type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Message is one alert.
type Message struct {
	Level Level
	Text  string
}

// Notifier receives alerts. Implementations must be safe for concurrent use.
type Notifier interface {
	Notify(msg Message)
}

// Func adapts a function to Notifier.
type Func func(Message)

func (f Func) Notify(msg Message) { f(msg) }

// Error is shorthand for an error-level alert.
func Error(n Notifier, text string) {
	n.Notify(Message{Level: LevelError, Text: text})
}

// Warn is shorthand for a warning-level alert.
func Warn(n Notifier, text string) {
	n.Notify(Message{Level: LevelWarning, Text: text})
}

// Info is shorthand for an info-level alert.
func Info(n Notifier, text string) {
	n.Notify(Message{Level: LevelInfo, Text: text})
}

// Log writes alerts to slog.
type Log struct{}

func (Log) Notify(msg Message) {
	switch msg.Level {
	case LevelError:
		slog.Error(msg.Text, slog.String("op", "notify"))
	case LevelWarning:
		slog.Warn(msg.Text, slog.String("op", "notify"))
	default:
		slog.Info(msg.Text, slog.String("op", "notify"))
	}
}

// Discard drops every alert.
type Discard struct{}

func (Discard) Notify(Message) {}

// Recorder keeps every alert in order. Used by tests and by the CLI to
// decide its exit status.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) Notify(msg Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

// Messages returns a copy of the recorded alerts.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Last returns the most recent alert, if any.
func (r *Recorder) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return Message{}, false
	}
	return r.messages[len(r.messages)-1], true
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = nil
}

// Multi fans an alert out to several notifiers.
type Multi []Notifier

func (m Multi) Notify(msg Message) {
	for _, n := range m {
		n.Notify(msg)
	}
}
