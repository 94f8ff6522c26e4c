package tui

import (
	"sync"

	"bookmemo/internal/notify"
)

const maxVisibleToasts = 3

type toast struct {
	id  int
	msg notify.Message
}

// toastQueue is the notifier behind the toast area. Controllers push from
// command goroutines; the model reads and expires toasts on the UI loop.
type toastQueue struct {
	mu        sync.Mutex
	next      int
	items     []toast
	scheduled map[int]bool
}

func newToastQueue() *toastQueue {
	return &toastQueue{scheduled: make(map[int]bool)}
}

func (q *toastQueue) Notify(msg notify.Message) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.next++
	q.items = append(q.items, toast{id: q.next, msg: msg})
}

// visible returns the newest toasts, oldest first.
func (q *toastQueue) visible() []toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	start := 0
	if len(q.items) > maxVisibleToasts {
		start = len(q.items) - maxVisibleToasts
	}
	out := make([]toast, len(q.items)-start)
	copy(out, q.items[start:])
	return out
}

// unscheduled returns ids that have no expiry timer yet and marks them.
func (q *toastQueue) unscheduled() []int {
	q.mu.Lock()
	defer q.mu.Unlock()
	var ids []int
	for _, t := range q.items {
		if !q.scheduled[t.id] {
			q.scheduled[t.id] = true
			ids = append(ids, t.id)
		}
	}
	return ids
}

func (q *toastQueue) drop(id int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.scheduled, id)
	for i, t := range q.items {
		if t.id == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return
		}
	}
}

func (q *toastQueue) clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
	q.scheduled = make(map[int]bool)
}
