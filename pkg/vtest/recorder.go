package vtest

import (
	"sync"

	"github.com/vango-dev/toastd/pkg/toast"
)

// Recorder is a toast.Observer that keeps every event it receives.
type Recorder struct {
	mu     sync.Mutex
	events []toast.Event
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// OnEvent implements toast.Observer.
func (r *Recorder) OnEvent(e toast.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []toast.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]toast.Event(nil), r.events...)
}

// Types returns the recorded event types in order.
func (r *Recorder) Types() []toast.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]toast.EventType, len(r.events))
	for i, e := range r.events {
		types[i] = e.Type
	}
	return types
}

// Count returns how many events of type t were recorded.
func (r *Recorder) Count(t toast.EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

// For returns the events recorded for handle h.
func (r *Recorder) For(h toast.Handle) []toast.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []toast.Event
	for _, e := range r.events {
		if e.Notification.Handle == h {
			out = append(out, e)
		}
	}
	return out
}

// Reset discards the recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
