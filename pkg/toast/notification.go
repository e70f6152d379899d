package toast

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Handle identifies a notification for later dismissal.
// The zero Handle is never issued by a Center.
type Handle string

func newHandle() Handle {
	return Handle(uuid.NewString())
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool { return h == "" }

// State is the lifecycle state of a notification.
type State uint8

const (
	StateCreated State = iota
	StateVisible
	StateDismissing
	StateRemoved
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateVisible:
		return "visible"
	case StateDismissing:
		return "dismissing"
	case StateRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Action is an optional button rendered next to the message.
type Action struct {
	Label string `json:"label"`
	ID    string `json:"id"`
}

// Notification is a snapshot of one toast.
type Notification struct {
	Handle    Handle        `json:"handle"`
	Seq       uint64        `json:"seq"`
	Kind      Kind          `json:"kind"`
	Title     string        `json:"title,omitempty"`
	Message   string        `json:"message"`
	Duration  time.Duration `json:"-"`
	Action    *Action       `json:"action,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	State     State         `json:"state"`
}

// MarshalJSON encodes Duration as whole milliseconds in "durationMs".
func (n Notification) MarshalJSON() ([]byte, error) {
	type plain Notification
	return json.Marshal(struct {
		plain
		DurationMs int64 `json:"durationMs"`
	}{plain(n), n.Duration.Milliseconds()})
}

// Persistent reports whether the notification stays until dismissed.
func (n Notification) Persistent() bool {
	return n.Duration <= 0
}

// request collects the per-call options for Notify.
type request struct {
	title       string
	duration    time.Duration
	hasDuration bool
	action      *Action
}

// Option configures a single Notify call.
type Option func(*request)

// WithTitle sets the bold title shown above the message.
func WithTitle(title string) Option {
	return func(r *request) {
		r.title = title
	}
}

// WithDuration sets how long the notification stays visible.
// A duration of zero or less makes it persistent.
func WithDuration(d time.Duration) Option {
	return func(r *request) {
		r.duration = d
		r.hasDuration = true
	}
}

// Persistent keeps the notification until it is dismissed explicitly.
func Persistent() Option {
	return WithDuration(0)
}

// WithAction adds an action button. Activating it emits an EventAction
// carrying id and dismisses the notification.
func WithAction(label, id string) Option {
	return func(r *request) {
		r.action = &Action{Label: label, ID: id}
	}
}
