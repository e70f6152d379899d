package toast

import "time"

// EventType identifies what happened in the center.
type EventType string

const (
	EventOverlayCreated   EventType = "overlay_created"
	EventShown            EventType = "shown"
	EventDismissing       EventType = "dismissing"
	EventRemoved          EventType = "removed"
	EventOverlayDestroyed EventType = "overlay_destroyed"
	EventAction           EventType = "action"
)

// Reason explains why a notification left the Visible state.
type Reason string

const (
	ReasonNone      Reason = ""
	ReasonTimeout   Reason = "timeout"
	ReasonDismissed Reason = "dismissed"
	ReasonAction    Reason = "action"
	ReasonEvicted   Reason = "evicted"
	ReasonShutdown  Reason = "shutdown"
)

// Overlay is the shared container hosting every attached notification.
type Overlay struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// Event is delivered to observers for every lifecycle transition.
//
// Notification is the zero value for overlay events.
type Event struct {
	Type         EventType
	Notification Notification
	Overlay      Overlay
	Reason       Reason
	ActionID     string
	At           time.Time
}

// Observer receives center events. It runs on the center's goroutine.
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// OnEvent implements Observer.
func (f ObserverFunc) OnEvent(e Event) {
	f(e)
}
