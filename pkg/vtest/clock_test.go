package vtest

import (
	"testing"
	"time"

	"github.com/vango-dev/toastd/pkg/toast"
	"github.com/vango-dev/toastd/pkg/vdom"
)

func TestClockAdvance(t *testing.T) {
	start := time.Unix(0, 0)
	c := NewClock(start)

	var fired []string
	c.AfterFunc(2*time.Second, func() { fired = append(fired, "b") })
	c.AfterFunc(time.Second, func() {
		fired = append(fired, "a")
		// Scheduled from a callback and due within the same Advance.
		c.AfterFunc(500*time.Millisecond, func() { fired = append(fired, "a2") })
	})
	stopped := c.AfterFunc(time.Second, func() { fired = append(fired, "stopped") })
	if !stopped.Stop() {
		t.Fatal("first Stop should succeed")
	}
	if stopped.Stop() {
		t.Error("second Stop should fail")
	}

	c.Advance(2 * time.Second)

	want := []string{"a", "a2", "b"}
	if len(fired) != len(want) {
		t.Fatalf("fired = %v, want %v", fired, want)
	}
	for i := range want {
		if fired[i] != want[i] {
			t.Fatalf("fired = %v, want %v", fired, want)
		}
	}
	if got := c.Now(); !got.Equal(start.Add(2 * time.Second)) {
		t.Errorf("Now = %v", got)
	}
	if c.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", c.Pending())
	}
}

func TestClockNowDuringCallback(t *testing.T) {
	start := time.Unix(0, 0)
	c := NewClock(start)

	var at time.Time
	c.AfterFunc(time.Second, func() { at = c.Now() })
	c.Advance(time.Minute)

	if !at.Equal(start.Add(time.Second)) {
		t.Errorf("callback saw %v, want deadline", at)
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.OnEvent(toast.Event{Type: toast.EventShown, Notification: toast.Notification{Handle: "a"}})
	r.OnEvent(toast.Event{Type: toast.EventShown, Notification: toast.Notification{Handle: "b"}})
	r.OnEvent(toast.Event{Type: toast.EventRemoved, Notification: toast.Notification{Handle: "a"}})

	if n := r.Count(toast.EventShown); n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
	if n := len(r.For("a")); n != 2 {
		t.Errorf("For(a) = %d events, want 2", n)
	}
	if types := r.Types(); len(types) != 3 || types[2] != toast.EventRemoved {
		t.Errorf("Types = %v", types)
	}
	r.Reset()
	if len(r.Events()) != 0 {
		t.Error("Reset should clear events")
	}
}

func TestRenderToString(t *testing.T) {
	if RenderToString(nil) != "" {
		t.Error("nil should render empty")
	}
	node := vdom.Div(vdom.Role("status"), vdom.Text("hi"))
	ExpectContains(t, node, "hi")
	ExpectNotContains(t, node, "bye")
	ExpectAttribute(t, node, "role", "status")
}
