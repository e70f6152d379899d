package toast

import (
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"
)

// Center is a notification stack with a lazily created overlay.
// All methods are safe for concurrent use.
type Center struct {
	config Config
	clock  Clock
	logger *slog.Logger

	cmds      chan func()
	done      chan struct{}
	closeOnce sync.Once

	// Everything below is owned by the run goroutine.
	seq          uint64
	entries      map[Handle]*entry
	order        []*entry
	overlay      *Overlay
	observers    []observerSlot
	nextObserver uint64
	closed       bool
}

type entry struct {
	n      Notification
	timer  Timer
	gen    uint64
	reason Reason
}

type observerSlot struct {
	id uint64
	o  Observer
}

// New creates a Center and starts its goroutine. Call Close to stop it.
//
// Config is taken literally: a zero Config makes every notification
// persistent and removes dismissed ones without an exit delay. Pass
// DefaultConfig() for the standard timings.
func New(config Config, opts ...CenterOption) *Center {
	c := &Center{
		config:  config,
		clock:   SystemClock(),
		logger:  slog.Default().With("component", "toast"),
		cmds:    make(chan func()),
		done:    make(chan struct{}),
		entries: make(map[Handle]*entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.config.MaxVisible < 0 {
		c.config.MaxVisible = 0
	}

	go c.run()
	return c
}

func (c *Center) run() {
	for {
		select {
		case cmd := <-c.cmds:
			cmd()
		case <-c.done:
			return
		}
	}
}

// exec runs fn on the center goroutine and waits for it.
// It returns false if the center has stopped.
func (c *Center) exec(fn func()) bool {
	finished := make(chan struct{})
	wrapped := func() {
		defer close(finished)
		fn()
	}
	select {
	case c.cmds <- wrapped:
	case <-c.done:
		return false
	}
	<-finished
	return true
}

// Config returns the configuration the center runs with.
func (c *Center) Config() Config {
	return c.config
}

// Notify shows a notification and returns its handle.
//
// Notify never fails. An unsupported kind is shown as KindInfo and an empty
// message is shown as given. After Close it returns the zero Handle.
func (c *Center) Notify(kind Kind, message string, opts ...Option) Handle {
	var req request
	for _, opt := range opts {
		opt(&req)
	}

	var h Handle
	c.exec(func() {
		h = c.notify(kind, message, req)
	})
	return h
}

// Success shows a success notification.
func (c *Center) Success(message string, opts ...Option) Handle {
	return c.Notify(KindSuccess, message, opts...)
}

// Error shows an error notification.
func (c *Center) Error(message string, opts ...Option) Handle {
	return c.Notify(KindError, message, opts...)
}

// Warning shows a warning notification.
func (c *Center) Warning(message string, opts ...Option) Handle {
	return c.Notify(KindWarning, message, opts...)
}

// Info shows an info notification.
func (c *Center) Info(message string, opts ...Option) Handle {
	return c.Notify(KindInfo, message, opts...)
}

// Dismiss starts removing the notification immediately, cancelling its
// timer. It returns true only for the call that started the dismissal;
// repeated calls and unknown handles are no-ops.
func (c *Center) Dismiss(h Handle) bool {
	var ok bool
	c.exec(func() {
		if e := c.entries[h]; e != nil {
			ok = c.dismiss(e, ReasonDismissed)
		}
	})
	return ok
}

// Activate triggers the notification's action: observers receive an
// EventAction and the notification is dismissed. It returns false when the
// notification has no action or is no longer Visible.
func (c *Center) Activate(h Handle) bool {
	var ok bool
	c.exec(func() {
		e := c.entries[h]
		if e == nil || e.n.Action == nil || e.n.State != StateVisible {
			return
		}
		c.emit(Event{
			Type:         EventAction,
			Notification: e.n,
			Overlay:      c.currentOverlay(),
			ActionID:     e.n.Action.ID,
			At:           c.clock.Now(),
		})
		ok = c.dismiss(e, ReasonAction)
	})
	return ok
}

// Get returns the attached notification for h.
func (c *Center) Get(h Handle) (Notification, bool) {
	var (
		n  Notification
		ok bool
	)
	c.exec(func() {
		if e := c.entries[h]; e != nil {
			n, ok = e.n, true
		}
	})
	return n, ok
}

// Active returns every attached notification (Visible or Dismissing) in
// arrival order.
func (c *Center) Active() []Notification {
	_, _, items := c.Snapshot()
	return items
}

// Overlay returns the live overlay, if any.
func (c *Center) Overlay() (Overlay, bool) {
	ov, ok, _ := c.Snapshot()
	return ov, ok
}

// Snapshot returns the overlay and its notifications as one consistent view.
func (c *Center) Snapshot() (Overlay, bool, []Notification) {
	var (
		ov    Overlay
		ok    bool
		items []Notification
	)
	c.WithSnapshot(func(o Overlay, present bool, ns []Notification) {
		ov, ok, items = o, present, ns
	})
	return ov, ok, items
}

// WithSnapshot calls fn with the current overlay and notifications on the
// center goroutine. No event is delivered while fn runs, so a mirror that
// starts listening inside fn sees the snapshot followed by every later
// event. fn must not call back into the Center. WithSnapshot returns false,
// without calling fn, once the center has stopped.
func (c *Center) WithSnapshot(fn func(ov Overlay, ok bool, items []Notification)) bool {
	return c.exec(func() {
		var ov Overlay
		if c.overlay != nil {
			ov = *c.overlay
		}
		items := make([]Notification, 0, len(c.order))
		for _, e := range c.order {
			items = append(items, e.n)
		}
		fn(ov, c.overlay != nil, items)
	})
}

// Subscribe registers o and returns a function that unregisters it.
func (c *Center) Subscribe(o Observer) func() {
	if o == nil {
		return func() {}
	}
	var id uint64
	c.exec(func() {
		c.nextObserver++
		id = c.nextObserver
		c.observers = append(c.observers, observerSlot{id: id, o: o})
	})
	return func() {
		c.exec(func() {
			for i, slot := range c.observers {
				if slot.id == id {
					c.observers = append(c.observers[:i:i], c.observers[i+1:]...)
					return
				}
			}
		})
	}
}

// Close removes every attached notification, destroys the overlay and stops
// the center. It is safe to call more than once.
func (c *Center) Close() {
	c.closeOnce.Do(func() {
		c.exec(c.teardown)
		close(c.done)
	})
}

func (c *Center) notify(kind Kind, message string, req request) Handle {
	if c.closed {
		c.logger.Debug("notify after close ignored", "kind", kind)
		return ""
	}

	now := c.clock.Now()
	if c.overlay == nil {
		c.overlay = &Overlay{ID: uuid.NewString(), CreatedAt: now}
		c.emit(Event{Type: EventOverlayCreated, Overlay: *c.overlay, At: now})
	}

	duration := c.config.DefaultDuration
	if req.hasDuration {
		duration = req.duration
	}
	if !kind.Valid() {
		c.logger.Debug("unknown kind, using info", "kind", string(kind))
	}

	c.seq++
	e := &entry{n: Notification{
		Handle:    newHandle(),
		Seq:       c.seq,
		Kind:      kind.orInfo(),
		Title:     req.title,
		Message:   message,
		Duration:  duration,
		Action:    req.action,
		CreatedAt: now,
		State:     StateCreated,
	}}
	c.entries[e.n.Handle] = e
	c.order = append(c.order, e)

	e.n.State = StateVisible
	c.emit(Event{Type: EventShown, Notification: e.n, Overlay: *c.overlay, At: now})

	if duration > 0 {
		h, gen := e.n.Handle, e.gen
		e.timer = c.clock.AfterFunc(duration, func() {
			c.exec(func() { c.expire(h, gen) })
		})
	}

	c.evict()
	return e.n.Handle
}

// evict dismisses the oldest Visible notifications beyond MaxVisible.
func (c *Center) evict() {
	if c.config.MaxVisible == 0 {
		return
	}
	visible := 0
	for _, e := range c.order {
		if e.n.State == StateVisible {
			visible++
		}
	}
	for _, e := range c.order {
		if visible <= c.config.MaxVisible {
			return
		}
		if e.n.State == StateVisible {
			c.dismiss(e, ReasonEvicted)
			visible--
		}
	}
}

func (c *Center) expire(h Handle, gen uint64) {
	e := c.entries[h]
	if e == nil || e.gen != gen {
		return
	}
	c.dismiss(e, ReasonTimeout)
}

// dismiss moves e from Visible to Dismissing and schedules its removal.
func (c *Center) dismiss(e *entry, reason Reason) bool {
	if e.n.State != StateVisible {
		return false
	}
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.gen++
	e.reason = reason
	e.n.State = StateDismissing
	c.emit(Event{
		Type:         EventDismissing,
		Notification: e.n,
		Overlay:      c.currentOverlay(),
		Reason:       reason,
		At:           c.clock.Now(),
	})

	if c.config.ExitDelay <= 0 {
		c.detach(e)
		return true
	}
	h, gen := e.n.Handle, e.gen
	e.timer = c.clock.AfterFunc(c.config.ExitDelay, func() {
		c.exec(func() { c.finish(h, gen) })
	})
	return true
}

func (c *Center) finish(h Handle, gen uint64) {
	e := c.entries[h]
	if e == nil || e.gen != gen || e.n.State != StateDismissing {
		return
	}
	c.detach(e)
}

// detach removes e from the overlay and tears the overlay down when it
// becomes empty.
func (c *Center) detach(e *entry) {
	if e.n.State == StateRemoved {
		return
	}
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.n.State = StateRemoved
	delete(c.entries, e.n.Handle)
	for i, other := range c.order {
		if other == e {
			c.order = append(c.order[:i:i], c.order[i+1:]...)
			break
		}
	}

	now := c.clock.Now()
	ov := c.currentOverlay()
	c.emit(Event{Type: EventRemoved, Notification: e.n, Overlay: ov, Reason: e.reason, At: now})

	if len(c.order) == 0 && c.overlay != nil {
		c.overlay = nil
		c.emit(Event{Type: EventOverlayDestroyed, Overlay: ov, At: now})
	}
}

func (c *Center) teardown() {
	if c.closed {
		return
	}
	c.closed = true

	pending := append([]*entry(nil), c.order...)
	for _, e := range pending {
		switch e.n.State {
		case StateVisible:
			if e.timer != nil {
				e.timer.Stop()
				e.timer = nil
			}
			e.gen++
			e.reason = ReasonShutdown
			e.n.State = StateDismissing
			c.emit(Event{
				Type:         EventDismissing,
				Notification: e.n,
				Overlay:      c.currentOverlay(),
				Reason:       ReasonShutdown,
				At:           c.clock.Now(),
			})
			c.detach(e)
		case StateDismissing:
			c.detach(e)
		}
	}
	c.observers = nil
}

func (c *Center) currentOverlay() Overlay {
	if c.overlay == nil {
		return Overlay{}
	}
	return *c.overlay
}

func (c *Center) emit(e Event) {
	for _, slot := range c.observers {
		c.deliver(slot.o, e)
	}
}

func (c *Center) deliver(o Observer, e Event) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("observer panic",
				"event", string(e.Type),
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	o.OnEvent(e)
}
