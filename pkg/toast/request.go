package toast

import (
	"math"
	"time"
)

// maxDurationMs is the largest millisecond count a time.Duration holds.
const maxDurationMs = math.MaxInt64 / int64(time.Millisecond)

// Request is the wire form of a Notify call, shared by the HTTP API and
// the Redis relay.
type Request struct {
	Kind       string  `json:"kind"`
	Title      string  `json:"title,omitempty"`
	Message    string  `json:"message"`
	DurationMs *int64  `json:"durationMs,omitempty"`
	Persistent bool    `json:"persistent,omitempty"`
	Action     *Action `json:"action,omitempty"`
}

// Options converts the request to Notify options. A nil DurationMs keeps
// the center default; Persistent wins over DurationMs. Negative durations
// mean persistent, and durations beyond what time.Duration holds are clamped.
func (r Request) Options() []Option {
	var opts []Option
	if r.Title != "" {
		opts = append(opts, WithTitle(r.Title))
	}
	switch {
	case r.Persistent:
		opts = append(opts, Persistent())
	case r.DurationMs != nil:
		ms := min(max(*r.DurationMs, 0), maxDurationMs)
		opts = append(opts, WithDuration(time.Duration(ms)*time.Millisecond))
	}
	if r.Action != nil && r.Action.Label != "" {
		opts = append(opts, WithAction(r.Action.Label, r.Action.ID))
	}
	return opts
}

// Submit shows the notification described by r.
func (c *Center) Submit(r Request) Handle {
	return c.Notify(ParseKind(r.Kind), r.Message, r.Options()...)
}
