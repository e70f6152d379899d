package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vango-dev/toastd/internal/errors"
	"github.com/vango-dev/toastd/pkg/toast"
)

// Notifier receives decoded requests. *toast.Center implements it.
type Notifier interface {
	Submit(r toast.Request) toast.Handle
}

// Relay feeds messages from a Redis channel into a Notifier. Each message
// is the JSON body accepted by POST /api/toasts.
type Relay struct {
	client   redis.UniversalClient
	channel  string
	notifier Notifier
	logger   *slog.Logger
}

// Option configures a Relay.
type Option func(*Relay)

// WithLogger sets the relay logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) {
		r.logger = logger
	}
}

// New creates a relay for channel. It does not subscribe until Run.
func New(client redis.UniversalClient, channel string, notifier Notifier, opts ...Option) *Relay {
	r := &Relay{
		client:   client,
		channel:  channel,
		notifier: notifier,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "relay", "channel", channel)
	return r
}

// Run subscribes and relays messages until ctx is done. It returns nil on
// cancellation and a T080 error if the subscription cannot be established.
func (r *Relay) Run(ctx context.Context) error {
	pubsub := r.client.Subscribe(ctx, r.channel)
	defer pubsub.Close()

	// Receive blocks until the subscription is confirmed.
	if _, err := pubsub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return errors.New("T080").
			WithDetail("Could not subscribe to " + r.channel).
			Wrap(err)
	}
	r.logger.Info("relay subscribed")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if _, err := r.Handle(msg.Payload); err != nil {
				r.logger.Warn("relay message skipped", "error", err)
			}
		}
	}
}

// Handle decodes one payload and submits it.
func (r *Relay) Handle(payload string) (toast.Handle, error) {
	req, err := Decode(payload)
	if err != nil {
		return "", err
	}
	h := r.notifier.Submit(req)
	if h.IsZero() {
		return "", errors.New("T022")
	}
	r.logger.Debug("relayed", "handle", string(h), "kind", req.Kind)
	return h, nil
}

// Decode parses a relay payload. Unknown fields are ignored.
func Decode(payload string) (toast.Request, error) {
	var req toast.Request
	dec := json.NewDecoder(strings.NewReader(payload))
	if err := dec.Decode(&req); err != nil {
		return toast.Request{}, errors.New("T081").WithDetail(err.Error())
	}
	return req, nil
}

// Publish sends req to channel for any subscribed relay.
func Publish(ctx context.Context, client redis.UniversalClient, channel string, req toast.Request) error {
	data, err := json.Marshal(req)
	if err != nil {
		return errors.New("T082").Wrap(err)
	}
	if err := client.Publish(ctx, channel, data).Err(); err != nil {
		return errors.New("T082").
			WithDetail("Could not publish to " + channel).
			Wrap(err)
	}
	return nil
}

// Connect parses url, then pings the server until it answers, ctx is done
// or attempts run out.
func Connect(ctx context.Context, url string, attempts int, interval time.Duration) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.New("T080").
			WithDetail("Invalid Redis URL").
			WithSuggestion("Use the form redis://[:password@]host:6379/0").
			Wrap(err)
	}
	if attempts < 1 {
		attempts = 1
	}

	client := redis.NewClient(opts)
	var lastErr error
	for i := 0; i < attempts; i++ {
		if lastErr = client.Ping(ctx).Err(); lastErr == nil {
			return client, nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			client.Close()
			return nil, errors.New("T080").Wrap(ctx.Err())
		case <-time.After(interval):
		}
	}
	client.Close()
	return nil, errors.New("T080").
		WithDetailf("Redis at %s did not answer after %d attempts", opts.Addr, attempts).
		Wrap(lastErr)
}
