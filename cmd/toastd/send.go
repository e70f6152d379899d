package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/toastd/internal/config"
	"github.com/vango-dev/toastd/internal/errors"
	"github.com/vango-dev/toastd/internal/relay"
	"github.com/vango-dev/toastd/pkg/toast"
)

type sendOptions struct {
	kind        string
	title       string
	duration    time.Duration
	persistent  bool
	actionLabel string
	actionID    string
	addr        string
	redisURL    string
	channel     string
	timeout     time.Duration
}

func sendCmd() *cobra.Command {
	var opts sendOptions

	cmd := &cobra.Command{
		Use:   "send <message>",
		Short: "Send a notification to a running server",
		Long: `Send a notification to a running toastd server.

By default the notification is posted to the server's HTTP API. With
--redis it is published on the relay channel instead, and every server
subscribed to that channel shows it.

Examples:
  toastd send "Saved"
  toastd send --kind error --title Upload "Disk full" --persistent
  toastd send --kind warning --duration 10s "Low battery"
  toastd send --action-label Undo --action-id undo-42 "Item deleted"
  toastd send --redis redis://localhost:6379/0 "Deploy finished"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := opts.request(args[0])

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			if opts.redisURL != "" {
				client, err := relay.Connect(ctx, opts.redisURL, 1, 0)
				if err != nil {
					return err
				}
				defer client.Close()

				if err := relay.Publish(ctx, client, opts.channel, req); err != nil {
					return err
				}
				success("Published to %s", opts.channel)
				return nil
			}

			h, err := sendHTTP(ctx, opts.addr, req)
			if err != nil {
				return err
			}
			success("Sent %s", h)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.kind, "kind", "k", string(toast.KindInfo), "Notification kind (info, success, warning, error)")
	f.StringVarP(&opts.title, "title", "t", "", "Optional title")
	f.DurationVarP(&opts.duration, "duration", "d", 0, "Display duration (0 uses the server default)")
	f.BoolVarP(&opts.persistent, "persistent", "p", false, "Keep the notification until dismissed")
	f.StringVar(&opts.actionLabel, "action-label", "", "Label of the action button")
	f.StringVar(&opts.actionID, "action-id", "", "Identifier reported when the action is activated")
	f.StringVar(&opts.addr, "addr", "http://localhost:8080", "Server base URL")
	f.StringVar(&opts.redisURL, "redis", "", "Publish through Redis instead of HTTP")
	f.StringVar(&opts.channel, "channel", config.DefaultRelayChannel, "Relay channel used with --redis")
	f.DurationVar(&opts.timeout, "timeout", 10*time.Second, "Give up after this long")

	return cmd
}

// request builds the wire request for message.
func (o sendOptions) request(message string) toast.Request {
	req := toast.Request{
		Kind:       o.kind,
		Title:      o.title,
		Message:    message,
		Persistent: o.persistent,
	}
	if o.duration > 0 {
		ms := o.duration.Milliseconds()
		req.DurationMs = &ms
	}
	if o.actionLabel != "" {
		id := o.actionID
		if id == "" {
			id = o.actionLabel
		}
		req.Action = &toast.Action{Label: o.actionLabel, ID: id}
	}
	return req
}

// sendHTTP posts req to addr's API and returns the new handle. API errors
// are decoded back into *errors.Error.
func sendHTTP(ctx context.Context, addr string, req toast.Request) (toast.Handle, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", errors.New("T042").Wrap(err)
	}

	url := strings.TrimRight(addr, "/") + "/api/toasts"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", errors.New("T042").WithDetail("Invalid server address " + addr).Wrap(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return "", errors.New("T042").
			WithDetail("Could not reach " + url).
			WithSuggestion("Is `toastd serve` running? Use --addr to point at it.").
			Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		var apiErr struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
				Detail  string `json:"detail"`
			} `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error.Code != "" {
			e := errors.New(apiErr.Error.Code)
			if apiErr.Error.Detail != "" {
				e = e.WithDetail(apiErr.Error.Detail)
			}
			return "", e
		}
		return "", errors.New("T042").WithDetailf("Server answered %s", resp.Status)
	}

	var created struct {
		Handle toast.Handle `json:"handle"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", errors.New("T042").WithDetail("Malformed server response").Wrap(err)
	}
	if created.Handle.IsZero() {
		return "", errors.New("T042").WithDetail("Server returned no handle")
	}
	return created.Handle, nil
}
