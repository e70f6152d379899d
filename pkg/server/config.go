package server

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Config holds configuration for the HTTP/WebSocket server.
type Config struct {
	// Address is the address to listen on (e.g., ":8080" or "localhost:3000").
	// Default: ":8080".
	Address string

	// WebSocket buffer sizes

	// ReadBufferSize is the WebSocket read buffer size.
	// Default: 4096.
	ReadBufferSize int

	// WriteBufferSize is the WebSocket write buffer size.
	// Default: 4096.
	WriteBufferSize int

	// CheckOrigin is called to validate the WebSocket request origin.
	// Default: SameOriginCheck extended with AllowedOrigins.
	CheckOrigin func(r *http.Request) bool

	// AllowedOrigins lists extra origins (scheme://host[:port]) that may
	// open the WebSocket. Ignored when CheckOrigin is set.
	AllowedOrigins []string

	// Client limits

	// SendBuffer is the number of frames queued per client before the
	// client is considered slow and disconnected.
	// Default: 64.
	SendBuffer int

	// MaxMessageSize is the maximum size of an incoming WebSocket message.
	// Default: 4KB.
	MaxMessageSize int64

	// MaxBodyBytes limits API request bodies.
	// Default: 64KB.
	MaxBodyBytes int64

	// Timeouts

	// WriteWait is the time allowed to write a frame to a client.
	// Default: 10 seconds.
	WriteWait time.Duration

	// PongWait is the time allowed to read the next pong from a client.
	// Default: 60 seconds.
	PongWait time.Duration

	// PingInterval is the time between pings. Must be less than PongWait.
	// Default: 54 seconds.
	PingInterval time.Duration

	// ReadHeaderTimeout bounds reading request headers.
	// Default: 10 seconds.
	ReadHeaderTimeout time.Duration

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 10 seconds.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:           ":8080",
		ReadBufferSize:    4096,
		WriteBufferSize:   4096,
		SendBuffer:        64,
		MaxMessageSize:    4 * 1024,  // 4KB
		MaxBodyBytes:      64 * 1024, // 64KB
		WriteWait:         10 * time.Second,
		PongWait:          60 * time.Second,
		PingInterval:      54 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		ShutdownTimeout:   10 * time.Second,
	}
}

// withDefaults returns a copy of c with every unset field defaulted.
func (c *Config) withDefaults() *Config {
	d := DefaultConfig()
	if c == nil {
		d.CheckOrigin = OriginChecker(nil)
		return d
	}
	out := *c
	if out.Address == "" {
		out.Address = d.Address
	}
	if out.ReadBufferSize == 0 {
		out.ReadBufferSize = d.ReadBufferSize
	}
	if out.WriteBufferSize == 0 {
		out.WriteBufferSize = d.WriteBufferSize
	}
	if out.SendBuffer <= 0 {
		out.SendBuffer = d.SendBuffer
	}
	if out.MaxMessageSize <= 0 {
		out.MaxMessageSize = d.MaxMessageSize
	}
	if out.MaxBodyBytes <= 0 {
		out.MaxBodyBytes = d.MaxBodyBytes
	}
	if out.WriteWait <= 0 {
		out.WriteWait = d.WriteWait
	}
	if out.PongWait <= 0 {
		out.PongWait = d.PongWait
	}
	if out.PingInterval <= 0 || out.PingInterval >= out.PongWait {
		out.PingInterval = out.PongWait * 9 / 10
	}
	if out.ReadHeaderTimeout <= 0 {
		out.ReadHeaderTimeout = d.ReadHeaderTimeout
	}
	if out.ShutdownTimeout <= 0 {
		out.ShutdownTimeout = d.ShutdownTimeout
	}
	if out.CheckOrigin == nil {
		out.CheckOrigin = OriginChecker(out.AllowedOrigins)
	}
	return &out
}

// SameOriginCheck validates that the WebSocket request origin matches the host.
// Requests without an Origin header (curl, same-origin) are allowed.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}

	host := r.Host
	if host == "" {
		return false
	}
	return originURL.Host == host
}

// OriginChecker returns a CheckOrigin func that accepts same-origin
// requests plus any of the allowed origins. Comparison is
// case-insensitive and ignores a trailing slash.
func OriginChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		o = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(o)), "/")
		if o != "" {
			set[o] = struct{}{}
		}
	}
	return func(r *http.Request) bool {
		if SameOriginCheck(r) {
			return true
		}
		origin := strings.TrimSuffix(strings.ToLower(r.Header.Get("Origin")), "/")
		_, ok := set[origin]
		return ok
	}
}
