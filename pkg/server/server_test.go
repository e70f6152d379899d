package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/toastd/pkg/toast"
	"github.com/vango-dev/toastd/pkg/vtest"
)

// newTestServer returns a server whose center removes dismissed toasts
// immediately and never expires them on its own.
func newTestServer(t *testing.T, cfg *Config, opts ...Option) (*Server, *toast.Center, *vtest.Recorder) {
	t.Helper()
	tc := toast.DefaultConfig()
	tc.ExitDelay = 0
	rec := vtest.NewRecorder()
	center := toast.New(tc,
		toast.WithClock(vtest.NewClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))),
		toast.WithObserver(rec),
	)
	srv := New(center, cfg, opts...)
	t.Cleanup(func() {
		srv.unsubscribe()
		srv.hub.Close()
		center.Close()
	})
	return srv, center, rec
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndList(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)

	rec := do(t, srv, http.MethodPost, "/api/toasts",
		`{"kind":"success","title":"Saved","message":"Profile updated","durationMs":1500}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST status = %d, body = %s", rec.Code, rec.Body)
	}
	var created CreateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	if created.Handle.IsZero() {
		t.Fatal("expected a handle")
	}

	rec = do(t, srv, http.MethodGet, "/api/toasts", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d", rec.Code)
	}
	var list struct {
		Overlay *toast.Overlay `json:"overlay"`
		Toasts  []struct {
			Handle     string `json:"handle"`
			Kind       string `json:"kind"`
			Title      string `json:"title"`
			Message    string `json:"message"`
			DurationMs int64  `json:"durationMs"`
			State      string `json:"state"`
		} `json:"toasts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.Overlay == nil || list.Overlay.ID == "" {
		t.Fatal("expected an overlay")
	}
	if len(list.Toasts) != 1 {
		t.Fatalf("toasts = %d, want 1", len(list.Toasts))
	}
	got := list.Toasts[0]
	if got.Handle != string(created.Handle) || got.Kind != "success" || got.Title != "Saved" ||
		got.Message != "Profile updated" || got.DurationMs != 1500 || got.State != "visible" {
		t.Errorf("unexpected toast: %+v", got)
	}
}

func TestCreate_UnknownKindFallsBackToInfo(t *testing.T) {
	srv, center, _ := newTestServer(t, nil)

	rec := do(t, srv, http.MethodPost, "/api/toasts", `{"kind":"shout","message":"hi"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	active := center.Active()
	if len(active) != 1 || active[0].Kind != toast.KindInfo {
		t.Fatalf("active = %+v", active)
	}
	if active[0].Duration != toast.DefaultDuration {
		t.Errorf("duration = %v, want default", active[0].Duration)
	}
}

func TestCreate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed json", `{"kind":`, http.StatusBadRequest, "T020"},
		{"wrong type", `{"message":42}`, http.StatusBadRequest, "T020"},
		{"too large", `{"message":"` + strings.Repeat("x", 256) + `"}`, http.StatusRequestEntityTooLarge, "T021"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, center, _ := newTestServer(t, &Config{MaxBodyBytes: 128})

			rec := do(t, srv, http.MethodPost, "/api/toasts", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body)
			}
			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error.Code != tt.code {
				t.Errorf("code = %q, want %q", body.Error.Code, tt.code)
			}
			if n := len(center.Active()); n != 0 {
				t.Errorf("active = %d, want 0", n)
			}
		})
	}
}

func TestCreate_AfterCenterClosed(t *testing.T) {
	srv, center, _ := newTestServer(t, nil)
	center.Close()

	rec := do(t, srv, http.MethodPost, "/api/toasts", `{"message":"late"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestDismiss_IsIdempotent(t *testing.T) {
	srv, center, rec := newTestServer(t, nil)
	h := center.Info("bye", toast.Persistent())

	for i := 0; i < 2; i++ {
		if got := do(t, srv, http.MethodDelete, "/api/toasts/"+string(h), ""); got.Code != http.StatusNoContent {
			t.Fatalf("DELETE #%d status = %d", i+1, got.Code)
		}
	}
	if got := do(t, srv, http.MethodDelete, "/api/toasts/unknown", ""); got.Code != http.StatusNoContent {
		t.Fatalf("DELETE unknown status = %d", got.Code)
	}

	if n := rec.Count(toast.EventRemoved); n != 1 {
		t.Errorf("removed events = %d, want 1", n)
	}
	if _, ok := center.Overlay(); ok {
		t.Error("expected overlay to be destroyed")
	}

	list := do(t, srv, http.MethodGet, "/api/toasts", "")
	if !strings.Contains(list.Body.String(), `"overlay":null`) || !strings.Contains(list.Body.String(), `"toasts":[]`) {
		t.Errorf("list body = %s", list.Body)
	}
}

func TestAction(t *testing.T) {
	srv, center, rec := newTestServer(t, nil)
	h := center.Warning("Deleted", toast.WithAction("Undo", "undo-42"), toast.Persistent())

	if got := do(t, srv, http.MethodPost, "/api/toasts/"+string(h)+"/action", ""); got.Code != http.StatusNoContent {
		t.Fatalf("status = %d", got.Code)
	}

	var action *toast.Event
	for _, e := range rec.For(h) {
		if e.Type == toast.EventAction {
			e := e
			action = &e
		}
	}
	if action == nil {
		t.Fatal("expected an action event")
	}
	if action.ActionID != "undo-42" {
		t.Errorf("action id = %q", action.ActionID)
	}
	if _, ok := center.Get(h); ok {
		t.Error("expected notification to be removed after action")
	}
}

func TestPage(t *testing.T) {
	srv, center, _ := newTestServer(t, nil)

	rec := do(t, srv, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"<!DOCTYPE html>", `id="toast-form"`, `src="/toast.js"`, `<option selected value="success">`} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(body, `id="toast-overlay"`) {
		t.Error("page should not render an overlay without notifications")
	}

	center.Error("Disk full", toast.Persistent())
	body = do(t, srv, http.MethodGet, "/", "").Body.String()
	if !strings.Contains(body, `id="toast-overlay"`) || !strings.Contains(body, "Disk full") {
		t.Errorf("page missing server-rendered overlay:\n%s", body)
	}
}

func TestStaticRoutes(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)

	js := do(t, srv, http.MethodGet, "/toast.js", "")
	if js.Code != http.StatusOK || !strings.HasPrefix(js.Header().Get("Content-Type"), "application/javascript") {
		t.Fatalf("toast.js status = %d type = %q", js.Code, js.Header().Get("Content-Type"))
	}
	if !bytes.Contains(js.Body.Bytes(), []byte("toast-overlay")) {
		t.Error("client script does not reference the overlay")
	}

	health := do(t, srv, http.MethodGet, "/healthz", "")
	if health.Code != http.StatusOK || health.Body.String() != "ok" {
		t.Fatalf("healthz = %d %q", health.Code, health.Body)
	}

	if got := do(t, srv, http.MethodGet, "/metrics", ""); got.Code != http.StatusNotFound {
		t.Errorf("metrics without handler status = %d, want 404", got.Code)
	}
}

func TestWithMetricsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_total", Help: "test"})
	reg.MustRegister(c)
	c.Inc()

	srv, _, _ := newTestServer(t, nil,
		WithMetricsHandler("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	rec := do(t, srv, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "test_total 1") {
		t.Errorf("metrics body = %s", rec.Body)
	}
}

func TestWithMiddleware(t *testing.T) {
	var seen []string
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = append(seen, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}
	srv, _, _ := newTestServer(t, nil, WithMiddleware(mw))

	do(t, srv, http.MethodGet, "/healthz", "")
	if len(seen) != 1 || seen[0] != "/healthz" {
		t.Fatalf("middleware saw %v", seen)
	}
}

func TestServe_StopsOnContextCancel(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/healthz"
	waitFor(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	})

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Serve() = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestRun_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	srv, _, _ := newTestServer(t, &Config{Address: ln.Addr().String()})
	err = srv.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "T041") {
		t.Fatalf("Run() = %v, want T041", err)
	}
}
