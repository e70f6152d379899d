package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type recordingProvider struct {
	noop.TracerProvider

	mu    sync.Mutex
	spans []*recordingSpan
}

func (p *recordingProvider) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return &recordingTracer{p: p}
}

func (p *recordingProvider) last(t *testing.T) *recordingSpan {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.spans) == 0 {
		t.Fatal("no spans recorded")
	}
	return p.spans[len(p.spans)-1]
}

type recordingTracer struct {
	noop.Tracer
	p *recordingProvider
}

func (tr *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	_, inner := tr.Tracer.Start(ctx, name, opts...)
	s := &recordingSpan{Span: inner, name: name, kind: cfg.SpanKind()}
	s.attrs = append(s.attrs, cfg.Attributes()...)

	tr.p.mu.Lock()
	tr.p.spans = append(tr.p.spans, s)
	tr.p.mu.Unlock()
	return trace.ContextWithSpan(ctx, s), s
}

type recordingSpan struct {
	trace.Span

	name   string
	kind   trace.SpanKind
	attrs  []attribute.KeyValue
	status codes.Code
	ended  bool
}

func (s *recordingSpan) SetName(name string)                    { s.name = name }
func (s *recordingSpan) SetAttributes(kv ...attribute.KeyValue) { s.attrs = append(s.attrs, kv...) }
func (s *recordingSpan) SetStatus(c codes.Code, _ string)       { s.status = c }
func (s *recordingSpan) End(...trace.SpanEndOption)             { s.ended = true }

func (s *recordingSpan) attr(key string) (attribute.Value, bool) {
	for _, kv := range s.attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestOpenTelemetry_NamesSpanAfterRoute(t *testing.T) {
	tp := &recordingProvider{}

	var inHandler trace.Span
	r := chi.NewRouter()
	r.Use(OpenTelemetry(
		WithTracerProvider(tp),
		WithAttributeExtractor(func(*http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	))
	r.Post("/api/toasts/{handle}/action", func(w http.ResponseWriter, r *http.Request) {
		inHandler = trace.SpanFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/toasts/abc/action", nil))

	span := tp.last(t)
	if inHandler != span {
		t.Fatal("expected handler context to carry the request span")
	}
	if span.name != "POST /api/toasts/{handle}/action" {
		t.Errorf("span name = %q", span.name)
	}
	if span.kind != trace.SpanKindServer {
		t.Errorf("span kind = %v, want server", span.kind)
	}
	if !span.ended {
		t.Error("expected span to be ended")
	}
	if v, ok := span.attr("http.response.status_code"); !ok || v.AsInt64() != http.StatusNoContent {
		t.Errorf("status attribute = %v, %v", v.AsInt64(), ok)
	}
	if v, ok := span.attr("test.attr"); !ok || v.AsString() != "ok" {
		t.Errorf("custom attribute = %q, %v", v.AsString(), ok)
	}
	if span.status == codes.Error {
		t.Error("unexpected error status")
	}
}

func TestOpenTelemetry_ServerErrorSetsStatus(t *testing.T) {
	tp := &recordingProvider{}

	r := chi.NewRouter()
	r.Use(OpenTelemetry(WithTracerProvider(tp)))
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusServiceUnavailable)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	if got := tp.last(t).status; got != codes.Error {
		t.Fatalf("status = %v, want Error", got)
	}
}

func TestOpenTelemetry_FilterSkipsRequests(t *testing.T) {
	tp := &recordingProvider{}

	r := chi.NewRouter()
	r.Use(OpenTelemetry(
		WithTracerProvider(tp),
		WithRequestFilter(func(r *http.Request) bool { return r.URL.Path != "/healthz" }),
	))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(tp.spans) != 0 {
		t.Fatalf("expected no spans, got %d", len(tp.spans))
	}
}
