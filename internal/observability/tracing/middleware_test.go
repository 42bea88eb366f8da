package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// installRecorder routes spans to an in-memory recorder for the duration of the test.
func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return recorder
}

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, a := range attrs {
		if string(a.Key) == key {
			return a.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestMiddleware_CreatesSpan(t *testing.T) {
	recorder := installRecorder(t)

	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != "GET /health" {
		t.Errorf("expected span name 'GET /health', got %q", spans[0].Name())
	}
	if v, ok := attrValue(spans[0].Attributes(), "http.status_code"); !ok || v.AsInt64() != 200 {
		t.Errorf("expected http.status_code=200, got %v", v)
	}
	if got := rr.Header().Get(TraceIDHeader); len(got) != 32 {
		t.Errorf("expected 32-char X-Trace-Id, got %q", got)
	}
}

func TestMiddleware_MarksErrorSpansFor5xx(t *testing.T) {
	recorder := installRecorder(t)

	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if v, ok := attrValue(spans[0].Attributes(), "error"); !ok || !v.AsBool() {
		t.Error("expected error attribute for 5xx response")
	}
	if spans[0].Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", spans[0].Status().Code)
	}
}

func TestMiddleware_PropagatesTraceContext(t *testing.T) {
	recorder := installRecorder(t)
	prevProp := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prevProp) })

	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if got := spans[0].SpanContext().TraceID().String(); got != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("expected propagated trace ID, got %s", got)
	}
}

func TestStartSpan_RecordError(t *testing.T) {
	recorder := installRecorder(t)

	_, span := StartSpan(context.Background(), "translate",
		attribute.String("target_lang", "hi"))
	RecordError(span, errors.New("model unavailable"))
	RecordError(span, nil)
	span.End()

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", spans[0].Status().Code)
	}
	if len(spans[0].Events()) != 1 {
		t.Errorf("expected 1 error event, got %d", len(spans[0].Events()))
	}
	if v, ok := attrValue(spans[0].Attributes(), "target_lang"); !ok || v.AsString() != "hi" {
		t.Errorf("expected target_lang=hi, got %v", v)
	}
}

func TestStatusRecorder(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
	rec.WriteHeader(http.StatusAccepted)
	if rec.status != http.StatusAccepted {
		t.Errorf("expected status code 202, got %d", rec.status)
	}
}
