package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	prevTP := otel.GetTracerProvider()
	prevProp := otel.GetTextMapPropagator()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})
	return exporter
}

func metricValue(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	d := &dto.Metric{}
	require.NoError(t, m.Write(d))
	switch {
	case d.Counter != nil:
		return d.Counter.GetValue()
	case d.Gauge != nil:
		return d.Gauge.GetValue()
	}
	return 0
}

func TestPrometheusMetrics_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics("metrics-route-test"))
	r.Get("/api/v1/chalets/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"c-1", "c-2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/chalets/"+id, nil))
	}

	counter := httpRequestsTotal.WithLabelValues("metrics-route-test", http.MethodGet, "/api/v1/chalets/{id}", "404")
	assert.Equal(t, float64(2), metricValue(t, counter))
	assert.Equal(t, float64(0), metricValue(t, httpRequestsInFlight.WithLabelValues("metrics-route-test")))
}

func TestPrometheusMetrics_InFlightDuringRequest(t *testing.T) {
	var during float64
	r := chi.NewRouter()
	r.Use(PrometheusMetrics("metrics-inflight-test"))
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		during = metricValue(t, httpRequestsInFlight.WithLabelValues("metrics-inflight-test"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, float64(1), during)
}

func TestTracing_SpanNamedAfterRoute(t *testing.T) {
	exporter := setupTestTracer(t)

	r := chi.NewRouter()
	r.Use(Tracing("admin-panel"))
	r.Get("/api/v1/chalets/{id}/rooms", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/chalets/c-1/rooms", nil))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /api/v1/chalets/{id}/rooms", spans[0].Name)
	assert.Contains(t, spans[0].Attributes, attribute.String("http.route", "/api/v1/chalets/{id}/rooms"))
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.NotEmpty(t, rec.Header().Get("traceparent"))
}

func TestTracing_ContinuesInboundTrace(t *testing.T) {
	exporter := setupTestTracer(t)

	r := chi.NewRouter()
	r.Use(Tracing("admin-panel"))
	r.Get("/", okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	r.ServeHTTP(httptest.NewRecorder(), req)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", spans[0].SpanContext.TraceID().String())
	assert.Equal(t, "00f067aa0ba902b7", spans[0].Parent.SpanID().String())
	assert.Equal(t, codes.Unset, spans[0].Status.Code)
}
