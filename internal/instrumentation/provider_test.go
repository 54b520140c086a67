package instrumentation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func testConfig(metricsExporter, tracingExporter string) Config {
	return Config{
		ServiceName:     "slotkeeper-test",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: metricsExporter,
		TracingExporter: tracingExporter,
	}
}

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{ServiceName: "slotkeeper-test"})
	require.NoError(t, err)

	assert.False(t, provider.Enabled())
	assert.NotNil(t, provider.Metrics(), "disabled provider still hands out a no-op recorder")
	assert.Nil(t, provider.PrometheusHandler())
	assert.NotNil(t, provider.Tracer("test"))
	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProvider_PrometheusExporter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider, err := NewProvider(ctx, testConfig(ExporterPrometheus, ExporterNone))
	require.NoError(t, err)
	defer func() { _ = provider.Shutdown(ctx) }()

	assert.True(t, provider.Enabled())
	assert.Equal(t, "slotkeeper-test", provider.Config().ServiceName)
	require.NotNil(t, provider.Metrics())
	assert.NotNil(t, provider.Tracer("test"))

	provider.Metrics().RecordSlotsBooked(ctx, 1)

	handler := provider.PrometheusHandler()
	require.NotNil(t, handler)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "host_slots_booked_total")
}

func TestNewProvider_StdoutExporter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider, err := NewProvider(ctx, testConfig(ExporterStdout, ExporterStdout))
	require.NoError(t, err)
	defer func() { _ = provider.Shutdown(ctx) }()

	assert.True(t, provider.Enabled())
	assert.Nil(t, provider.PrometheusHandler())
}

func TestNewProvider_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{"unknown metrics exporter", testConfig("invalid", ExporterNone)},
		{"unknown tracing exporter", testConfig(ExporterPrometheus, "invalid")},
		{"otlp tracing without endpoint", testConfig(ExporterPrometheus, ExporterOTLP)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			_, err := NewProvider(ctx, tt.config)
			assert.Error(t, err)
		})
	}
}

func TestProvider_Shutdown(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, testConfig(ExporterPrometheus, ExporterNone))
	require.NoError(t, err)

	assert.NoError(t, provider.Shutdown(ctx))
}

func TestResourceAttributes(t *testing.T) {
	config := testConfig(ExporterPrometheus, ExporterNone)
	config.ServiceInstanceID = "pod-1"
	config.K8sNamespace = "scheduling"

	attrs := map[string]attribute.Value{}
	for _, kv := range ResourceAttributes(config) {
		attrs[string(kv.Key)] = kv.Value
	}

	assert.Equal(t, "slotkeeper-test", attrs["service.name"].AsString())
	assert.Equal(t, "1.0.0", attrs["service.version"].AsString())
	assert.Equal(t, "pod-1", attrs["service.instance.id"].AsString())
	assert.Equal(t, "scheduling", attrs["k8s.namespace.name"].AsString())
	assert.Equal(t, []string{StoreHost, StoreCoaching}, attrs[ResourceAttrStores].AsStringSlice())
	assert.NotContains(t, attrs, "k8s.pod.name")
}

func TestNewProvider_PrometheusRegistriesAreIndependent(t *testing.T) {
	ctx := context.Background()

	first, err := NewProvider(ctx, testConfig(ExporterPrometheus, ExporterNone))
	require.NoError(t, err)
	defer func() { _ = first.Shutdown(ctx) }()

	second, err := NewProvider(ctx, testConfig(ExporterPrometheus, ExporterNone))
	require.NoError(t, err)
	defer func() { _ = second.Shutdown(ctx) }()

	first.Metrics().RecordSlotsBooked(ctx, 3)

	scrape := func(p *Provider) string {
		rec := httptest.NewRecorder()
		p.PrometheusHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		return rec.Body.String()
	}

	assert.Contains(t, scrape(first), "host_slots_booked_total")
	assert.NotContains(t, scrape(second), "host_slots_booked_total")
}
