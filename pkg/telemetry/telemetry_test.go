package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{name: "default", modify: func(c *Config) {}},
		{name: "missing service name", modify: func(c *Config) { c.ServiceName = "" }, wantErr: true},
		{name: "missing service version", modify: func(c *Config) { c.ServiceVersion = "" }, wantErr: true},
		{name: "invalid level", modify: func(c *Config) { c.Logging.Level = "verbose" }, wantErr: true},
		{name: "invalid format", modify: func(c *Config) { c.Logging.Format = "xml" }, wantErr: true},
		{name: "invalid exporter", modify: func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.Exporter = "zipkin"
		}, wantErr: true},
		{name: "otlp without endpoint", modify: func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.Exporter = "otlp"
		}, wantErr: true},
		{name: "otlp with endpoint", modify: func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.Exporter = "otlp"
			c.Tracing.Endpoint = "localhost:4317"
		}},
		{name: "sampling rate out of range", modify: func(c *Config) { c.Tracing.SamplingRate = 1.5 }, wantErr: true},
		{name: "listen address without path", modify: func(c *Config) {
			c.Metrics.ListenAddress = ":9090"
			c.Metrics.Path = ""
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPresetConfigs(t *testing.T) {
	dev := DevelopmentConfig()
	if err := dev.Validate(); err != nil {
		t.Errorf("development config is invalid: %v", err)
	}
	if dev.Logging.Level != "debug" || dev.Tracing.Exporter != "stdout" {
		t.Errorf("unexpected development config: %+v", dev)
	}

	prod := ProductionConfig()
	if prod.Logging.Format != "json" || prod.Tracing.Exporter != "otlp" {
		t.Errorf("unexpected production config: %+v", prod)
	}
	// Production tracing needs a collector endpoint.
	if err := prod.Validate(); err == nil {
		t.Error("expected production config without endpoint to be invalid")
	}
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(LoggingConfig{Level: "info", Format: "json"}, &buf)

	logger.NewComponentLogger("store").WithBackend("file").WithTodoID("t1").Info("Todo created")
	logger.Debug("dropped below level")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %s", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("failed to decode log line: %v", err)
	}

	want := map[string]string{
		"level":     "info",
		"component": "store",
		"backend":   "file",
		"todo_id":   "t1",
		"message":   "Todo created",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("field %s: expected %q, got %v", k, v, entry[k])
		}
	}
}

func TestLogger_Context(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected a disabled logger when none is set")
	}

	var buf bytes.Buffer
	logger := NewLoggerWithWriter(LoggingConfig{Level: "debug", Format: "json"}, &buf)
	ctx := logger.WithContext(context.Background())

	if FromContext(ctx) != logger {
		t.Error("expected logger from context")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]string{
		"trace":   "trace",
		"debug":   "debug",
		"warn":    "warn",
		"error":   "error",
		"unknown": "info",
	}
	for in, want := range tests {
		if got := parseLogLevel(in).String(); got != want {
			t.Errorf("parseLogLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestMetrics_Disabled(t *testing.T) {
	m, err := NewMetrics(MetricsConfig{Enabled: false})
	if err != nil {
		t.Fatal(err)
	}

	// Recording on disabled metrics must not panic.
	m.RecordOperation("file", "create", ResultOK, time.Millisecond)
	m.RecordError("file", "create", "io")
	m.SetStoredCount("file", 1)

	if m.Registry() != nil {
		t.Error("expected no registry when metrics are disabled")
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 from disabled handler, got %d", rec.Code)
	}

	server, err := m.StartMetricsServer()
	if err != nil || server != nil {
		t.Errorf("expected no server when disabled, got %v, %v", server, err)
	}
}

func TestMetrics_Handler(t *testing.T) {
	m, err := NewMetrics(MetricsConfig{Enabled: true, Namespace: "test"})
	if err != nil {
		t.Fatal(err)
	}

	m.RecordOperation("sqlite", "remove", ResultNotFound, time.Millisecond)
	m.RecordError("sqlite", "create", "")

	if got := testutil.ToFloat64(m.operations.WithLabelValues("sqlite", "remove", ResultNotFound)); got != 1 {
		t.Errorf("expected 1 not_found operation, got %v", got)
	}
	if got := testutil.ToFloat64(m.errors.WithLabelValues("sqlite", "create", "unknown")); got != 1 {
		t.Errorf("expected empty class recorded as unknown, got %v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `test_store_operations_total{backend="sqlite",operation="remove",result="not_found"} 1`) {
		t.Errorf("metric missing from handler output:\n%s", rec.Body.String())
	}
}

func TestTracer_Disabled(t *testing.T) {
	tracer, err := NewTracer(TracingConfig{Enabled: false}, "test", "dev", "test")
	if err != nil {
		t.Fatal(err)
	}

	ctx, span := tracer.StartStoreSpan(context.Background(), "file", "create")
	span.End()

	if TraceID(ctx) != "" {
		t.Error("expected no trace id from a disabled tracer")
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("shutdown failed: %v", err)
	}
}

func TestNewTelemetry_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "loud"
	if _, err := NewTelemetry(cfg); err == nil {
		t.Error("expected error for invalid config")
	}
}

func TestTelemetryContext(t *testing.T) {
	tel := Nop()
	if FromTelemetryContext(context.Background()) != nil {
		t.Error("expected nil telemetry without context value")
	}

	ctx := tel.WithContext(context.Background())
	if FromTelemetryContext(ctx) != tel {
		t.Error("expected telemetry from context")
	}
	if FromContext(ctx) != tel.Logger {
		t.Error("expected the telemetry logger in context")
	}
}
