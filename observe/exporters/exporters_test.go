package exporters

import (
	"context"
	"testing"
)

func TestNewTracingExporter(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{name: "none", in: "none"},
		{name: "empty", in: ""},
		{name: "stdout", in: "stdout"},
		{name: "unknown", in: "graphite", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp, err := NewTracingExporter(context.Background(), tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NewTracingExporter(%q) should fail", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewTracingExporter(%q) error = %v", tt.in, err)
			}
			if exp == nil {
				t.Errorf("NewTracingExporter(%q) = nil", tt.in)
			}
		})
	}
}

func TestNewTracingExporter_OTLPWithoutEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")

	if _, err := NewTracingExporter(context.Background(), "otlp"); err == nil {
		t.Error("otlp without endpoint should fail")
	}
}

func TestNewMetricsReader(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{name: "none", in: "none"},
		{name: "empty", in: ""},
		{name: "stdout", in: "stdout"},
		{name: "prometheus", in: "prometheus"},
		{name: "unknown", in: "statsd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader, err := NewMetricsReader(context.Background(), tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NewMetricsReader(%q) should fail", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewMetricsReader(%q) error = %v", tt.in, err)
			}
			if reader == nil {
				t.Errorf("NewMetricsReader(%q) = nil", tt.in)
			}
		})
	}
}
