package secret

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseSecretRef(t *testing.T) {
	tests := []struct {
		name         string
		in           string
		wantProvider string
		wantRef      string
		wantOK       bool
	}{
		{
			name:         "file ref",
			in:           "secretref:file:/run/secrets/signing-key",
			wantProvider: "file",
			wantRef:      "/run/secrets/signing-key",
			wantOK:       true,
		},
		{
			name:         "env ref",
			in:           "secretref:env:SIGNING_KEY",
			wantProvider: "env",
			wantRef:      "SIGNING_KEY",
			wantOK:       true,
		},
		{name: "plain value", in: "deadbeef"},
		{name: "missing ref", in: "secretref:file:"},
		{name: "missing provider", in: "secretref::foo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, ref, ok := ParseSecretRef(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if provider != tt.wantProvider || ref != tt.wantRef {
				t.Errorf("got (%q, %q), want (%q, %q)", provider, ref, tt.wantProvider, tt.wantRef)
			}
		})
	}
}

func TestResolver_FileProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signing-key")
	if err := os.WriteFile(path, []byte("deadbeef\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	r := DefaultResolver()
	got, err := r.ResolveValue(context.Background(), "secretref:file:"+path)
	if err != nil {
		t.Fatalf("ResolveValue() error = %v", err)
	}
	if got != "deadbeef" {
		t.Errorf("got %q, want deadbeef with trailing newline trimmed", got)
	}
}

func TestResolver_EnvProvider(t *testing.T) {
	t.Setenv("GATEHOUSE_TEST_SECRET", "s3cret")

	r := DefaultResolver()
	got, err := r.ResolveValue(context.Background(), "secretref:env:GATEHOUSE_TEST_SECRET")
	if err != nil {
		t.Fatalf("ResolveValue() error = %v", err)
	}
	if got != "s3cret" {
		t.Errorf("got %q, want s3cret", got)
	}
}

func TestResolver_PlainValuePassesThrough(t *testing.T) {
	r := DefaultResolver()
	got, err := r.ResolveValue(context.Background(), "plain-value")
	if err != nil {
		t.Fatalf("ResolveValue() error = %v", err)
	}
	if got != "plain-value" {
		t.Errorf("got %q, want plain-value", got)
	}
}

func TestResolver_InlineRef(t *testing.T) {
	t.Setenv("GATEHOUSE_TEST_SECRET", "s3cret")

	r := DefaultResolver()
	got, err := r.ResolveValue(context.Background(), "key=secretref:env:GATEHOUSE_TEST_SECRET;end")
	if err != nil {
		t.Fatalf("ResolveValue() error = %v", err)
	}
	if got != "key=s3cret;end" {
		t.Errorf("got %q, want inline substitution", got)
	}
}

func TestResolver_Errors(t *testing.T) {
	r := DefaultResolver()

	t.Run("unregistered provider", func(t *testing.T) {
		_, err := r.ResolveValue(context.Background(), "secretref:vault:some/path")
		if err == nil || !strings.Contains(err.Error(), "not registered") {
			t.Errorf("error = %v, want unregistered provider error", err)
		}
	})

	t.Run("strict rejects empty value", func(t *testing.T) {
		t.Setenv("GATEHOUSE_TEST_EMPTY", "")
		_, err := r.ResolveValue(context.Background(), "secretref:env:GATEHOUSE_TEST_EMPTY")
		if err == nil || !strings.Contains(err.Error(), "empty value") {
			t.Errorf("error = %v, want empty value error", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := r.ResolveValue(context.Background(), "secretref:file:/nonexistent/key")
		if err == nil {
			t.Error("missing file should error")
		}
	})
}
