package secret

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Provider resolves secrets by reference string.
//
// Implementations must be safe for concurrent use and must not log secret
// values.
type Provider interface {
	Name() string
	Resolve(ctx context.Context, ref string) (string, error)
	Close() error
}

// FileProvider reads secrets from files, the shape mounted secrets take
// under Kubernetes and Docker. Surrounding whitespace is trimmed so a
// trailing newline in the file does not end up in the key material.
type FileProvider struct{}

func (FileProvider) Name() string { return "file" }

// Resolve reads the file at ref.
func (FileProvider) Resolve(_ context.Context, ref string) (string, error) {
	data, err := os.ReadFile(ref)
	if err != nil {
		return "", fmt.Errorf("read secret file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (FileProvider) Close() error { return nil }

// EnvProvider reads secrets from the process environment.
type EnvProvider struct{}

func (EnvProvider) Name() string { return "env" }

// Resolve looks up the environment variable named by ref.
func (EnvProvider) Resolve(_ context.Context, ref string) (string, error) {
	value, ok := os.LookupEnv(ref)
	if !ok {
		return "", fmt.Errorf("environment variable %s is not set", ref)
	}
	return value, nil
}

func (EnvProvider) Close() error { return nil }

// Ensure the builtin providers implement Provider
var (
	_ Provider = FileProvider{}
	_ Provider = EnvProvider{}
)
