// Package secret resolves sensitive configuration values, most importantly
// the token signing key.
//
// It supports:
//   - Strict environment expansion (see ExpandEnvStrict)
//   - Pluggable secret providers (see Provider + Resolver)
//
// References use the prefix "secretref:":
//   - Full value:  secretref:file:/run/secrets/signing-key
//   - Inline use:  prefix-secretref:env:SIGNING_KEY-suffix
package secret
