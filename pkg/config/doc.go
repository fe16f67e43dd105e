// Package config loads the declared stack configuration from a key=value
// file, generating it with random credentials on first run. An existing
// file is authoritative and is never rewritten.
package config
