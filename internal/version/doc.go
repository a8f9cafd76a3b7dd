// Package version exposes build metadata injected with -ldflags and a cobra
// "version" subcommand shared by every nfc-timer binary.
package version
