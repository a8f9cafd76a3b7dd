// Package common holds helpers shared by the arm and poller commands.
//
// It provides a small HTTP client for the timer endpoints with per-call
// timeouts and strict parsing of the status body.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
