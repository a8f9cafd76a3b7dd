// Package server runs the nfc-timer server: it loads settings, creates the
// timer state manager and serves it over HTTP, and optionally over gRPC and
// mDNS, until the context is canceled.
package server
