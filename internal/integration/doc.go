// Package integration runs the server, CLI commands and clients together over
// real loopback sockets.
package integration
