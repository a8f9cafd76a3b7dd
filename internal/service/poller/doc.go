// Package poller implements nfc-timer-poller, a reference client that behaves
// like the microcontroller: it polls /status, logs ON/OFF transitions and runs
// the configured hook commands when the state changes.
package poller
