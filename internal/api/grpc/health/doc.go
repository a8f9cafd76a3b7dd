// Package health mirrors the timer state over the standard gRPC health protocol.
//
// Checking the "nfc-timer" service answers SERVING while the activation window
// is open and NOT_SERVING otherwise, so gRPC-capable pollers and load balancers
// can follow the timer without speaking the plain-text HTTP contract.
package health
