// Package timer holds the value types of the activation window.
//
// Activation describes one arming, State is the derived ON/OFF answer and
// Snapshot is a consistent view of the window at a single instant.
package timer
