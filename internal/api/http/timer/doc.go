// Package timer exposes the timer state manager over plain HTTP.
//
// Three routes are served: an index banner, /activate which arms the timer and
// renders a countdown page, and /status which answers exactly ON or OFF.
package timer
