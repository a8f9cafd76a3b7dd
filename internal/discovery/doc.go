// Package discovery advertises the timer's HTTP endpoint over mDNS so that
// microcontrollers on the local network can resolve it without a fixed address.
package discovery
