// Package timer implements the timer state manager: one atomically stored
// "last armed" timestamp and a fixed window, queried by comparing timestamps
// at read time. There is no background goroutine and no scheduled callback.
package timer
