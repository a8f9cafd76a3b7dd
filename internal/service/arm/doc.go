// Package arm implements nfc-timer-arm, the command-line stand-in for tapping
// the NFC tag: it calls /activate until the server confirms.
package arm
