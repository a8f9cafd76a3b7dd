// Package config defines the settings shared by the nfc-timer binaries and
// helpers to load, validate and save them as YAML.
//
// Every field has a compiled-in default, so the server runs with no file at all.
package config
