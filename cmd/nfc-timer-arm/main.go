package main

import "github.com/oshokin/nfc-timer/cmd/nfc-timer-arm/cmd"

func main() {
	cmd.Execute()
}
