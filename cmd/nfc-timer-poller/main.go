package main

import "github.com/oshokin/nfc-timer/cmd/nfc-timer-poller/cmd"

func main() {
	cmd.Execute()
}
