package main

import "github.com/oshokin/nfc-timer/cmd/nfc-timer-server/cmd"

func main() {
	cmd.Execute()
}
