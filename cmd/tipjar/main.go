package main

import (
	"os"

	"tipjar/cmd/tipjar/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
