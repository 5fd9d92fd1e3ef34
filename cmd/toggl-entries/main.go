package main

import (
	"fmt"
	"os"

	"toggl-entries/cmd/toggl-entries/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
