package main

import (
	"os"

	"github.com/wonny/openresearch/backend/cmd/research/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
