package main

import (
	"os"

	"github.com/budgetviz/budgetviz/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
