package main

import (
	"os"

	"github.com/ledgerline/ledgerline-backend/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
