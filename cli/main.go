package main

import (
	"os"

	"github.com/sqlspine/sqlspine/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
