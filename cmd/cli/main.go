package main

import (
	"os"

	"h2-site-plan/cmd/cli/cmd"
	"h2-site-plan/internal/logging"
)

func main() {
	defer logging.Sync()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
