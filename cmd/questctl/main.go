package main

import (
	"os"

	"github.com/lifedash/questlog/cmd/questctl/cmd"
	"github.com/lifedash/questlog/internal/logger"
)

func main() {
	rootCmd := cmd.RootCmd()
	err := rootCmd.Execute()
	logger.Flush()
	if err != nil {
		os.Exit(1)
	}
}
