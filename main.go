package main

import (
	"os"

	"space-missions/cli"
	"space-missions/config"
	"space-missions/utils"
)

func main() {
	// Logs go to stderr so query results on stdout stay pipeable.
	logger := utils.NewLoggerTo(os.Stderr, os.Stderr, utils.LevelInfo)
	cfg := config.Load()

	if err := cli.Execute(cfg, logger); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}
