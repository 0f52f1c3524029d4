package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/cleared-dev/ledgerdash/internal/commands"
	"github.com/cleared-dev/ledgerdash/internal/config"
	"github.com/cleared-dev/ledgerdash/internal/logger"
)

func main() {
	// A missing .env is fine; variables may come from the real environment.
	_ = godotenv.Load()

	logCfg := logger.DefaultConfig()
	if v := os.Getenv(config.EnvLogLevel); v != "" {
		logCfg.Level = v
	}
	if v := os.Getenv(config.EnvLogFormat); v != "" {
		logCfg.Format = v
	}
	if _, err := logger.Setup(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up logger: %v\n", err)
		os.Exit(1)
	}

	if err := commands.NewRootCommand().Execute(); err != nil {
		log.Debug().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
