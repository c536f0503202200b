package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iho/bankledger/internal/infrastructure/logger"
)

func requireFlag(name, value string) error {
	if value == "" {
		return fmt.Errorf("--%s is required", name)
	}
	return nil
}

func cliLogger(cmd *cobra.Command) zerolog.Logger {
	return logger.New(logger.Config{Level: "info", Format: "console", Output: cmd.ErrOrStderr()})
}
