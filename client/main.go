package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/hedisam/entrymeta/client/commands"
)

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := commands.NewRootCmd(logger).ExecuteContext(ctx)
	if err != nil {
		logger.WithError(err).Error("Command failed")
		cancel()
		os.Exit(1)
	}
}
