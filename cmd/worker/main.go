package main

import (
	"os"

	"github.com/linkit/relay/cmd"
	"github.com/linkit/relay/internal/dic"
	"github.com/linkit/relay/internal/logger"
	"github.com/linkit/relay/internal/worker"
)

func main() {
	globalContext, _, err := cmd.Bootstrap()
	if err != nil {
		if dic.Has[logger.Logger]() {
			dic.GetService[logger.Logger]().WithError(err).Error("unable to start application")
			os.Exit(1)
		}
		panic(err)
	}
	log := dic.GetService[logger.Logger]()

	err = worker.StartBroker(globalContext)
	cmd.Shutdown()
	if err != nil {
		log.WithError(err).Error("worker failed")
		os.Exit(1)
	}
	log.Info("worker stopped")
}
