package main

import (
	"os"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/linkit/relay/cmd"
	"github.com/linkit/relay/internal"
	"github.com/linkit/relay/internal/config"
	"github.com/linkit/relay/internal/dic"
	"github.com/linkit/relay/internal/logger"
	"github.com/linkit/relay/internal/poller"
	"github.com/linkit/relay/internal/worker"
)

func main() {
	appContext, cancel, err := cmd.Bootstrap()
	if err != nil {
		panic(err)
	}
	defer sentry.Flush(2 * time.Second)
	log := dic.GetService[logger.Logger]()
	conf := dic.GetService[config.Config]()

	if !conf.DisableEmbedWorker {
		go func() {
			err := worker.StartBroker(appContext)
			if err != nil {
				log.WithError(err).Error("worker failed")
				cancel()
			}
		}()
	}

	healthPoller := dic.GetService[poller.HealthPoller]()
	go func() {
		err := healthPoller.Start(appContext)
		if err != nil {
			log.WithError(err).Error("poller failed")
		}
	}()

	err = internal.StartServer(appContext, internal.Config{Address: conf.Address})
	cmd.Shutdown()
	if err != nil {
		log.WithError(err).Error("server failed")
		os.Exit(1) //nolint:gocritic
	}
	log.Info("http server stopped")
}
