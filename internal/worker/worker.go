package worker

import (
	"context"

	"github.com/hibiken/asynq"

	"github.com/linkit/relay/internal/config"
	"github.com/linkit/relay/internal/dic"
	"github.com/linkit/relay/internal/logger"
	"github.com/linkit/relay/internal/worker/queues"
	"github.com/linkit/relay/internal/worker/tasks"
)

func NewServeMux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeForward, Wrap(tasks.HandleForward))
	mux.HandleFunc(tasks.TypePing, Wrap(tasks.HandlePing))
	return mux
}

func StartBroker(ctx context.Context) error {
	conf := dic.GetService[config.Config]()
	log := dic.GetService[logger.Logger]()

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: conf.RedisAddress},
		asynq.Config{
			BaseContext: func() context.Context { return ctx },
			Concurrency: conf.WorkerConcurrency,
			LogLevel:    asynq.InfoLevel,
			Logger:      log,
			Queues:      queues.Priorities,
		},
	)

	log.WithField("concurrency", conf.WorkerConcurrency).Info("Starting worker")

	return srv.Run(NewServeMux()) //nolint:wrapcheck
}
