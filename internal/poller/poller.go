package poller

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"

	relayerrors "github.com/linkit/relay/internal/errors"
	"github.com/linkit/relay/internal/incident"
	"github.com/linkit/relay/internal/logger"
	"github.com/linkit/relay/internal/observability"
	"github.com/linkit/relay/internal/worker/client"
	"github.com/linkit/relay/internal/worker/tasks"
)

//go:generate mockery --name HealthPoller
type HealthPoller interface {
	Start(context.Context) error
}

// healthPoller schedules a ping of every configured target at a fixed interval.
type healthPoller struct {
	log      logger.Logger
	reporter incident.Reporter
	worker   client.BackgroundWorkerClient
	targets  []string
	interval time.Duration
}

func NewPoller(
	log logger.Logger,
	reporter incident.Reporter,
	worker client.BackgroundWorkerClient,
	targets []string,
	interval time.Duration,
) *healthPoller {
	return &healthPoller{
		log:      log,
		reporter: reporter,
		worker:   worker,
		targets:  targets,
		interval: interval,
	}
}

func (c *healthPoller) Poll(ctx context.Context) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = relayerrors.Wrap(
				errors.Errorf("%v: %s", rec, string(debug.Stack())),
				"got a panic during poll",
			)
		}
	}()
	tx := observability.StartTransaction(ctx, "targets.poll", func(s *sentry.Span) {
		s.Sampled = sentry.SampledFalse
	})
	defer tx.Finish()
	ctx = tx.Context()

	for _, target := range c.targets {
		task, err := tasks.NewPingTask(ctx, target)
		if err != nil {
			return relayerrors.Wrap(err, "unable to create ping task")
		}
		info, err := c.worker.Enqueue(ctx, task)
		if err != nil {
			return relayerrors.Wrap(err, "unable to schedule ping of "+target)
		}
		c.log.WithField("target", target).WithField("task_id", info.ID).Trace("scheduled target ping")
	}
	tx.Data = map[string]interface{}{
		"targets_count": len(c.targets),
	}
	return nil
}

func (c *healthPoller) Start(ctx context.Context) error {
	if len(c.targets) == 0 {
		c.log.Debug("no target to poll, poller disabled")
		return nil
	}
	if c.interval <= 0 {
		return errors.New("poll interval must be positive")
	}

	c.log.WithField("targets", len(c.targets)).Info("Starting poller")
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			err := c.Poll(ctx)
			if err != nil {
				c.reporter.Report(ctx, err, incident.WithSource(incident.SourceRelay))
			}
		case <-ctx.Done():
			c.log.Info("Stopping poller")
			return nil
		}
	}
}
