package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"

	"github.com/linkit/relay/internal/cache"
	"github.com/linkit/relay/internal/config"
	"github.com/linkit/relay/internal/crypto"
	"github.com/linkit/relay/internal/database"
	"github.com/linkit/relay/internal/dic"
	"github.com/linkit/relay/internal/dic/container"
	"github.com/linkit/relay/internal/logger"
)

func initSentry(conf config.Config) error {
	if conf.SentryDSN == "" {
		return nil
	}
	return errors.Wrap(sentry.Init(sentry.ClientOptions{
		Dsn:              conf.SentryDSN,
		ServerName:       conf.Domain.Host,
		TracesSampleRate: 1.0,
		AttachStacktrace: true,
		EnableTracing:    true,
	}), "unable to init sentry")
}

func connectBackends(ctx context.Context, conf config.Config, log logger.Logger) error {
	db := dic.GetService[database.Database]()
	if err := db.Connect(); err != nil {
		return errors.Wrap(err, "unable to connect to postgres")
	}
	log.WithField("db", conf.DBURL.Redacted()).Info("connected to postgres")

	if conf.RunMigrations {
		if err := db.Migrate(); err != nil {
			return errors.Wrap(err, "unable to migrate database")
		}
		log.Info("database migrated")
	}

	if err := dic.GetService[cache.RedisClient]().Ping(ctx); err != nil {
		return err //nolint:wrapcheck
	}
	log.WithField("addr", conf.RedisAddress).Info("connected to redis")
	return nil
}

// Bootstrap builds the container and connects every backend. The returned
// context is cancelled on SIGINT or SIGTERM.
func Bootstrap() (context.Context, context.CancelFunc, error) {
	if err := container.BuildContainer(); err != nil {
		return nil, nil, err //nolint:wrapcheck
	}
	log := dic.GetService[logger.Logger]()
	conf := dic.GetService[config.Config]()
	log.WithField("pid", os.Getpid()).Debug("relay starting")

	if err := initSentry(conf); err != nil {
		return nil, nil, err
	}
	if conf.SentryDSN != "" {
		log.Info("sentry initialized, incidents will be reported")
	}
	if key := dic.GetService[*crypto.SigningKey](); key != nil {
		log.WithField("key_id", key.ID).Info("forwarded requests will be signed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	if err := connectBackends(ctx, conf, log); err != nil {
		stop()
		return nil, nil, err
	}
	go func() {
		<-ctx.Done()
		log.Info("stopping")
	}()

	return ctx, stop, nil
}

// Shutdown releases the connections opened by Bootstrap.
func Shutdown() {
	log := dic.GetService[logger.Logger]()
	if err := dic.GetService[database.Database]().Close(); err != nil {
		log.WithError(err).Warn("unable to close database")
	}
	if err := dic.GetService[cache.RedisClient]().Close(); err != nil {
		log.WithError(err).Warn("unable to close redis client")
	}
}
