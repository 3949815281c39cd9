package container

import (
	"github.com/go-redis/redis/v9"
	"github.com/gorilla/mux"
	"github.com/hibiken/asynq"
	"github.com/pkg/errors"

	"github.com/linkit/relay/internal/authorization"
	"github.com/linkit/relay/internal/authorization/voter"
	"github.com/linkit/relay/internal/cache"
	"github.com/linkit/relay/internal/config"
	"github.com/linkit/relay/internal/crypto"
	"github.com/linkit/relay/internal/database"
	"github.com/linkit/relay/internal/dic"
	relayhttp "github.com/linkit/relay/internal/http"
	"github.com/linkit/relay/internal/incident"
	"github.com/linkit/relay/internal/logger"
	"github.com/linkit/relay/internal/metrics"
	"github.com/linkit/relay/internal/poller"
	"github.com/linkit/relay/internal/router"
	"github.com/linkit/relay/internal/router/routes"
	"github.com/linkit/relay/internal/router/urlgenerator"
	"github.com/linkit/relay/internal/worker/client"
)

const incidentCachePrefix = "relay/incident/"

func newIncidentCache(conf config.Config, redisClient *cache.RedisClient) (cache.Cache[incident.Incident], error) {
	ttl := cache.OptionDefaultTTL(conf.IncidentCacheTTL)
	if conf.CacheBackend == config.CacheBackendMemory {
		return cache.CreateMemoryCache[incident.Incident](conf.MemoryCacheSize, ttl) //nolint:wrapcheck
	}
	return cache.CreateRedisCache[incident.Incident](redisClient, incidentCachePrefix, ttl), nil
}

// newSigningKey loads the forward signing key, identified by the URL it is published at.
func newSigningKey(conf config.Config) (*crypto.SigningKey, error) {
	signingKey, err := crypto.LoadSigningKey(conf.ForwardSigningKey)
	if err != nil || signingKey == nil {
		return nil, errors.Wrap(err, "unable to load the forward signing key")
	}
	keyURL, err := dic.GetService[urlgenerator.URLGenerator]().URL(
		routes.SigningKeyRoute,
		nil,
		urlgenerator.OptionAbsoluteURL,
	)
	if err != nil {
		return nil, errors.Wrap(err, "unable to generate the signing key url")
	}
	signingKey.ID = keyURL.String()
	return signingKey, nil
}

func BuildContainer() error {
	loader := config.NewLoader()
	err := loader.Load()
	if err != nil {
		return errors.Wrap(err, "unable to load config")
	}
	conf := loader.Get()
	_ = dic.Register[config.Config](conf)
	_ = dic.Register[logger.Logger](logger.CreateLogger(&conf))
	_ = dic.Register[metrics.Meter](metrics.NewRegistry())

	_ = dic.Register[*mux.Router](router.GetRouter())
	_ = dic.Register[urlgenerator.URLGenerator](urlgenerator.NewURLGenerator(conf,
		dic.GetService[*mux.Router](),
	))

	_ = dic.Register[database.Database](database.NewPostgres(
		conf.DBURL,
		dic.GetService[logger.Logger](),
	))
	redisClient := cache.NewRedisClient(&redis.Options{Addr: conf.RedisAddress})
	_ = dic.Register[cache.RedisClient](*redisClient)

	if !dic.Has[cache.Cache[incident.Incident]]() {
		incidentCache, err := newIncidentCache(conf, redisClient)
		if err != nil {
			return errors.Wrap(err, "unable to create the incident cache")
		}
		_ = dic.Register[cache.Cache[incident.Incident]](incidentCache)
	}
	_ = dic.Register[incident.Repository](incident.NewRepository(
		dic.GetService[database.Database](),
	))
	_ = dic.Register[incident.Reporter](incident.NewReporter(
		dic.GetService[logger.Logger](),
		dic.GetService[metrics.Meter](),
		dic.GetService[incident.Repository](),
		dic.GetService[cache.Cache[incident.Incident]](),
	))

	if !dic.Has[*crypto.SigningKey]() {
		signingKey, err := newSigningKey(conf)
		if err != nil {
			return err
		}
		_ = dic.Register[*crypto.SigningKey](signingKey)
	}
	_ = dic.Register[authorization.AuthorizationChecker](authorization.NewVoterAuthorizationChecker([]voter.Voter{
		voter.NewTargetVoter(conf.ForwardAllowedHosts),
	}))
	httpClient, err := relayhttp.NewClient(
		dic.GetService[logger.Logger](),
		conf.ForwardTimeout,
		dic.GetService[*crypto.SigningKey](),
		dic.GetService[authorization.AuthorizationChecker](),
	)
	if err != nil {
		return errors.Wrap(err, "unable to create the forward http client")
	}
	_ = dic.Register[relayhttp.Client](httpClient)
	_ = dic.Register[client.BackgroundWorkerClient](client.NewBackgroundWorkerClient(
		asynq.NewClient(asynq.RedisClientOpt{Addr: conf.RedisAddress}),
	))
	_ = dic.Register[poller.HealthPoller](poller.NewPoller(
		dic.GetService[logger.Logger](),
		dic.GetService[incident.Reporter](),
		dic.GetService[client.BackgroundWorkerClient](),
		conf.PingTargets,
		conf.PingInterval,
	))

	return nil
}
