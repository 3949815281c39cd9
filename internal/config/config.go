package config

import (
	"net/url"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	CacheBackendRedis  = "redis"
	CacheBackendMemory = "memory"

	LogFormatText = "text"
	LogFormatJSON = "json"
)

type Config struct {
	Address             string        `mapstructure:"address"`
	Domain              *url.URL      `mapstructure:"-"`
	LogLevel            logrus.Level  `mapstructure:"-"`
	LogFormat           string        `mapstructure:"log_format"`
	DBURL               *url.URL      `mapstructure:"-"`
	RedisAddress        string        `mapstructure:"redis_address"`
	SentryDSN           string        `mapstructure:"sentry_dsn"`
	RunMigrations       bool          `mapstructure:"run_migrations"`
	DisableEmbedWorker  bool          `mapstructure:"disable_embed_worker"`
	WorkerConcurrency   int           `mapstructure:"worker_concurrency"`
	ForwardTimeout      time.Duration `mapstructure:"-"`
	ForwardAllowedHosts []string      `mapstructure:"forward_allowed_hosts"`
	IncidentCacheTTL    time.Duration `mapstructure:"-"`
	CacheBackend        string        `mapstructure:"cache_backend"`
	MemoryCacheSize     int           `mapstructure:"memory_cache_size"`
	PingTargets         []string      `mapstructure:"ping_targets"`
	PingInterval        time.Duration `mapstructure:"-"`
	ForwardSigningKey   string        `mapstructure:"forward_signing_key"`
}

type Loader interface {
	Load() error
	Get() Config
}

type configLoader struct {
	conf Config
}

func NewLoader() *configLoader {
	return &configLoader{}
}

func (l *configLoader) Get() Config {
	return l.conf
}

func setDefaults() {
	viper.SetDefault("address", ":8080")
	viper.SetDefault("log_format", LogFormatText)
	viper.SetDefault("redis_address", "localhost:6379")
	viper.SetDefault("worker_concurrency", 10)
	viper.SetDefault("forward_timeout", "30s")
	viper.SetDefault("incident_cache_ttl", "1h")
	viper.SetDefault("cache_backend", CacheBackendRedis)
	viper.SetDefault("memory_cache_size", 1024)
	viper.SetDefault("ping_interval", "1m")
}

// getList reads a list key. Env and .env values come as a single string
// separated by commas or spaces.
func getList(key string) []string {
	if raw, ok := viper.Get(key).(string); ok {
		return strings.FieldsFunc(raw, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})
	}
	return viper.GetStringSlice(key)
}

func (l *configLoader) Load() error {
	conf := &Config{}

	viper.SetEnvPrefix("relay")
	viper.AutomaticEnv()
	setDefaults()

	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.SetConfigFile(".env")
	err := viper.ReadInConfig()
	if err != nil && os.Getenv("TEST") != "true" {
		return errors.New("unable to read default config from .env")
	}
	viper.SetConfigFile(".env.local")
	_ = viper.MergeInConfig()

	err = viper.Unmarshal(conf)
	if err != nil {
		return errors.Wrap(err, "unable to deserialize configuration")
	}
	conf.ForwardAllowedHosts = getList("forward_allowed_hosts")
	conf.PingTargets = getList("ping_targets")

	domainStr := viper.GetString("domain")
	if domainStr == "" {
		return errors.New("You must define a domain")
	}
	conf.Domain, err = url.Parse(domainStr)
	if err != nil {
		return errors.Wrap(err, "unable to parse domain")
	}

	logLevel := viper.GetString("log_level")
	if logLevel == "" {
		return errors.New("You must define a log level")
	}
	conf.LogLevel, err = logrus.ParseLevel(logLevel)
	if err != nil {
		return errors.Wrap(err, "unable to parse log level")
	}

	dbURL := viper.GetString("db_url")
	if dbURL == "" {
		return errors.New("You must define a database URL")
	}
	conf.DBURL, err = url.Parse(dbURL)
	if err != nil {
		return errors.Wrap(err, "unable to parse database URL")
	}

	conf.ForwardTimeout, err = time.ParseDuration(viper.GetString("forward_timeout"))
	if err != nil {
		return errors.Wrap(err, "unable to parse forward timeout")
	}

	conf.IncidentCacheTTL, err = time.ParseDuration(viper.GetString("incident_cache_ttl"))
	if err != nil {
		return errors.Wrap(err, "unable to parse incident cache ttl duration")
	}

	conf.PingInterval, err = time.ParseDuration(viper.GetString("ping_interval"))
	if err != nil {
		return errors.Wrap(err, "unable to parse ping interval")
	}

	switch conf.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return errors.Errorf("unknown log format %q", conf.LogFormat)
	}

	switch conf.CacheBackend {
	case CacheBackendRedis, CacheBackendMemory:
	default:
		return errors.Errorf("unknown cache backend %q", conf.CacheBackend)
	}

	if conf.WorkerConcurrency <= 0 {
		return errors.New("worker concurrency must be positive")
	}

	l.conf = *conf
	return nil
}
