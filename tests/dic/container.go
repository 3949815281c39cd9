package dic_test

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/linkit/relay/internal/dic"
	"github.com/linkit/relay/internal/dic/container"
	"github.com/linkit/relay/internal/logger"
	"github.com/linkit/relay/internal/logger/mocks"
)

func BuildTestContainer(t *testing.T) {
	t.Helper()
	t.Setenv("TEST", "true")
	viper.Set("domain", "https://example.com")

	// Following vars are set just to pass the config check but they are not gonna be used
	viper.Set("log_level", "debug")
	// Also make sure those variables are invalid to avoid reaching real backend
	viper.Set("db_url", "foobar")
	viper.Set("redis_address", "foobar")
	viper.Set("cache_backend", "memory")
	viper.Set("forward_allowed_hosts", []string{"hooks.example.com"})

	// Override here services for tests
	require.NoError(t, dic.Register[logger.Logger](mocks.NewNullLogger()))

	require.NoError(t, container.BuildContainer())
}
