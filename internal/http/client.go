package http

import (
	"net/http"
	"time"

	"github.com/linkit/relay/internal/authorization"
	"github.com/linkit/relay/internal/crypto"
	"github.com/linkit/relay/internal/logger"
)

//go:generate mockery --name=Client
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewClient returns the client used to reach relay targets. Calls are throttled
// per host, signed when a key is given, and every response is logged. Redirects
// are only followed to hosts checker grants.
func NewClient(
	log logger.Logger,
	timeout time.Duration,
	key *crypto.SigningKey,
	checker authorization.AuthorizationChecker,
) (*http.Client, error) {
	var transport http.RoundTripper = logger.GetResponseLogger(log, http.DefaultTransport)
	if key != nil {
		signingTransport, err := NewSigningTransport(transport, key)
		if err != nil {
			return nil, err
		}
		transport = signingTransport
	}
	return &http.Client{
		Timeout:       timeout,
		Transport:     NewThrottledTransport(transport, log),
		CheckRedirect: checkRedirect(checker),
	}, nil
}
