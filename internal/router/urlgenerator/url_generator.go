package urlgenerator

import (
	"net/url"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/linkit/relay/internal/config"
)

type GenerateRouteOptions int

const (
	OptionAbsoluteURL GenerateRouteOptions = iota
)

// RouteParams alternates variable names and values, as mux expects them.
type RouteParams []string

//go:generate mockery --name URLGenerator
type URLGenerator interface {
	URL(string, RouteParams, ...GenerateRouteOptions) (*url.URL, error)
}

type muxURLGenerator struct {
	config config.Config
	router *mux.Router
}

func NewURLGenerator(config config.Config, router *mux.Router) *muxURLGenerator {
	return &muxURLGenerator{
		config: config,
		router: router,
	}
}

func (r *muxURLGenerator) URL(routeName string, params RouteParams, options ...GenerateRouteOptions) (*url.URL, error) {
	route := r.router.Get(routeName)
	if route == nil {
		return nil, errors.Errorf("route %s does not exist", routeName)
	}
	routeURL, err := route.URL(params...)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to generate URL for route %s", routeName)
	}
	for _, option := range options {
		if option == OptionAbsoluteURL && r.config.Domain != nil {
			routeURL.Host = r.config.Domain.Host
			routeURL.Scheme = r.config.Domain.Scheme
		}
	}
	return routeURL, nil
}
