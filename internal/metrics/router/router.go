package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/linkit/relay/internal/dic"
	"github.com/linkit/relay/internal/metrics"
	"github.com/linkit/relay/internal/router/routes"
)

func Router(rootRouter *mux.Router) {
	meter := dic.GetService[metrics.Meter]()
	rootRouter.NewRoute().Name(routes.MetricsRoute).
		Path("/metrics").
		Methods(http.MethodGet).
		Handler(promhttp.HandlerFor(meter.GetRegistry(), promhttp.HandlerOpts{}))
}
