package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/linkit/relay/internal/api"
	"github.com/linkit/relay/internal/api/handlers"
	"github.com/linkit/relay/internal/dic"
	"github.com/linkit/relay/internal/logger"
	observabilityhandlers "github.com/linkit/relay/internal/observability/handlers"
	"github.com/linkit/relay/internal/router/routes"
)

func Router(rootRouter *mux.Router) {
	log := dic.GetService[logger.Logger]()
	handle := func(handler api.ErrorAwareHTTPHandler) http.HandlerFunc {
		return observabilityhandlers.ObservabilityHandler(rootRouter, log, api.HTTPErrorHandler(handler))
	}

	rootRouter.NewRoute().Name(routes.HealthRoute).
		Path("/healthz").
		Methods(http.MethodGet).
		HandlerFunc(handle(handlers.HandleHealth))

	taskRouter := rootRouter.PathPrefix("/tasks").Subrouter()
	taskRouter.NewRoute().Name(routes.ForwardTaskRoute).
		Path("/forward").
		Methods(http.MethodPost).
		HandlerFunc(handle(handlers.HandleForward))
	taskRouter.NewRoute().Name(routes.PingTaskRoute).
		Path("/ping").
		Methods(http.MethodPost).
		HandlerFunc(handle(handlers.HandlePing))

	rootRouter.NewRoute().Name(routes.IncidentRoute).
		Path("/incidents/{id}").
		Methods(http.MethodGet).
		HandlerFunc(handle(handlers.HandleIncident))

	rootRouter.NewRoute().Name(routes.SigningKeyRoute).
		Path("/signing-key").
		Methods(http.MethodGet).
		HandlerFunc(handle(handlers.HandleSigningKey))
}
