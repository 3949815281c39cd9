package handlers

import (
	"net/http"
	"strconv"

	"github.com/getsentry/sentry-go"
	"github.com/gorilla/mux"

	relayerrors "github.com/linkit/relay/internal/errors"
	"github.com/linkit/relay/internal/logger"
	"github.com/linkit/relay/internal/observability"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routeName(router *mux.Router, request *http.Request) (string, map[string]any) {
	vars := map[string]any{}
	var match mux.RouteMatch
	if !router.Match(request, &match) || match.Route == nil || match.Route.GetName() == "" {
		return request.Method + " " + request.URL.Path, vars
	}
	for k, v := range match.Vars {
		vars[k] = v
	}
	return match.Route.GetName(), vars
}

// ObservabilityHandler runs handler inside a sentry transaction named after the
// matched route and tags it with the response status.
func ObservabilityHandler(router *mux.Router, log logger.Logger, handler http.HandlerFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		hub := sentry.GetHubFromContext(ctx)
		if hub == nil {
			hub = sentry.CurrentHub().Clone()
			ctx = sentry.SetHubOnContext(ctx, hub)
		}

		name, vars := routeName(router, request)
		tx := observability.StartTransaction(ctx, name,
			sentry.OpName("http.server"),
			sentry.ContinueFromRequest(request),
			sentry.TransctionSource(sentry.SourceRoute),
		)
		tx.Data = vars
		recorder := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}
		defer func() {
			if recovered := recover(); recovered != nil {
				err := relayerrors.Errorf("panic in route %s: %v", name, recovered)
				hub.RecoverWithContext(ctx, recovered)
				log.WithError(err).Error("request handler panicked")
				recorder.WriteHeader(http.StatusInternalServerError)
			}
			tx.SetTag("http.status_code", strconv.Itoa(recorder.status))
			observability.FinishSpan(tx)
		}()

		request = request.WithContext(tx.Context()) //nolint:contextcheck
		hub.Scope().SetRequest(request)
		handler(recorder, request)
	}
}
