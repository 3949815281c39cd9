// Package api turns handler failures into HTTP answers.
package api

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"github.com/pkg/errors"

	"github.com/linkit/relay/internal/dic"
	relayerrors "github.com/linkit/relay/internal/errors"
	"github.com/linkit/relay/internal/incident"
	"github.com/linkit/relay/internal/logger"
	"github.com/linkit/relay/internal/router/routes"
	"github.com/linkit/relay/internal/router/urlgenerator"
)

// APIError is a failure the client is responsible for, answered with HTTPCode.
type APIError struct {
	Cause       error
	UserMessage string
	HTTPCode    int
}

func New(message string, code int) APIError {
	apiErr := APIError{HTTPCode: code}
	if message != "" {
		apiErr.Cause = errors.New(message)
	}
	return apiErr
}

func Wrap(err error, code int) APIError {
	return APIError{Cause: err, HTTPCode: code}
}

func (h APIError) WithUserMessage(message string) APIError {
	h.UserMessage = message
	return h
}

func (h APIError) Error() string {
	if h.UserMessage != "" {
		return h.UserMessage
	}
	if h.Cause != nil {
		return h.Cause.Error()
	}
	return http.StatusText(h.HTTPCode)
}

func (h APIError) Unwrap() error {
	return h.Cause
}

type errorBody struct {
	Error    string `json:"error"`
	Incident string `json:"incident,omitempty"`
}

type ErrorAwareHTTPHandler func(w http.ResponseWriter, req *http.Request) error

// StatusOf maps err to the status code and message sent to the client. Internal
// details of relay errors never reach the client.
func StatusOf(err error) (int, string) {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		message := apiErr.UserMessage
		if message == "" {
			message = http.StatusText(apiErr.HTTPCode)
		}
		return apiErr.HTTPCode, message
	}
	if kind, _ := relayerrors.KindOf(err); kind == relayerrors.KindTask {
		return http.StatusBadGateway, "task failed"
	}
	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}

// HTTPErrorHandler answers the error returned by handler. Server side failures
// are reported as incidents and the answer links to them.
func HTTPErrorHandler(handler ErrorAwareHTTPHandler) func(w http.ResponseWriter, req *http.Request) {
	log := dic.GetService[logger.Logger]()
	return func(responseWriter http.ResponseWriter, request *http.Request) {
		err := runHandler(log, handler, responseWriter, request)
		if err == nil {
			return
		}

		status, message := StatusOf(err)
		body := errorBody{Error: message}
		if status >= http.StatusInternalServerError {
			reporter := dic.GetService[incident.Reporter]()
			inc := reporter.Report(request.Context(), err, incident.WithSource(incident.SourceHTTP))
			body.Incident = incidentURL(log, inc.ID)
		} else {
			log.WithError(err).WithField("status", status).Info("request rejected")
		}

		respBody, _ := json.Marshal(body)
		responseWriter.Header().Set("content-type", "application/json")
		responseWriter.WriteHeader(status)
		_, _ = responseWriter.Write(respBody)
	}
}

func runHandler(
	log logger.Logger,
	handler ErrorAwareHTTPHandler,
	responseWriter http.ResponseWriter,
	request *http.Request,
) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			log.Errorf("panic: %s %s", recovered, debug.Stack())
			err = relayerrors.Wrap(errors.Errorf("%v", recovered), "panic while handling request")
		}
	}()
	return handler(responseWriter, request)
}

func incidentURL(log logger.Logger, id string) string {
	if id == "" {
		return ""
	}
	generator := dic.GetService[urlgenerator.URLGenerator]()
	u, err := generator.URL(
		routes.IncidentRoute,
		urlgenerator.RouteParams{"id", id},
		urlgenerator.OptionAbsoluteURL,
	)
	if err != nil {
		log.WithError(err).WithField("incident", id).Warn("unable to generate incident url")
		return ""
	}
	return u.String()
}
