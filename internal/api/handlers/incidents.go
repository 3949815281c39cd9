package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/linkit/relay/internal/api"
	"github.com/linkit/relay/internal/dic"
	"github.com/linkit/relay/internal/incident"
)

func HandleIncident(responseWriter http.ResponseWriter, request *http.Request) error {
	reporter := dic.GetService[incident.Reporter]()

	inc, err := reporter.Get(request.Context(), mux.Vars(request)["id"])
	if err != nil {
		if errors.Is(err, incident.ErrNotFound) {
			return api.Wrap(err, http.StatusNotFound).WithUserMessage("incident not found")
		}
		return err //nolint:wrapcheck
	}

	respBody, err := json.Marshal(inc)
	if err != nil {
		return errors.Wrap(err, "unable to serialize incident")
	}
	responseWriter.Header().Set("content-type", "application/json")
	_, _ = responseWriter.Write(respBody)
	return nil
}
