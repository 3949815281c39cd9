package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/hibiken/asynq"

	"github.com/linkit/relay/internal/api"
	"github.com/linkit/relay/internal/authorization"
	"github.com/linkit/relay/internal/authorization/attributes"
	"github.com/linkit/relay/internal/dic"
	"github.com/linkit/relay/internal/logger"
	"github.com/linkit/relay/internal/worker/client"
	"github.com/linkit/relay/internal/worker/tasks"
)

type forwardRequest struct {
	Target  string            `json:"target"`
	Method  string            `json:"method,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    json.RawMessage   `json:"body,omitempty"`
}

type pingRequest struct {
	Target string `json:"target"`
}

type taskResponse struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Queue string `json:"queue"`
}

func decodeBody(request *http.Request, into any) error {
	if request.Body == nil {
		return api.New("empty request body", http.StatusBadRequest).WithUserMessage("invalid request body")
	}
	if err := json.NewDecoder(request.Body).Decode(into); err != nil {
		return api.Wrap(err, http.StatusBadRequest).WithUserMessage("invalid request body")
	}
	return nil
}

func authorizeTarget(raw string, attr attributes.Attribute) (*url.URL, error) {
	target, err := url.Parse(raw)
	if err != nil || target.Host == "" {
		return nil, api.New("unable to parse target "+raw, http.StatusBadRequest).
			WithUserMessage("invalid target")
	}
	checker := dic.GetService[authorization.AuthorizationChecker]()
	if !checker.IsGranted(target, attr) {
		return nil, api.New("target "+target.Host+" is not allowed", http.StatusForbidden).
			WithUserMessage("target is not allowed")
	}
	return target, nil
}

func enqueue(responseWriter http.ResponseWriter, request *http.Request, task *asynq.Task) error {
	log := dic.GetService[logger.Logger]()
	workerClient := dic.GetService[client.BackgroundWorkerClient]()

	info, err := workerClient.Enqueue(request.Context(), task)
	if err != nil {
		return err //nolint:wrapcheck
	}
	log.WithField("task_id", info.ID).WithField("type", info.Type).Debug("task enqueued")

	respBody, _ := json.Marshal(taskResponse{ID: info.ID, Type: info.Type, Queue: info.Queue})
	responseWriter.Header().Set("content-type", "application/json")
	responseWriter.WriteHeader(http.StatusAccepted)
	_, _ = responseWriter.Write(respBody)
	return nil
}

func HandleForward(responseWriter http.ResponseWriter, request *http.Request) error {
	var input forwardRequest
	if err := decodeBody(request, &input); err != nil {
		return err
	}
	target, err := authorizeTarget(input.Target, attributes.CanForward)
	if err != nil {
		return err
	}

	task, err := tasks.NewForwardTask(request.Context(), tasks.ForwardInput{
		Target:  target.String(),
		Method:  input.Method,
		Headers: input.Headers,
		Body:    input.Body,
	})
	if err != nil {
		return err //nolint:wrapcheck
	}
	return enqueue(responseWriter, request, task)
}

func HandlePing(responseWriter http.ResponseWriter, request *http.Request) error {
	var input pingRequest
	if err := decodeBody(request, &input); err != nil {
		return err
	}
	target, err := authorizeTarget(input.Target, attributes.CanPing)
	if err != nil {
		return err
	}

	task, err := tasks.NewPingTask(request.Context(), target.String())
	if err != nil {
		return err //nolint:wrapcheck
	}
	return enqueue(responseWriter, request, task)
}
