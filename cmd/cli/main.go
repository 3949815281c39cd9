package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/linkit/relay/cmd"
	"github.com/linkit/relay/internal/dic"
	"github.com/linkit/relay/internal/logger"
	"github.com/linkit/relay/internal/worker/client"
	"github.com/linkit/relay/internal/worker/tasks"
)

type headerFlags map[string]string

func (h headerFlags) String() string {
	return fmt.Sprint(map[string]string(h))
}

func (h headerFlags) Set(value string) error {
	name, headerValue, found := strings.Cut(value, ":")
	if !found {
		return fmt.Errorf("header %q must look like Name: value", value)
	}
	h[strings.TrimSpace(name)] = strings.TrimSpace(headerValue)
	return nil
}

func main() {
	headers := headerFlags{}
	taskType := flag.String("type", "forward", "task to enqueue: forward or ping")
	target := flag.String("target", "", "URL the task will call")
	method := flag.String("method", "", "HTTP method used to forward the payload")
	payload := flag.String("body", "{}", "JSON payload to forward")
	flag.Var(headers, "header", "header added to the forwarded request, can be repeated")
	flag.Parse()

	appContext, _, err := cmd.Bootstrap()
	if err != nil {
		panic(err)
	}
	log := dic.GetService[logger.Logger]()
	defer cmd.Shutdown()

	if *target == "" {
		log.Error("a target is required")
		return
	}

	var task *asynq.Task
	switch *taskType {
	case "forward":
		if !json.Valid([]byte(*payload)) {
			log.Error("body must be valid JSON")
			return
		}
		task, err = tasks.NewForwardTask(appContext, tasks.ForwardInput{
			Target:  *target,
			Method:  *method,
			Headers: headers,
			Body:    json.RawMessage(*payload),
		})
	case "ping":
		task, err = tasks.NewPingTask(appContext, *target)
	default:
		log.Errorf("unknown task type %s", *taskType)
		return
	}
	if err != nil {
		log.WithError(err).Error("unable to create task")
		return
	}

	info, err := dic.GetService[client.BackgroundWorkerClient]().Enqueue(appContext, task)
	if err != nil {
		log.WithError(err).Error("unable to enqueue task")
		return
	}
	log.WithFields(logrus.Fields{
		"id":    info.ID,
		"type":  info.Type,
		"queue": info.Queue,
	}).Info("task enqueued")
}
