package client

import (
	"context"

	"github.com/hibiken/asynq"

	relayerrors "github.com/linkit/relay/internal/errors"
)

//go:generate mockery --name BackgroundWorkerClient
type BackgroundWorkerClient interface {
	Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type asynQClient struct {
	client *asynq.Client
}

func NewBackgroundWorkerClient(client *asynq.Client) *asynQClient {
	return &asynQClient{client: client}
}

func (a *asynQClient) Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	info, err := a.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return nil, relayerrors.Wrap(err, "unable to enqueue task "+task.Type())
	}
	return info, nil
}
