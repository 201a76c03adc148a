package comms

import (
	"context"
	"errors"
	"strings"

	"github.com/hibiken/asynq"

	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/shared"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/jobs"
)

// TaskEnqueuer queues background tasks; satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Service queues customer messages for asynchronous delivery.
type Service struct {
	queue TaskEnqueuer
}

// NewService builds Service instance.
func NewService(queue TaskEnqueuer) *Service {
	return &Service{queue: queue}
}

// Message carries one outbound customer message.
type Message struct {
	Channel string
	To      string
	Subject string
	Body    string
}

// Send validates and enqueues a message.
func (s *Service) Send(ctx context.Context, tenant shared.Tenant, msg Message) error {
	msg.To = strings.TrimSpace(msg.To)
	if msg.To == "" {
		return errors.New("comms: recipient required")
	}
	msg.Channel = strings.TrimSpace(strings.ToLower(msg.Channel))
	if msg.Channel == "" {
		msg.Channel = "email"
	}
	task, err := jobs.NewSendMessageTask(jobs.SendMessagePayload{
		TenantKey: tenant.Key,
		Channel:   msg.Channel,
		To:        msg.To,
		Subject:   strings.TrimSpace(msg.Subject),
		Body:      msg.Body,
	})
	if err != nil {
		return err
	}
	_, err = s.queue.EnqueueContext(ctx, task, asynq.Queue(jobs.QueueDefault))
	return err
}
