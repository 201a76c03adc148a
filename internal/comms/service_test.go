package comms

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/shared"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/jobs"
)

type enqueueSpy struct {
	tasks []*asynq.Task
}

func (s *enqueueSpy) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	s.tasks = append(s.tasks, task)
	return &asynq.TaskInfo{}, nil
}

func TestSendEnqueuesMessage(t *testing.T) {
	spy := &enqueueSpy{}
	svc := NewService(spy)
	tenant := shared.Tenant{ID: 1, Key: "acme"}

	err := svc.Send(context.Background(), tenant, Message{
		To:      "guest@example.com",
		Subject: "Receipt",
		Body:    "Thanks for your visit",
	})
	require.NoError(t, err)
	require.Len(t, spy.tasks, 1)
	require.Equal(t, jobs.TaskTypeSendMessage, spy.tasks[0].Type())

	var payload jobs.SendMessagePayload
	require.NoError(t, json.Unmarshal(spy.tasks[0].Payload(), &payload))
	require.Equal(t, "acme", payload.TenantKey)
	require.Equal(t, "email", payload.Channel)
	require.Equal(t, "guest@example.com", payload.To)
}

func TestSendRequiresRecipient(t *testing.T) {
	svc := NewService(&enqueueSpy{})

	err := svc.Send(context.Background(), shared.Tenant{Key: "acme"}, Message{Body: "hi"})
	require.Error(t, err)
}
