package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendMessage delivers a queued customer message.
	TaskTypeSendMessage = "comms:send"
	// TaskTypeLowStock notifies about an item falling below reorder level.
	TaskTypeLowStock = "inventory:low_stock"
)

// SendMessagePayload describes a queued customer message.
type SendMessagePayload struct {
	TenantKey string `json:"tenantKey"`
	Channel   string `json:"channel"`
	To        string `json:"to"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// NewSendMessageTask constructs an Asynq task.
func NewSendMessageTask(payload SendMessagePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendMessage, data), nil
}

// NewSendMessageHandler processes TaskTypeSendMessage tasks. Actual
// transport delivery (SMS/email gateway) plugs in behind this handler.
func NewSendMessageHandler(logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload SendMessagePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		logger.Info("deliver message",
			slog.String("tenant", payload.TenantKey),
			slog.String("channel", payload.Channel),
			slog.String("to", payload.To),
			slog.String("subject", payload.Subject))
		return nil
	}
}

// LowStockPayload describes an item that crossed its reorder level.
type LowStockPayload struct {
	TenantKey string `json:"tenantKey"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	Reorder   int64  `json:"reorder"`
}

// NewLowStockTask constructs an Asynq task.
func NewLowStockTask(payload LowStockPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeLowStock, data), nil
}

// NewLowStockHandler processes TaskTypeLowStock tasks.
func NewLowStockHandler(logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload LowStockPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		logger.Warn("low stock",
			slog.String("tenant", payload.TenantKey),
			slog.String("sku", payload.SKU),
			slog.Int64("quantity", payload.Quantity),
			slog.Int64("reorder", payload.Reorder))
		return nil
	}
}
