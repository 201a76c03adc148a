package inventory

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/hibiken/asynq"

	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/shared"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/jobs"
)

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	List(ctx context.Context, tenantID int64) ([]Item, error)
	Get(ctx context.Context, tenantID, itemID int64) (*Item, error)
	Create(ctx context.Context, item Item) (Item, error)
	AdjustQuantity(ctx context.Context, tenantID int64, adj Adjustment) (Item, error)
}

// TaskEnqueuer queues background tasks; satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Service coordinates inventory operations.
type Service struct {
	repo   RepositoryPort
	queue  TaskEnqueuer
	logger *slog.Logger
}

// NewService builds Service. queue may be nil, disabling low-stock alerts.
func NewService(repo RepositoryPort, queue TaskEnqueuer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, queue: queue, logger: logger}
}

// CreateInput carries the attributes of a new item.
type CreateInput struct {
	CategoryID   int64
	SKU          string
	Name         string
	Quantity     int64
	ReorderLevel int64
	PriceCents   int64
}

// List returns all items of the tenant.
func (s *Service) List(ctx context.Context, tenant shared.Tenant) ([]Item, error) {
	return s.repo.List(ctx, tenant.ID)
}

// Get returns one item.
func (s *Service) Get(ctx context.Context, tenant shared.Tenant, itemID int64) (*Item, error) {
	return s.repo.Get(ctx, tenant.ID, itemID)
}

// Create inserts a new item.
func (s *Service) Create(ctx context.Context, tenant shared.Tenant, input CreateInput) (Item, error) {
	input.SKU = strings.TrimSpace(input.SKU)
	if input.SKU == "" {
		return Item{}, errors.New("inventory: sku required")
	}
	if input.Quantity < 0 || input.ReorderLevel < 0 || input.PriceCents < 0 {
		return Item{}, errors.New("inventory: negative values not allowed")
	}
	return s.repo.Create(ctx, Item{
		TenantID:     tenant.ID,
		CategoryID:   input.CategoryID,
		SKU:          input.SKU,
		Name:         strings.TrimSpace(input.Name),
		Quantity:     input.Quantity,
		ReorderLevel: input.ReorderLevel,
		PriceCents:   input.PriceCents,
	})
}

// Adjust applies a stock delta. Crossing the reorder level enqueues a
// low-stock alert; a failed enqueue only logs since the adjustment already
// committed.
func (s *Service) Adjust(ctx context.Context, tenant shared.Tenant, adj Adjustment) (Item, error) {
	if adj.Delta == 0 {
		return Item{}, ErrInvalidDelta
	}
	item, err := s.repo.AdjustQuantity(ctx, tenant.ID, adj)
	if err != nil {
		return Item{}, err
	}
	if s.queue != nil && item.Quantity <= item.ReorderLevel {
		task, err := jobs.NewLowStockTask(jobs.LowStockPayload{
			TenantKey: tenant.Key,
			SKU:       item.SKU,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Reorder:   item.ReorderLevel,
		})
		if err == nil {
			_, err = s.queue.EnqueueContext(ctx, task, asynq.Queue(jobs.QueueDefault))
		}
		if err != nil {
			s.logger.Error("enqueue low stock alert", slog.String("sku", item.SKU), slog.Any("error", err))
		}
	}
	return item, nil
}
