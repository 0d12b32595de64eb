package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// TypeOrderConfirm is the task type for order confirmation.
const TypeOrderConfirm = "order:confirm"

// ConfirmPayload carries the identifiers the worker needs to finalize an
// order.
type ConfirmPayload struct {
	OrderNumber string `json:"orderNumber"`
	CartID      string `json:"cartId"`
}

// NewConfirmTask builds an order-confirmation task.
func NewConfirmTask(p ConfirmPayload) (*asynq.Task, error) {
	if p.OrderNumber == "" || p.CartID == "" {
		return nil, errors.New("order number and cart id are required")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeOrderConfirm, data), nil
}

// Enqueuer schedules background tasks for the worker.
type Enqueuer struct {
	Client *asynq.Client
	// ConfirmDelay defers confirmation to model order processing time.
	ConfirmDelay time.Duration
	MaxRetry     int
}

func (e Enqueuer) maxRetry() int {
	if e.MaxRetry <= 0 {
		return 5
	}
	return e.MaxRetry
}

// EnqueueConfirm schedules an order-confirmation task.
func (e Enqueuer) EnqueueConfirm(ctx context.Context, p ConfirmPayload) error {
	if e.Client == nil {
		return errors.New("task client not configured")
	}
	task, err := NewConfirmTask(p)
	if err != nil {
		return err
	}
	opts := []asynq.Option{asynq.MaxRetry(e.maxRetry())}
	if e.ConfirmDelay > 0 {
		opts = append(opts, asynq.ProcessIn(e.ConfirmDelay))
	}
	_, err = e.Client.EnqueueContext(ctx, task, opts...)
	return err
}

// Confirmer finalizes a pending order.
type Confirmer interface {
	Confirm(ctx context.Context, orderNumber, cartID string) error
}

// ConfirmHandler adapts a Confirmer to the asynq handler contract.
func ConfirmHandler(c Confirmer) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p ConfirmPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			// A payload that never parses will never succeed; skip retries.
			return fmt.Errorf("decode confirm payload: %v: %w", err, asynq.SkipRetry)
		}
		return c.Confirm(ctx, p.OrderNumber, p.CartID)
	}
}
