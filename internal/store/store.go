package store

import (
	"context"
	"errors"
	"time"

	"loadplan/internal/model"
	"loadplan/internal/opt"
)

// Store is the persistence interface used by the API server.
type Store interface {
	Ping(ctx context.Context) error

	// Loads
	CreateLoads(ctx context.Context, tenantID string, loads []opt.Load) (created, skipped int, err error)
	ListLoads(ctx context.Context, tenantID, cursor string, limit int) (items []opt.Load, next string, err error)
	AllLoads(ctx context.Context, tenantID string) ([]opt.Load, error)

	// Plans
	SavePlan(ctx context.Context, p model.Plan) error
	GetPlan(ctx context.Context, tenantID, id string) (model.Plan, error)
	ListPlans(ctx context.Context, tenantID, planDate, cursor string, limit int) ([]model.Plan, string, error)

	// Solver defaults per tenant
	GetSolverConfig(ctx context.Context, tenantID string) (opt.Config, error)
	SaveSolverConfig(ctx context.Context, tenantID string, cfg opt.Config) error

	// Subscriptions
	CreateSubscription(ctx context.Context, req model.SubscriptionRequest) (model.Subscription, error)
	GetSubscriptionsForEvent(ctx context.Context, tenantID, eventType string) ([]model.Subscription, error)
	ListSubscriptions(ctx context.Context, tenantID, cursor string, limit int) ([]model.Subscription, string, error)
	DeleteSubscription(ctx context.Context, tenantID, id string) error

	// Webhook deliveries
	EnqueueWebhook(ctx context.Context, tenantID, subscriptionID, eventType, url, secret string, payload []byte) (string, error)
	FetchDueWebhookDeliveries(ctx context.Context, limit int) ([]WebhookDelivery, error)
	MarkWebhookDelivery(ctx context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode int, latencyMs int) error
	FailWebhookDelivery(ctx context.Context, id string, lastError string, responseCode int, latencyMs int) error
	ListWebhookDeliveries(ctx context.Context, tenantID, status string, limit int) ([]WebhookDelivery, error)
	RetryWebhookDelivery(ctx context.Context, tenantID, id string) error
}

var ErrNotFound = errors.New("not found")

// Delivery statuses.
const (
	DeliveryPending   = "pending"
	DeliveryRetry     = "retry"
	DeliveryDelivered = "delivered"
	DeliveryFailed    = "failed"
)
