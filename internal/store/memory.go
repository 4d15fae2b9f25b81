package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"loadplan/internal/model"
	"loadplan/internal/opt"
)

// Memory is a simple in-memory store used when no DATABASE_URL is set.
type Memory struct {
	mu     sync.Mutex
	loads  map[string]map[int]opt.Load // tenant -> load id -> load
	plans  map[string]model.Plan       // id -> plan
	byTen  map[string][]string         // tenant -> plan ids, oldest first
	subs   map[string][]model.Subscription
	solver map[string]opt.Config // tenant -> config
	// Webhooks queue state
	deliveries         map[string]*memDelivery
	deliveriesByTenant map[string][]string
	deliveryOrder      []string
	dedup              map[string]string // tenant|event|url|key -> delivery id
}

func NewMemory() *Memory {
	return &Memory{
		loads:              map[string]map[int]opt.Load{},
		plans:              map[string]model.Plan{},
		byTen:              map[string][]string{},
		subs:               map[string][]model.Subscription{},
		solver:             map[string]opt.Config{},
		deliveries:         map[string]*memDelivery{},
		deliveriesByTenant: map[string][]string{},
		dedup:              map[string]string{},
	}
}

// memDelivery augments WebhookDelivery with scheduling/metrics
type memDelivery struct {
	WebhookDelivery
	NextAttemptAt time.Time
	LatencyMs     int
	DeliveredAt   *time.Time
}

func (m *Memory) Ping(ctx context.Context) error { return nil }

// CreateLoads stores loads for the tenant. A load whose id already exists is skipped.
func (m *Memory) CreateLoads(ctx context.Context, tenantID string, loads []opt.Load) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loads[tenantID] == nil {
		m.loads[tenantID] = map[int]opt.Load{}
	}
	created, skipped := 0, 0
	for _, l := range loads {
		if _, ok := m.loads[tenantID][l.ID]; ok {
			skipped++
			continue
		}
		m.loads[tenantID][l.ID] = l
		created++
	}
	return created, skipped, nil
}

func (m *Memory) ListLoads(ctx context.Context, tenantID, cursor string, limit int) ([]opt.Load, string, error) {
	all, _ := m.AllLoads(ctx, tenantID)
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	start := 0
	if cursor != "" {
		after, err := strconv.Atoi(cursor)
		if err != nil {
			return nil, "", fmt.Errorf("bad cursor %q", cursor)
		}
		start = sort.Search(len(all), func(i int) bool { return all[i].ID > after })
	}
	end := min(start+limit, len(all))
	out := append([]opt.Load{}, all[start:end]...)
	next := ""
	if end < len(all) {
		next = strconv.Itoa(all[end-1].ID)
	}
	return out, next, nil
}

// AllLoads returns every load of the tenant ordered by id.
func (m *Memory) AllLoads(ctx context.Context, tenantID string) ([]opt.Load, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]opt.Load, 0, len(m.loads[tenantID]))
	for _, l := range m.loads[tenantID] {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) SavePlan(ctx context.Context, p model.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.plans[p.ID]; !ok {
		m.byTen[p.TenantID] = append(m.byTen[p.TenantID], p.ID)
	}
	m.plans[p.ID] = p
	return nil
}

func (m *Memory) GetPlan(ctx context.Context, tenantID, id string) (model.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[id]
	if !ok || p.TenantID != tenantID {
		return model.Plan{}, ErrNotFound
	}
	return p, nil
}

func (m *Memory) ListPlans(ctx context.Context, tenantID, planDate, cursor string, limit int) ([]model.Plan, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := m.byTen[tenantID]
	start := 0
	if cursor != "" {
		for i, id := range ids {
			if id == cursor {
				start = i + 1
				break
			}
		}
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	out := []model.Plan{}
	next := ""
	for i := start; i < len(ids); i++ {
		p := m.plans[ids[i]]
		if planDate != "" && p.PlanDate != planDate {
			continue
		}
		if len(out) == limit {
			next = out[len(out)-1].ID
			break
		}
		out = append(out, p)
	}
	return out, next, nil
}

// GetSolverConfig returns ErrNotFound when the tenant has no saved defaults.
func (m *Memory) GetSolverConfig(ctx context.Context, tenantID string) (opt.Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg, ok := m.solver[tenantID]
	if !ok {
		return opt.Config{}, ErrNotFound
	}
	return cfg, nil
}

func (m *Memory) SaveSolverConfig(ctx context.Context, tenantID string, cfg opt.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.solver[tenantID] = cfg
	return nil
}

func (m *Memory) CreateSubscription(ctx context.Context, req model.SubscriptionRequest) (model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := model.Subscription{ID: uuid.New().String(), TenantID: req.TenantID, URL: req.URL, Events: req.Events, Secret: req.Secret}
	m.subs[req.TenantID] = append(m.subs[req.TenantID], s)
	return s, nil
}

func (m *Memory) GetSubscriptionsForEvent(ctx context.Context, tenantID, eventType string) ([]model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Subscription
	for _, s := range m.subs[tenantID] {
		for _, e := range s.Events {
			if e == eventType {
				out = append(out, s)
				break
			}
		}
	}
	return out, nil
}

func (m *Memory) ListSubscriptions(ctx context.Context, tenantID, cursor string, limit int) ([]model.Subscription, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.subs[tenantID]
	start := 0
	if cursor != "" {
		for i := range list {
			if list[i].ID == cursor {
				start = i + 1
				break
			}
		}
	}
	if limit <= 0 {
		limit = 100
	}
	end := min(start+limit, len(list))
	items := append([]model.Subscription{}, list[start:end]...)
	next := ""
	if end < len(list) {
		next = list[end-1].ID
	}
	return items, next, nil
}

func (m *Memory) DeleteSubscription(ctx context.Context, tenantID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	arr := m.subs[tenantID]
	out := make([]model.Subscription, 0, len(arr))
	for _, s := range arr {
		if s.ID != id {
			out = append(out, s)
		}
	}
	if len(out) == len(arr) {
		return ErrNotFound
	}
	m.subs[tenantID] = out
	return nil
}

// Webhook deliveries
func (m *Memory) EnqueueWebhook(ctx context.Context, tenantID, subscriptionID, eventType, url, secret string, payload []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	dk := tenantID + "|" + eventType + "|" + url + "|" + computeDedupKey(payload)
	if id, ok := m.dedup[dk]; ok {
		return id, nil
	}
	id := uuid.New().String()
	d := &memDelivery{WebhookDelivery: WebhookDelivery{ID: id, TenantID: tenantID, SubscriptionID: subscriptionID, EventType: eventType, URL: url, Secret: secret, Payload: payload, Status: DeliveryPending}, NextAttemptAt: time.Now()}
	m.deliveries[id] = d
	m.deliveriesByTenant[tenantID] = append(m.deliveriesByTenant[tenantID], id)
	m.deliveryOrder = append(m.deliveryOrder, id)
	m.dedup[dk] = id
	return id, nil
}

func (m *Memory) FetchDueWebhookDeliveries(ctx context.Context, limit int) ([]WebhookDelivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	out := []WebhookDelivery{}
	for _, id := range m.deliveryOrder {
		d := m.deliveries[id]
		if (d.Status == DeliveryPending || d.Status == DeliveryRetry) && !d.NextAttemptAt.After(now) {
			out = append(out, d.WebhookDelivery)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (m *Memory) MarkWebhookDelivery(ctx context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode int, latencyMs int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.deliveries[id]
	if d == nil {
		return ErrNotFound
	}
	d.Attempts++
	d.ResponseCode = responseCode
	d.LatencyMs = latencyMs
	if success {
		d.Status = DeliveryDelivered
		now := time.Now()
		d.DeliveredAt = &now
		return nil
	}
	d.Status = DeliveryRetry
	d.LastError = lastError
	if nextAttemptAt != nil {
		d.NextAttemptAt = *nextAttemptAt
	} else {
		d.NextAttemptAt = time.Now().Add(1 * time.Minute)
	}
	return nil
}

func (m *Memory) FailWebhookDelivery(ctx context.Context, id string, lastError string, responseCode int, latencyMs int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.deliveries[id]
	if d == nil {
		return ErrNotFound
	}
	d.Attempts++
	d.Status = DeliveryFailed
	d.LastError = lastError
	d.ResponseCode = responseCode
	d.LatencyMs = latencyMs
	return nil
}

func (m *Memory) ListWebhookDeliveries(ctx context.Context, tenantID, status string, limit int) ([]WebhookDelivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	out := []WebhookDelivery{}
	for _, id := range m.deliveriesByTenant[tenantID] {
		d := m.deliveries[id]
		if status != "" && d.Status != status {
			continue
		}
		item := d.WebhookDelivery
		if d.Status == DeliveryPending || d.Status == DeliveryRetry {
			next := d.NextAttemptAt
			item.NextAttemptAt = &next
		}
		out = append(out, item)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *Memory) RetryWebhookDelivery(ctx context.Context, tenantID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.deliveries[id]
	if d == nil || d.TenantID != tenantID {
		return ErrNotFound
	}
	d.Status = DeliveryPending
	d.NextAttemptAt = time.Now()
	return nil
}
