package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Dias221467/solo-system/internal/metrics"
	"github.com/Dias221467/solo-system/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SubscriptionStore persists push subscriptions across restarts.
type SubscriptionStore interface {
	SaveSubscription(ctx context.Context, sub *models.PushSubscription) error
	DeleteSubscription(ctx context.Context, id string) error
	ListSubscriptions(ctx context.Context) ([]*models.PushSubscription, error)
}

// SubscriptionRegistry holds every registered web push subscription. The same
// browser may register more than once; entries are not deduplicated.
type SubscriptionRegistry struct {
	mu    sync.RWMutex
	subs  []*models.PushSubscription
	store SubscriptionStore
}

// NewSubscriptionRegistry creates a registry. store may be nil, in which case
// subscriptions live only in memory.
func NewSubscriptionRegistry(store SubscriptionStore) *SubscriptionRegistry {
	return &SubscriptionRegistry{store: store}
}

// Load replaces the in-memory list with what the store holds.
func (r *SubscriptionRegistry) Load(ctx context.Context) error {
	if r.store == nil {
		return nil
	}

	subs, err := r.store.ListSubscriptions(ctx)
	if err != nil {
		return fmt.Errorf("failed to load push subscriptions: %w", err)
	}

	r.mu.Lock()
	r.subs = subs
	metrics.PushSubscriptions.Set(float64(len(r.subs)))
	r.mu.Unlock()

	logrus.Infof("Loaded %d push subscriptions", len(subs))
	return nil
}

// Add appends sub. A store failure is logged; the subscription stays usable
// for this process.
func (r *SubscriptionRegistry) Add(ctx context.Context, sub *models.PushSubscription) {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}

	r.mu.Lock()
	r.subs = append(r.subs, sub)
	metrics.PushSubscriptions.Set(float64(len(r.subs)))
	r.mu.Unlock()

	if r.store != nil {
		if err := r.store.SaveSubscription(ctx, sub); err != nil {
			logrus.WithError(err).WithField("subscription_id", sub.ID).Error("Failed to persist push subscription")
		}
	}
}

// Remove deletes sub by identity and reports whether it was present.
func (r *SubscriptionRegistry) Remove(ctx context.Context, sub *models.PushSubscription) bool {
	r.mu.Lock()
	removed := false
	for i, s := range r.subs {
		if s == sub {
			r.subs = append(r.subs[:i], r.subs[i+1:]...)
			removed = true
			break
		}
	}
	metrics.PushSubscriptions.Set(float64(len(r.subs)))
	r.mu.Unlock()

	if removed && r.store != nil {
		if err := r.store.DeleteSubscription(ctx, sub.ID); err != nil {
			logrus.WithError(err).WithField("subscription_id", sub.ID).Error("Failed to delete push subscription")
		}
	}
	return removed
}

// All returns a snapshot of the registered subscriptions.
func (r *SubscriptionRegistry) All() []*models.PushSubscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.PushSubscription, len(r.subs))
	copy(out, r.subs)
	return out
}

func (r *SubscriptionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}
