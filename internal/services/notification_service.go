package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dias221467/solo-system/internal/metrics"
	"github.com/Dias221467/solo-system/internal/models"
	"github.com/Dias221467/solo-system/pkg/webpush"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Delivery outcomes reported per subscription.
const (
	OutcomeSent   = "sent"
	OutcomeGone   = "gone"
	OutcomeFailed = "failed"
)

// ErrPushDisabled is returned when no VAPID keys are configured.
var ErrPushDisabled = errors.New("push notifications are not configured")

// PushSender delivers one encrypted payload to one subscription.
type PushSender interface {
	Send(ctx context.Context, sub *models.PushSubscription, payload []byte) error
}

type DeliveryOutcome struct {
	Endpoint string `json:"endpoint"`
	Outcome  string `json:"outcome"`
	Error    string `json:"error,omitempty"`
}

type BroadcastReport struct {
	Attempted int               `json:"attempted"`
	Sent      int               `json:"sent"`
	Pruned    int               `json:"pruned"`
	Failed    int               `json:"failed"`
	Outcomes  []DeliveryOutcome `json:"outcomes"`
}

// NotificationService fans a notification out to every push subscription.
type NotificationService struct {
	registry    *SubscriptionRegistry
	sender      PushSender
	concurrency int
}

// NewNotificationService creates the dispatcher. A nil sender disables
// delivery; concurrency <= 0 means no limit on in-flight deliveries.
func NewNotificationService(registry *SubscriptionRegistry, sender PushSender, concurrency int) *NotificationService {
	return &NotificationService{
		registry:    registry,
		sender:      sender,
		concurrency: concurrency,
	}
}

// Broadcast attempts delivery to every registered subscription concurrently.
// A subscription whose endpoint is gone is pruned; any other failure is
// logged and left for a later broadcast. Individual failures never fail the
// call.
func (s *NotificationService) Broadcast(ctx context.Context, payload models.NotificationPayload) (*BroadcastReport, error) {
	if s.sender == nil {
		return nil, ErrPushDisabled
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode notification: %w", err)
	}

	subs := s.registry.All()
	outcomes := make([]DeliveryOutcome, len(subs))

	var g errgroup.Group
	if s.concurrency > 0 {
		g.SetLimit(s.concurrency)
	}
	for i, sub := range subs {
		g.Go(func() error {
			outcomes[i] = s.deliver(ctx, sub, body)
			return nil
		})
	}
	_ = g.Wait()

	report := &BroadcastReport{Attempted: len(subs), Outcomes: outcomes}
	for _, o := range outcomes {
		switch o.Outcome {
		case OutcomeSent:
			report.Sent++
		case OutcomeGone:
			report.Pruned++
		default:
			report.Failed++
		}
	}

	logrus.WithFields(logrus.Fields{
		"title":     payload.Title,
		"attempted": report.Attempted,
		"sent":      report.Sent,
		"pruned":    report.Pruned,
		"failed":    report.Failed,
	}).Info("Push notification broadcast finished")

	return report, nil
}

func (s *NotificationService) deliver(ctx context.Context, sub *models.PushSubscription, body []byte) DeliveryOutcome {
	outcome := DeliveryOutcome{Endpoint: sub.Endpoint, Outcome: OutcomeSent}

	err := s.sender.Send(ctx, sub, body)
	switch {
	case err == nil:
	case webpush.IsGone(err):
		s.registry.Remove(ctx, sub)
		outcome.Outcome = OutcomeGone
		outcome.Error = err.Error()
		logrus.WithField("subscription_id", sub.ID).Info("Pruned expired push subscription")
	default:
		outcome.Outcome = OutcomeFailed
		outcome.Error = err.Error()
		logrus.WithError(err).WithField("subscription_id", sub.ID).Warn("Push delivery failed")
	}

	metrics.PushDeliveries.WithLabelValues(outcome.Outcome).Inc()
	return outcome
}
