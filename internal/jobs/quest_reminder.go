package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/solo-system/internal/models"
	"github.com/Dias221467/solo-system/internal/services"
	"github.com/sirupsen/logrus"
)

// Broadcaster is the notification fan-out the reminder pushes through.
type Broadcaster interface {
	Broadcast(ctx context.Context, payload models.NotificationPayload) (*services.BroadcastReport, error)
}

// QuestReminder pushes the daily quest reminder to every subscribed device.
type QuestReminder struct {
	Notifier Broadcaster
	Title    string
	Body     string
	Icon     string
}

// NewQuestReminder creates a new instance of QuestReminder
func NewQuestReminder(notifier Broadcaster, title, body string) *QuestReminder {
	return &QuestReminder{
		Notifier: notifier,
		Title:    title,
		Body:     body,
		Icon:     "/icons/icon-192.png",
	}
}

// Run sends one reminder broadcast.
func (q *QuestReminder) Run(ctx context.Context) error {
	report, err := q.Notifier.Broadcast(ctx, models.NotificationPayload{
		Title: q.Title,
		Body:  q.Body,
		Icon:  q.Icon,
		Data: map[string]any{
			"type": "daily_reminder",
			"url":  "/quests",
			"date": time.Now().UTC().Format("2006-01-02"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send quest reminder: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"sent":   report.Sent,
		"pruned": report.Pruned,
		"failed": report.Failed,
	}).Info("Quest reminder sent")
	return nil
}
