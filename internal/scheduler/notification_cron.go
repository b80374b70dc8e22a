package cron

import (
	"context"
	"fmt"

	"github.com/Dias221467/solo-system/internal/jobs"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartNotificationCronJobs schedules the quest reminder on schedule (standard
// five-field cron syntax or descriptors such as "@daily"). The caller stops
// the returned scheduler on shutdown.
func StartNotificationCronJobs(schedule string, reminder *jobs.QuestReminder) (*cron.Cron, error) {
	c := cron.New()

	// Daily quest reminder
	_, err := c.AddFunc(schedule, func() {
		if err := reminder.Run(context.Background()); err != nil {
			logrus.WithError(err).Error("Quest reminder failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}

	c.Start()
	logrus.WithField("schedule", schedule).Info("Notification cron jobs started")
	return c, nil
}
